package notify

import (
	"fmt"
	"strings"

	"github.com/Dibyajyoti630/RedZone/internal/domain"
)

// FormatMessage renders the SMS text for a variant from a zone snapshot.
func FormatMessage(variant domain.MessageVariant, zone domain.ZoneSnapshot) string {
	switch variant {
	case domain.VariantApproved:
		return fmt.Sprintf(
			`ALERT: RedZone "%s" at %s has been verified and approved. Severity: %s. Please exercise caution in this area.`,
			zone.Title, zone.Location, severityLabel(zone.Severity),
		)
	case domain.VariantCreated:
		// A zone can be broadcast at creation already carrying approved
		// status (moderator-created); the text follows the status.
		if zone.Status == domain.ZoneApproved {
			return fmt.Sprintf(
				`ALERT: RedZone "%s" at %s has been verified and approved. Severity: %s. Please exercise caution in this area.`,
				zone.Title, zone.Location, severityLabel(zone.Severity),
			)
		}
		return fmt.Sprintf(
			`ALERT: New RedZone "%s" has been reported at %s. Severity: %s. Please exercise caution in this area.`,
			zone.Title, zone.Location, severityLabel(zone.Severity),
		)
	case domain.VariantSafe:
		return fmt.Sprintf(
			`SAFETY UPDATE: The area "%s" at %s is now marked as SAFE by authorities. You can resume normal activities in this area.`,
			zone.Title, zone.Location,
		)
	case domain.VariantReporter:
		return fmt.Sprintf(
			`Good news! Your RedZone report "%s" at %s has been approved by a moderator. Thank you for helping keep our community safe.`,
			zone.Title, zone.Location,
		)
	default:
		return fmt.Sprintf(`ALERT: RedZone "%s" at %s. Severity: %s.`,
			zone.Title, zone.Location, severityLabel(zone.Severity))
	}
}

func severityLabel(s domain.Severity) string {
	if s == "" {
		return "HIGH"
	}
	return strings.ToUpper(string(s))
}
