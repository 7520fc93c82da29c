package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dibyajyoti630/RedZone/internal/domain"
	"github.com/Dibyajyoti630/RedZone/pkg/e"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ZoneRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewZoneRepo(pool *pgxpool.Pool, logger *slog.Logger) *ZoneRepo {
	return &ZoneRepo{pool: pool, logger: logger}
}

const zoneColumns = `
	id, title, description, location, landmark,
	lat, lng, severity, status,
	reported_by, reviewed_by, created_at, reviewed_at, updated_at
`

func (p *ZoneRepo) Create(ctx context.Context, zone *domain.Zone) error {
	const op = "postgres.Zone.Create"

	const query = `
		INSERT INTO zones (id, title, description, location, landmark,
			lat, lng, severity, status,
			reported_by, reviewed_by, created_at, reviewed_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	if zone.ID == uuid.Nil {
		zone.ID = uuid.New()
	}
	if zone.CreatedAt.IsZero() {
		zone.CreatedAt = time.Now().UTC()
	}
	if zone.UpdatedAt.IsZero() {
		zone.UpdatedAt = zone.CreatedAt
	}
	if zone.Status == "" {
		zone.Status = domain.ZonePending
	}

	var lat, lng *float64
	if zone.Coordinates != nil {
		lat, lng = &zone.Coordinates.Lat, &zone.Coordinates.Lng
	}
	var reviewedBy *uuid.UUID
	if zone.ReviewedBy != nil {
		reviewedBy = &zone.ReviewedBy.ID
	}

	_, err := p.pool.Exec(ctx, query,
		zone.ID,
		zone.Title,
		zone.Description,
		zone.Location,
		nullIfEmpty(zone.Landmark),
		lat,
		lng,
		zone.Severity,
		zone.Status,
		zone.ReportedBy.ID,
		reviewedBy,
		zone.CreatedAt,
		zone.ReviewedAt,
		zone.UpdatedAt,
	)
	if err != nil {
		p.logger.Error("db exec failed",
			slog.String("op", op),
			slog.Any("error", err),
		)
		return e.WrapError(ctx, op, err)
	}

	return nil
}

func (p *ZoneRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Zone, error) {
	const op = "postgres.Zone.Get"

	query := `SELECT ` + zoneColumns + ` FROM zones WHERE id = $1`

	zone, err := scanZone(p.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return nil, e.WrapError(ctx, op, err)
	}

	return zone, nil
}

func (p *ZoneRepo) Recent(ctx context.Context, limit int) ([]*domain.Zone, error) {
	const op = "postgres.Zone.Recent"

	if limit <= 0 || limit > 50 {
		limit = 10
	}

	query := `SELECT ` + zoneColumns + `
		FROM zones
		WHERE status = 'approved'
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := p.pool.Query(ctx, query, limit)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	return collectZones(ctx, op, p.logger, rows)
}

func (p *ZoneRepo) List(ctx context.Context, page, limit int) ([]*domain.Zone, int64, error) {
	const op = "postgres.Zone.List"

	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	const countQuery = `SELECT COUNT(*) FROM zones`

	var total int64
	if err := p.pool.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		p.logger.Error("db count failed", slog.String("op", op), slog.Any("error", err))
		return nil, 0, e.WrapError(ctx, op, err)
	}

	query := `SELECT ` + zoneColumns + `
		FROM zones
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := p.pool.Query(ctx, query, limit, offset)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, 0, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	zones, err := collectZones(ctx, op, p.logger, rows)
	if err != nil {
		return nil, 0, err
	}

	return zones, total, nil
}

func (p *ZoneRepo) ListApprovedWithCoords(ctx context.Context) ([]*domain.Zone, error) {
	const op = "postgres.Zone.ListApprovedWithCoords"

	query := `SELECT ` + zoneColumns + `
		FROM zones
		WHERE status = 'approved' AND lat IS NOT NULL AND lng IS NOT NULL`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	return collectZones(ctx, op, p.logger, rows)
}

func (p *ZoneRepo) UpdateStatus(ctx context.Context, upd domain.StatusUpdate) (bool, error) {
	const op = "postgres.Zone.UpdateStatus"

	const query = `
		UPDATE zones
		SET status      = $3,
			reviewed_by = COALESCE($4, reviewed_by),
			reviewed_at = COALESCE($5, reviewed_at),
			updated_at  = $6
		WHERE id = $1 AND status = $2
	`

	cmd, err := p.pool.Exec(ctx, query,
		upd.ZoneID,
		upd.Expected,
		upd.Target,
		upd.ReviewedBy,
		upd.ReviewedAt,
		upd.UpdatedAt,
	)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.String("id", upd.ZoneID.String()))
		return false, e.WrapError(ctx, op, err)
	}

	return cmd.RowsAffected() == 1, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanZone(row rowScanner) (*domain.Zone, error) {
	var (
		z          domain.Zone
		landmark   *string
		lat, lng   *float64
		reviewedBy *uuid.UUID
	)
	if err := row.Scan(
		&z.ID,
		&z.Title,
		&z.Description,
		&z.Location,
		&landmark,
		&lat,
		&lng,
		&z.Severity,
		&z.Status,
		&z.ReportedBy.ID,
		&reviewedBy,
		&z.CreatedAt,
		&z.ReviewedAt,
		&z.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if landmark != nil {
		z.Landmark = *landmark
	}
	if lat != nil && lng != nil {
		z.Coordinates = &domain.Coordinates{Lat: *lat, Lng: *lng}
	}
	if reviewedBy != nil {
		z.ReviewedBy = &domain.UserRef{ID: *reviewedBy}
	}
	return &z, nil
}

func collectZones(ctx context.Context, op string, logger *slog.Logger, rows pgx.Rows) ([]*domain.Zone, error) {
	var zones []*domain.Zone
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		zones = append(zones, z)
	}
	if err := rows.Err(); err != nil {
		logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	return zones, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
