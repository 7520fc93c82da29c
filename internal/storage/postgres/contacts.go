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

type ContactRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewContactRepo(pool *pgxpool.Pool, logger *slog.Logger) *ContactRepo {
	return &ContactRepo{pool: pool, logger: logger}
}

func (p *ContactRepo) Upsert(ctx context.Context, contact *domain.Contact) error {
	const op = "postgres.Contact.Upsert"

	// One contact per user: a second opt-in updates the existing row and
	// leaves its status untouched.
	const query = `
		INSERT INTO contacts (user_id, name, phone, email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE
		SET name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			updated_at = EXCLUDED.updated_at
	`

	now := time.Now().UTC()
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = now
	}
	contact.UpdatedAt = now
	if contact.Status == "" {
		contact.Status = domain.ContactActive
	}

	_, err := p.pool.Exec(ctx, query,
		contact.UserID,
		contact.Name,
		contact.Phone,
		contact.Email,
		contact.Status,
		contact.CreatedAt,
		contact.UpdatedAt,
	)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.String("user_id", contact.UserID.String()))
		return e.WrapError(ctx, op, err)
	}

	return nil
}

func (p *ContactRepo) FindByUser(ctx context.Context, userID uuid.UUID) (*domain.Contact, error) {
	const op = "postgres.Contact.FindByUser"

	const query = `
		SELECT user_id, name, phone, email, status, created_at, updated_at
		FROM contacts
		WHERE user_id = $1
	`

	var c domain.Contact
	err := p.pool.QueryRow(ctx, query, userID).Scan(
		&c.UserID,
		&c.Name,
		&c.Phone,
		&c.Email,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.String("user_id", userID.String()))
		return nil, e.WrapError(ctx, op, err)
	}

	return &c, nil
}

func (p *ContactRepo) List(ctx context.Context) ([]*domain.Contact, error) {
	const op = "postgres.Contact.List"

	const query = `
		SELECT user_id, name, phone, email, status, created_at, updated_at
		FROM contacts
		ORDER BY created_at DESC
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	var contacts []*domain.Contact
	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(&c.UserID, &c.Name, &c.Phone, &c.Email, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		contacts = append(contacts, &c)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return contacts, nil
}

// ListPhones returns every registered phone, pending_removal included:
// a contact stays in the fanout audience until the row is actually gone.
func (p *ContactRepo) ListPhones(ctx context.Context) ([]string, error) {
	const op = "postgres.Contact.ListPhones"

	const query = `SELECT phone FROM contacts WHERE phone <> ''`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	phones := make([]string, 0, 32)
	for rows.Next() {
		var phone string
		if err := rows.Scan(&phone); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		phones = append(phones, phone)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return phones, nil
}

func (p *ContactRepo) SetStatus(ctx context.Context, userID uuid.UUID, status domain.ContactStatus) error {
	const op = "postgres.Contact.SetStatus"

	const query = `UPDATE contacts SET status = $2, updated_at = $3 WHERE user_id = $1`

	cmd, err := p.pool.Exec(ctx, query, userID, status, time.Now().UTC())
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.String("user_id", userID.String()))
		return e.WrapError(ctx, op, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}

	return nil
}

func (p *ContactRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	const op = "postgres.Contact.DeleteByUser"

	const query = `DELETE FROM contacts WHERE user_id = $1`

	cmd, err := p.pool.Exec(ctx, query, userID)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.String("user_id", userID.String()))
		return e.WrapError(ctx, op, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}

	return nil
}
