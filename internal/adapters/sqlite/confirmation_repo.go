package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/backloop/internal/ports/secondary"
)

// ConfirmationRepository implements secondary.ConfirmationRepository with SQLite.
type ConfirmationRepository struct {
	db *sql.DB
}

// NewConfirmationRepository creates a new SQLite confirmation repository.
func NewConfirmationRepository(db *sql.DB) *ConfirmationRepository {
	return &ConfirmationRepository{db: db}
}

const confirmationColumns = `request_id, session_id, intent, item_id, item_name, problem_id,
	resolution, condition_tier, has_receipt, cart_value, pickup_fee, amount, created_at`

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Create persists a new confirmation. Request IDs are not unique; every
// closed request gets its own row.
func (r *ConfirmationRepository) Create(ctx context.Context, c *secondary.ConfirmationRecord) error {
	createdAt := c.CreatedAt
	if createdAt == "" {
		createdAt = time.Now().UTC().Format(time.RFC3339)
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO confirmations ("+confirmationColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		c.RequestID, c.SessionID, c.Intent, c.ItemID, c.ItemName,
		nullString(c.ProblemID), nullString(c.Resolution), nullString(c.Condition),
		c.HasReceipt, c.CartValue, c.PickupFee, c.Amount, createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create confirmation: %w", err)
	}

	return nil
}

// GetByRequestID retrieves the most recently stored confirmation with the
// given request ID.
func (r *ConfirmationRepository) GetByRequestID(ctx context.Context, requestID string) (*secondary.ConfirmationRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+confirmationColumns+" FROM confirmations WHERE request_id = ? ORDER BY id DESC LIMIT 1",
		requestID,
	)

	record, err := scanConfirmation(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("confirmation %s not found", requestID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get confirmation: %w", err)
	}

	return record, nil
}

// List retrieves confirmations matching the given filters, newest first.
func (r *ConfirmationRepository) List(ctx context.Context, filters secondary.ConfirmationFilters) ([]*secondary.ConfirmationRecord, error) {
	query := "SELECT " + confirmationColumns + " FROM confirmations WHERE 1=1"
	args := []any{}

	if filters.Intent != "" {
		query += " AND intent = ?"
		args = append(args, filters.Intent)
	}

	query += " ORDER BY created_at DESC, id DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmations: %w", err)
	}
	defer rows.Close()

	var confirmations []*secondary.ConfirmationRecord
	for rows.Next() {
		record, err := scanConfirmation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan confirmation: %w", err)
		}
		confirmations = append(confirmations, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list confirmations: %w", err)
	}

	return confirmations, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanConfirmation(s scanner) (*secondary.ConfirmationRecord, error) {
	var (
		problemID  sql.NullString
		resolution sql.NullString
		condition  sql.NullString
		createdAt  time.Time
	)

	record := &secondary.ConfirmationRecord{}
	err := s.Scan(&record.RequestID, &record.SessionID, &record.Intent, &record.ItemID, &record.ItemName,
		&problemID, &resolution, &condition, &record.HasReceipt,
		&record.CartValue, &record.PickupFee, &record.Amount, &createdAt)
	if err != nil {
		return nil, err
	}

	record.ProblemID = problemID.String
	record.Resolution = resolution.String
	record.Condition = condition.String
	record.CreatedAt = createdAt.UTC().Format(time.RFC3339)

	return record, nil
}

var _ secondary.ConfirmationRepository = (*ConfirmationRepository)(nil)
