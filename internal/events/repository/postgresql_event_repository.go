// Package repository implements event log persistence.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(), so events written by a use case join the use case's
// transaction and disappear with it on rollback.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/allisson/vaultactions/internal/database"
	apperrors "github.com/allisson/vaultactions/internal/errors"
	eventsDomain "github.com/allisson/vaultactions/internal/events/domain"
)

// PostgreSQLEventRepository implements Event persistence for PostgreSQL.
type PostgreSQLEventRepository struct {
	db *sql.DB
}

// NewPostgreSQLEventRepository creates a new PostgreSQL Event repository.
func NewPostgreSQLEventRepository(db *sql.DB) *PostgreSQLEventRepository {
	return &PostgreSQLEventRepository{db: db}
}

// Create inserts a new event.
func (p *PostgreSQLEventRepository) Create(ctx context.Context, event *eventsDomain.Event) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO events (id, name, entity_id, payload, signature, status, retries, last_error, processed_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())`

	_, err := querier.ExecContext(
		ctx,
		query,
		event.ID,
		event.Name,
		event.EntityID,
		event.Payload,
		event.Signature,
		event.Status,
		event.Retries,
		event.LastError,
		event.ProcessedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create event")
	}
	return nil
}

// GetPendingEvents retrieves pending events oldest first. Rows are locked
// with SKIP LOCKED so concurrent dispatchers never deliver the same event.
func (p *PostgreSQLEventRepository) GetPendingEvents(
	ctx context.Context,
	limit int,
) ([]*eventsDomain.Event, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, entity_id, payload, signature, status, retries, last_error, processed_at, created_at, updated_at
			  FROM events
			  WHERE status = $1
			  ORDER BY created_at ASC
			  LIMIT $2
			  FOR UPDATE SKIP LOCKED`

	rows, err := querier.QueryContext(ctx, query, eventsDomain.EventStatusPending, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get pending events")
	}
	defer rows.Close() //nolint:errcheck

	return scanEvents(rows)
}

// Update updates an event's delivery state.
func (p *PostgreSQLEventRepository) Update(ctx context.Context, event *eventsDomain.Event) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE events
			  SET status = $1, retries = $2, last_error = $3, processed_at = $4, updated_at = NOW()
			  WHERE id = $5`

	_, err := querier.ExecContext(
		ctx,
		query,
		event.Status,
		event.Retries,
		event.LastError,
		event.ProcessedAt,
		event.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update event")
	}
	return nil
}

// ListByEntity retrieves events for an entity newest first.
func (p *PostgreSQLEventRepository) ListByEntity(
	ctx context.Context,
	entityID uuid.UUID,
	limit, offset int,
) ([]*eventsDomain.Event, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, entity_id, payload, signature, status, retries, last_error, processed_at, created_at, updated_at
			  FROM events
			  WHERE entity_id = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, entityID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list events")
	}
	defer rows.Close() //nolint:errcheck

	return scanEvents(rows)
}

// scanEvents reads event rows into domain entities.
func scanEvents(rows *sql.Rows) ([]*eventsDomain.Event, error) {
	var events []*eventsDomain.Event
	for rows.Next() {
		var event eventsDomain.Event

		err := rows.Scan(
			&event.ID,
			&event.Name,
			&event.EntityID,
			&event.Payload,
			&event.Signature,
			&event.Status,
			&event.Retries,
			&event.LastError,
			&event.ProcessedAt,
			&event.CreatedAt,
			&event.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan event")
		}

		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate events")
	}

	return events, nil
}
