package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/allisson/vaultactions/internal/database"
	apperrors "github.com/allisson/vaultactions/internal/errors"
	eventsDomain "github.com/allisson/vaultactions/internal/events/domain"
)

// MySQLEventRepository implements Event persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLEventRepository struct {
	db *sql.DB
}

// NewMySQLEventRepository creates a new MySQL Event repository.
func NewMySQLEventRepository(db *sql.DB) *MySQLEventRepository {
	return &MySQLEventRepository{db: db}
}

// Create inserts a new event.
func (m *MySQLEventRepository) Create(ctx context.Context, event *eventsDomain.Event) error {
	querier := database.GetTx(ctx, m.db)

	id, err := event.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal event id")
	}

	entityID, err := event.EntityID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal event entity id")
	}

	query := `INSERT INTO events (id, name, entity_id, payload, signature, status, retries, last_error, processed_at, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(6), NOW(6))`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		event.Name,
		entityID,
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
func (m *MySQLEventRepository) GetPendingEvents(
	ctx context.Context,
	limit int,
) ([]*eventsDomain.Event, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, entity_id, payload, signature, status, retries, last_error, processed_at, created_at, updated_at
			  FROM events
			  WHERE status = ?
			  ORDER BY created_at ASC
			  LIMIT ?
			  FOR UPDATE SKIP LOCKED`

	rows, err := querier.QueryContext(ctx, query, eventsDomain.EventStatusPending, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get pending events")
	}
	defer rows.Close() //nolint:errcheck

	return scanMySQLEvents(rows)
}

// Update updates an event's delivery state.
func (m *MySQLEventRepository) Update(ctx context.Context, event *eventsDomain.Event) error {
	querier := database.GetTx(ctx, m.db)

	id, err := event.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal event id")
	}

	query := `UPDATE events
			  SET status = ?, retries = ?, last_error = ?, processed_at = ?, updated_at = NOW(6)
			  WHERE id = ?`

	_, err = querier.ExecContext(
		ctx,
		query,
		event.Status,
		event.Retries,
		event.LastError,
		event.ProcessedAt,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update event")
	}
	return nil
}

// ListByEntity retrieves events for an entity newest first.
func (m *MySQLEventRepository) ListByEntity(
	ctx context.Context,
	entityID uuid.UUID,
	limit, offset int,
) ([]*eventsDomain.Event, error) {
	querier := database.GetTx(ctx, m.db)

	entityIDValue, err := entityID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal event entity id")
	}

	query := `SELECT id, name, entity_id, payload, signature, status, retries, last_error, processed_at, created_at, updated_at
			  FROM events
			  WHERE entity_id = ?
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, entityIDValue, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list events")
	}
	defer rows.Close() //nolint:errcheck

	return scanMySQLEvents(rows)
}

// scanMySQLEvents reads event rows into domain entities, decoding BINARY(16) UUIDs.
func scanMySQLEvents(rows *sql.Rows) ([]*eventsDomain.Event, error) {
	var events []*eventsDomain.Event
	for rows.Next() {
		var (
			event       eventsDomain.Event
			idBytes     []byte
			entityBytes []byte
		)

		err := rows.Scan(
			&idBytes,
			&event.Name,
			&entityBytes,
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

		if event.ID, err = uuid.FromBytes(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal event id")
		}
		if event.EntityID, err = uuid.FromBytes(entityBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal event entity id")
		}

		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate events")
	}

	return events, nil
}
