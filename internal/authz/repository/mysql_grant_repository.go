package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	authzDomain "github.com/allisson/vaultactions/internal/authz/domain"
	"github.com/allisson/vaultactions/internal/database"
	apperrors "github.com/allisson/vaultactions/internal/errors"
)

// MySQLGrantRepository implements Grant persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLGrantRepository struct {
	db *sql.DB
}

// NewMySQLGrantRepository creates a new MySQL Grant repository.
func NewMySQLGrantRepository(db *sql.DB) *MySQLGrantRepository {
	return &MySQLGrantRepository{db: db}
}

// Create inserts a new Grant. Creating a grant that already exists is a
// no-op, so authorizing twice is safe.
func (m *MySQLGrantRepository) Create(ctx context.Context, grant *authzDomain.Grant) error {
	querier := database.GetTx(ctx, m.db)

	id, err := grant.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal grant id")
	}

	entityID, err := grant.EntityID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal grant entity id")
	}

	query := `INSERT IGNORE INTO grants (id, entity_id, grantee, capability, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		entityID,
		grant.Grantee,
		grant.Capability,
		grant.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create grant")
	}
	return nil
}

// Delete removes a Grant. Removing an absent grant is a no-op.
func (m *MySQLGrantRepository) Delete(
	ctx context.Context,
	entityID uuid.UUID,
	grantee string,
	capability authzDomain.Capability,
) error {
	querier := database.GetTx(ctx, m.db)

	entityIDValue, err := entityID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal grant entity id")
	}

	query := `DELETE FROM grants WHERE entity_id = ? AND grantee = ? AND capability = ?`

	_, err = querier.ExecContext(ctx, query, entityIDValue, grantee, capability)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete grant")
	}

	return nil
}

// Exists reports whether a Grant exists for the entity, grantee and capability.
func (m *MySQLGrantRepository) Exists(
	ctx context.Context,
	entityID uuid.UUID,
	grantee string,
	capability authzDomain.Capability,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	entityIDValue, err := entityID.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal grant entity id")
	}

	query := `SELECT EXISTS (
				  SELECT 1 FROM grants WHERE entity_id = ? AND grantee = ? AND capability = ?
			  )`

	var exists bool
	err = querier.QueryRowContext(ctx, query, entityIDValue, grantee, capability).Scan(&exists)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to check grant existence")
	}

	return exists, nil
}

// ListByEntity retrieves grants for an entity ordered by creation time.
func (m *MySQLGrantRepository) ListByEntity(
	ctx context.Context,
	entityID uuid.UUID,
	limit, offset int,
) ([]*authzDomain.Grant, error) {
	querier := database.GetTx(ctx, m.db)

	entityIDValue, err := entityID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal grant entity id")
	}

	query := `SELECT id, entity_id, grantee, capability, created_at
			  FROM grants
			  WHERE entity_id = ?
			  ORDER BY created_at ASC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, entityIDValue, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list grants")
	}
	defer rows.Close() //nolint:errcheck

	var grants []*authzDomain.Grant
	for rows.Next() {
		var (
			grant       authzDomain.Grant
			idBytes     []byte
			entityBytes []byte
		)

		err := rows.Scan(
			&idBytes,
			&entityBytes,
			&grant.Grantee,
			&grant.Capability,
			&grant.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan grant")
		}

		if grant.ID, err = uuid.FromBytes(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal grant id")
		}
		if grant.EntityID, err = uuid.FromBytes(entityBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal grant entity id")
		}

		grants = append(grants, &grant)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate grants")
	}

	return grants, nil
}
