package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	actionDomain "github.com/allisson/vaultactions/internal/action/domain"
	"github.com/allisson/vaultactions/internal/database"
	apperrors "github.com/allisson/vaultactions/internal/errors"
	"github.com/allisson/vaultactions/internal/fixedpoint"
)

// MySQLActionRepository implements Action persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLActionRepository struct {
	db *sql.DB
}

// NewMySQLActionRepository creates a new MySQL Action repository.
func NewMySQLActionRepository(db *sql.DB) *MySQLActionRepository {
	return &MySQLActionRepository{db: db}
}

// Create inserts a new Action with its configuration defaults.
func (m *MySQLActionRepository) Create(ctx context.Context, action *actionDomain.Action) error {
	querier := database.GetTx(ctx, m.db)

	id, err := action.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal action id")
	}
	vaultID, err := action.VaultID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal vault id")
	}

	query := `INSERT INTO actions (
				  id, vault_id, kind, name,
				  threshold_token, threshold_amount,
				  gas_price_limit, tx_cost_limit, paying_gas_token,
				  time_lock_period, time_lock_expires_at,
				  recipient, max_slippage, max_bonder_fee_pct, max_deadline,
				  created_at, updated_at
			  ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		vaultID,
		action.Kind,
		action.Name,
		action.ThresholdToken,
		fixedpoint.String(action.ThresholdAmount),
		fixedpoint.String(action.GasPriceLimit),
		fixedpoint.String(action.TxCostLimit),
		action.PayingGasToken,
		action.TimeLockPeriod,
		action.TimeLockExpiresAt,
		action.Recipient,
		fixedpoint.String(action.MaxSlippage),
		fixedpoint.String(action.MaxBonderFeePct),
		action.MaxDeadline,
		action.CreatedAt,
		action.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create action")
	}
	return nil
}

// Update persists the action's configuration entities.
func (m *MySQLActionRepository) Update(ctx context.Context, action *actionDomain.Action) error {
	querier := database.GetTx(ctx, m.db)

	id, err := action.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal action id")
	}

	query := `UPDATE actions SET
				  threshold_token = ?, threshold_amount = ?,
				  gas_price_limit = ?, tx_cost_limit = ?, paying_gas_token = ?,
				  time_lock_period = ?, time_lock_expires_at = ?,
				  recipient = ?, max_slippage = ?, max_bonder_fee_pct = ?,
				  max_deadline = ?, updated_at = ?
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		action.ThresholdToken,
		fixedpoint.String(action.ThresholdAmount),
		fixedpoint.String(action.GasPriceLimit),
		fixedpoint.String(action.TxCostLimit),
		action.PayingGasToken,
		action.TimeLockPeriod,
		action.TimeLockExpiresAt,
		action.Recipient,
		fixedpoint.String(action.MaxSlippage),
		fixedpoint.String(action.MaxBonderFeePct),
		action.MaxDeadline,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update action")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows for action update")
	}
	if rows == 0 {
		return actionDomain.ErrActionNotFound
	}

	return nil
}

// Get retrieves an Action by ID. Returns ErrActionNotFound if not found.
func (m *MySQLActionRepository) Get(ctx context.Context, actionID uuid.UUID) (*actionDomain.Action, error) {
	querier := database.GetTx(ctx, m.db)

	idValue, err := actionID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal action id")
	}

	query := `SELECT id, vault_id, kind, name,
				  threshold_token, threshold_amount,
				  gas_price_limit, tx_cost_limit, paying_gas_token,
				  time_lock_period, time_lock_expires_at,
				  recipient, max_slippage, max_bonder_fee_pct, max_deadline,
				  created_at, updated_at
			  FROM actions WHERE id = ?`

	action, err := m.scanAction(querier.QueryRowContext(ctx, query, idValue))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, actionDomain.ErrActionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get action")
	}

	return action, nil
}

// ListByVault retrieves a vault's actions ordered by creation time.
func (m *MySQLActionRepository) ListByVault(
	ctx context.Context,
	vaultID uuid.UUID,
	limit, offset int,
) ([]*actionDomain.Action, error) {
	querier := database.GetTx(ctx, m.db)

	vaultIDValue, err := vaultID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal vault id")
	}

	query := `SELECT id, vault_id, kind, name,
				  threshold_token, threshold_amount,
				  gas_price_limit, tx_cost_limit, paying_gas_token,
				  time_lock_period, time_lock_expires_at,
				  recipient, max_slippage, max_bonder_fee_pct, max_deadline,
				  created_at, updated_at
			  FROM actions
			  WHERE vault_id = ?
			  ORDER BY created_at ASC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, vaultIDValue, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list actions")
	}
	defer rows.Close() //nolint:errcheck

	var actions []*actionDomain.Action
	for rows.Next() {
		action, err := m.scanAction(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan action")
		}
		actions = append(actions, action)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate actions")
	}

	return actions, nil
}

// AddRelayer whitelists a relayer for the action. Idempotent.
func (m *MySQLActionRepository) AddRelayer(ctx context.Context, actionID uuid.UUID, relayer string) error {
	querier := database.GetTx(ctx, m.db)

	idValue, err := actionID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal action id")
	}

	query := `INSERT INTO action_relayers (action_id, relayer, created_at)
			  VALUES (?, ?, ?)
			  ON DUPLICATE KEY UPDATE relayer = relayer`

	if _, err := querier.ExecContext(ctx, query, idValue, relayer, time.Now().UTC()); err != nil {
		return apperrors.Wrap(err, "failed to add relayer")
	}
	return nil
}

// RemoveRelayer removes a relayer from the whitelist. Removing an absent
// relayer is a no-op.
func (m *MySQLActionRepository) RemoveRelayer(ctx context.Context, actionID uuid.UUID, relayer string) error {
	querier := database.GetTx(ctx, m.db)

	idValue, err := actionID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal action id")
	}

	query := `DELETE FROM action_relayers WHERE action_id = ? AND relayer = ?`

	if _, err := querier.ExecContext(ctx, query, idValue, relayer); err != nil {
		return apperrors.Wrap(err, "failed to remove relayer")
	}
	return nil
}

// IsRelayer reports whether an address is whitelisted as a relayer.
func (m *MySQLActionRepository) IsRelayer(ctx context.Context, actionID uuid.UUID, relayer string) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	idValue, err := actionID.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal action id")
	}

	query := `SELECT EXISTS (
				  SELECT 1 FROM action_relayers WHERE action_id = ? AND relayer = ?
			  )`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, idValue, relayer).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check relayer")
	}
	return exists, nil
}

// AddAllowedChain whitelists a destination chain. Idempotent.
func (m *MySQLActionRepository) AddAllowedChain(ctx context.Context, actionID uuid.UUID, chainID uint64) error {
	querier := database.GetTx(ctx, m.db)

	idValue, err := actionID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal action id")
	}

	query := `INSERT INTO allowed_chains (action_id, chain_id, created_at)
			  VALUES (?, ?, ?)
			  ON DUPLICATE KEY UPDATE chain_id = chain_id`

	if _, err := querier.ExecContext(ctx, query, idValue, int64(chainID), time.Now().UTC()); err != nil {
		return apperrors.Wrap(err, "failed to add allowed chain")
	}
	return nil
}

// RemoveAllowedChain removes a destination chain from the whitelist.
// Removing an absent chain is a no-op.
func (m *MySQLActionRepository) RemoveAllowedChain(ctx context.Context, actionID uuid.UUID, chainID uint64) error {
	querier := database.GetTx(ctx, m.db)

	idValue, err := actionID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal action id")
	}

	query := `DELETE FROM allowed_chains WHERE action_id = ? AND chain_id = ?`

	if _, err := querier.ExecContext(ctx, query, idValue, int64(chainID)); err != nil {
		return apperrors.Wrap(err, "failed to remove allowed chain")
	}
	return nil
}

// IsChainAllowed reports whether a destination chain is whitelisted.
func (m *MySQLActionRepository) IsChainAllowed(ctx context.Context, actionID uuid.UUID, chainID uint64) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	idValue, err := actionID.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal action id")
	}

	query := `SELECT EXISTS (
				  SELECT 1 FROM allowed_chains WHERE action_id = ? AND chain_id = ?
			  )`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, idValue, int64(chainID)).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check allowed chain")
	}
	return exists, nil
}

// SetTokenAmm maps a token to an AMM address, replacing any previous mapping.
func (m *MySQLActionRepository) SetTokenAmm(ctx context.Context, actionID uuid.UUID, token, amm string) error {
	querier := database.GetTx(ctx, m.db)

	idValue, err := actionID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal action id")
	}

	query := `INSERT INTO token_amms (action_id, token, amm, created_at)
			  VALUES (?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE amm = VALUES(amm)`

	if _, err := querier.ExecContext(ctx, query, idValue, token, amm, time.Now().UTC()); err != nil {
		return apperrors.Wrap(err, "failed to set token amm")
	}
	return nil
}

// UnsetTokenAmm removes a token→AMM mapping. Unsetting an absent mapping is
// a no-op.
func (m *MySQLActionRepository) UnsetTokenAmm(ctx context.Context, actionID uuid.UUID, token string) error {
	querier := database.GetTx(ctx, m.db)

	idValue, err := actionID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal action id")
	}

	query := `DELETE FROM token_amms WHERE action_id = ? AND token = ?`

	if _, err := querier.ExecContext(ctx, query, idValue, token); err != nil {
		return apperrors.Wrap(err, "failed to unset token amm")
	}
	return nil
}

// GetTokenAmm retrieves the AMM address mapped to a token, or the empty
// string when no mapping exists.
func (m *MySQLActionRepository) GetTokenAmm(ctx context.Context, actionID uuid.UUID, token string) (string, error) {
	querier := database.GetTx(ctx, m.db)

	idValue, err := actionID.MarshalBinary()
	if err != nil {
		return "", apperrors.Wrap(err, "failed to marshal action id")
	}

	query := `SELECT amm FROM token_amms WHERE action_id = ? AND token = ?`

	var amm string
	err = querier.QueryRowContext(ctx, query, idValue, token).Scan(&amm)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", apperrors.Wrap(err, "failed to get token amm")
	}
	return amm, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (m *MySQLActionRepository) scanAction(row rowScanner) (*actionDomain.Action, error) {
	var (
		action        actionDomain.Action
		idBytes       []byte
		vaultIDBytes  []byte
		threshold     string
		gasPriceLimit string
		txCostLimit   string
		maxSlippage   string
		maxBonderFee  string
		expiresAt     sql.NullTime
	)

	err := row.Scan(
		&idBytes,
		&vaultIDBytes,
		&action.Kind,
		&action.Name,
		&action.ThresholdToken,
		&threshold,
		&gasPriceLimit,
		&txCostLimit,
		&action.PayingGasToken,
		&action.TimeLockPeriod,
		&expiresAt,
		&action.Recipient,
		&maxSlippage,
		&maxBonderFee,
		&action.MaxDeadline,
		&action.CreatedAt,
		&action.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if action.ID, err = uuid.FromBytes(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal action id")
	}
	if action.VaultID, err = uuid.FromBytes(vaultIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal vault id")
	}

	if err := parseActionAmounts(&action, threshold, gasPriceLimit, txCostLimit, maxSlippage, maxBonderFee); err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		action.TimeLockExpiresAt = &t
	}

	return &action, nil
}
