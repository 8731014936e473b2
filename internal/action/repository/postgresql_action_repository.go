// Package repository implements action persistence.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). The action row holds the scalar configuration entities;
// relayer whitelists, allowed chains and token→AMM mappings live in side
// tables keyed by action id.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"math/big"
	"time"

	"github.com/google/uuid"

	actionDomain "github.com/allisson/vaultactions/internal/action/domain"
	"github.com/allisson/vaultactions/internal/database"
	apperrors "github.com/allisson/vaultactions/internal/errors"
	"github.com/allisson/vaultactions/internal/fixedpoint"
)

// PostgreSQLActionRepository implements Action persistence for PostgreSQL.
type PostgreSQLActionRepository struct {
	db *sql.DB
}

// NewPostgreSQLActionRepository creates a new PostgreSQL Action repository.
func NewPostgreSQLActionRepository(db *sql.DB) *PostgreSQLActionRepository {
	return &PostgreSQLActionRepository{db: db}
}

// Create inserts a new Action with its configuration defaults.
func (p *PostgreSQLActionRepository) Create(ctx context.Context, action *actionDomain.Action) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO actions (
				  id, vault_id, kind, name,
				  threshold_token, threshold_amount,
				  gas_price_limit, tx_cost_limit, paying_gas_token,
				  time_lock_period, time_lock_expires_at,
				  recipient, max_slippage, max_bonder_fee_pct, max_deadline,
				  created_at, updated_at
			  ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err := querier.ExecContext(
		ctx,
		query,
		action.ID,
		action.VaultID,
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
func (p *PostgreSQLActionRepository) Update(ctx context.Context, action *actionDomain.Action) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE actions SET
				  threshold_token = $1, threshold_amount = $2,
				  gas_price_limit = $3, tx_cost_limit = $4, paying_gas_token = $5,
				  time_lock_period = $6, time_lock_expires_at = $7,
				  recipient = $8, max_slippage = $9, max_bonder_fee_pct = $10,
				  max_deadline = $11, updated_at = $12
			  WHERE id = $13`

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
		action.ID,
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
func (p *PostgreSQLActionRepository) Get(ctx context.Context, actionID uuid.UUID) (*actionDomain.Action, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, vault_id, kind, name,
				  threshold_token, threshold_amount,
				  gas_price_limit, tx_cost_limit, paying_gas_token,
				  time_lock_period, time_lock_expires_at,
				  recipient, max_slippage, max_bonder_fee_pct, max_deadline,
				  created_at, updated_at
			  FROM actions WHERE id = $1`

	var (
		action        actionDomain.Action
		threshold     string
		gasPriceLimit string
		txCostLimit   string
		maxSlippage   string
		maxBonderFee  string
		expiresAt     sql.NullTime
	)

	err := querier.QueryRowContext(ctx, query, actionID).Scan(
		&action.ID,
		&action.VaultID,
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
		if errors.Is(err, sql.ErrNoRows) {
			return nil, actionDomain.ErrActionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get action")
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

// ListByVault retrieves a vault's actions ordered by creation time.
func (p *PostgreSQLActionRepository) ListByVault(
	ctx context.Context,
	vaultID uuid.UUID,
	limit, offset int,
) ([]*actionDomain.Action, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, vault_id, kind, name,
				  threshold_token, threshold_amount,
				  gas_price_limit, tx_cost_limit, paying_gas_token,
				  time_lock_period, time_lock_expires_at,
				  recipient, max_slippage, max_bonder_fee_pct, max_deadline,
				  created_at, updated_at
			  FROM actions
			  WHERE vault_id = $1
			  ORDER BY created_at ASC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, vaultID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list actions")
	}
	defer rows.Close() //nolint:errcheck

	var actions []*actionDomain.Action
	for rows.Next() {
		var (
			action        actionDomain.Action
			threshold     string
			gasPriceLimit string
			txCostLimit   string
			maxSlippage   string
			maxBonderFee  string
			expiresAt     sql.NullTime
		)

		err := rows.Scan(
			&action.ID,
			&action.VaultID,
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
			return nil, apperrors.Wrap(err, "failed to scan action")
		}

		if err := parseActionAmounts(&action, threshold, gasPriceLimit, txCostLimit, maxSlippage, maxBonderFee); err != nil {
			return nil, err
		}
		if expiresAt.Valid {
			t := expiresAt.Time
			action.TimeLockExpiresAt = &t
		}

		actions = append(actions, &action)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate actions")
	}

	return actions, nil
}

// AddRelayer whitelists a relayer for the action. Idempotent.
func (p *PostgreSQLActionRepository) AddRelayer(ctx context.Context, actionID uuid.UUID, relayer string) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO action_relayers (action_id, relayer, created_at)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (action_id, relayer) DO NOTHING`

	_, err := querier.ExecContext(ctx, query, actionID, relayer, time.Now().UTC())
	if err != nil {
		return apperrors.Wrap(err, "failed to add relayer")
	}
	return nil
}

// RemoveRelayer removes a relayer from the whitelist. Removing an absent
// relayer is a no-op.
func (p *PostgreSQLActionRepository) RemoveRelayer(ctx context.Context, actionID uuid.UUID, relayer string) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM action_relayers WHERE action_id = $1 AND relayer = $2`

	if _, err := querier.ExecContext(ctx, query, actionID, relayer); err != nil {
		return apperrors.Wrap(err, "failed to remove relayer")
	}
	return nil
}

// IsRelayer reports whether an address is whitelisted as a relayer.
func (p *PostgreSQLActionRepository) IsRelayer(ctx context.Context, actionID uuid.UUID, relayer string) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT EXISTS (
				  SELECT 1 FROM action_relayers WHERE action_id = $1 AND relayer = $2
			  )`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, actionID, relayer).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check relayer")
	}
	return exists, nil
}

// AddAllowedChain whitelists a destination chain. Idempotent.
func (p *PostgreSQLActionRepository) AddAllowedChain(ctx context.Context, actionID uuid.UUID, chainID uint64) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO allowed_chains (action_id, chain_id, created_at)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (action_id, chain_id) DO NOTHING`

	_, err := querier.ExecContext(ctx, query, actionID, int64(chainID), time.Now().UTC())
	if err != nil {
		return apperrors.Wrap(err, "failed to add allowed chain")
	}
	return nil
}

// RemoveAllowedChain removes a destination chain from the whitelist.
// Removing an absent chain is a no-op.
func (p *PostgreSQLActionRepository) RemoveAllowedChain(ctx context.Context, actionID uuid.UUID, chainID uint64) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM allowed_chains WHERE action_id = $1 AND chain_id = $2`

	if _, err := querier.ExecContext(ctx, query, actionID, int64(chainID)); err != nil {
		return apperrors.Wrap(err, "failed to remove allowed chain")
	}
	return nil
}

// IsChainAllowed reports whether a destination chain is whitelisted.
func (p *PostgreSQLActionRepository) IsChainAllowed(ctx context.Context, actionID uuid.UUID, chainID uint64) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT EXISTS (
				  SELECT 1 FROM allowed_chains WHERE action_id = $1 AND chain_id = $2
			  )`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, actionID, int64(chainID)).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check allowed chain")
	}
	return exists, nil
}

// SetTokenAmm maps a token to an AMM address, replacing any previous mapping.
func (p *PostgreSQLActionRepository) SetTokenAmm(ctx context.Context, actionID uuid.UUID, token, amm string) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO token_amms (action_id, token, amm, created_at)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (action_id, token) DO UPDATE SET amm = EXCLUDED.amm`

	_, err := querier.ExecContext(ctx, query, actionID, token, amm, time.Now().UTC())
	if err != nil {
		return apperrors.Wrap(err, "failed to set token amm")
	}
	return nil
}

// UnsetTokenAmm removes a token→AMM mapping. Unsetting an absent mapping is
// a no-op.
func (p *PostgreSQLActionRepository) UnsetTokenAmm(ctx context.Context, actionID uuid.UUID, token string) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM token_amms WHERE action_id = $1 AND token = $2`

	if _, err := querier.ExecContext(ctx, query, actionID, token); err != nil {
		return apperrors.Wrap(err, "failed to unset token amm")
	}
	return nil
}

// GetTokenAmm retrieves the AMM address mapped to a token, or the empty
// string when no mapping exists.
func (p *PostgreSQLActionRepository) GetTokenAmm(ctx context.Context, actionID uuid.UUID, token string) (string, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT amm FROM token_amms WHERE action_id = $1 AND token = $2`

	var amm string
	err := querier.QueryRowContext(ctx, query, actionID, token).Scan(&amm)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", apperrors.Wrap(err, "failed to get token amm")
	}
	return amm, nil
}

// parseActionAmounts decodes the NUMERIC columns into big integers.
func parseActionAmounts(
	action *actionDomain.Action,
	threshold, gasPriceLimit, txCostLimit, maxSlippage, maxBonderFee string,
) error {
	var err error
	if action.ThresholdAmount, err = parseAmount(threshold); err != nil {
		return err
	}
	if action.GasPriceLimit, err = parseAmount(gasPriceLimit); err != nil {
		return err
	}
	if action.TxCostLimit, err = parseAmount(txCostLimit); err != nil {
		return err
	}
	if action.MaxSlippage, err = parseAmount(maxSlippage); err != nil {
		return err
	}
	if action.MaxBonderFeePct, err = parseAmount(maxBonderFee); err != nil {
		return err
	}
	return nil
}

func parseAmount(s string) (*big.Int, error) {
	out, err := fixedpoint.Parse(s)
	if err != nil {
		return nil, apperrors.Wrapf(err, "malformed stored amount %q", s)
	}
	return out, nil
}
