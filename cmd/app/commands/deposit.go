package commands

import (
	"context"
	"fmt"

	"github.com/allisson/vaultactions/internal/app"
	"github.com/allisson/vaultactions/internal/config"
)

// RunDeposit credits a vault's balance for a token.
func RunDeposit(ctx context.Context, vaultID, token, amount string) error {
	return runDepositWithIO(ctx, vaultID, token, amount, DefaultIO())
}

func runDepositWithIO(ctx context.Context, vaultID, token, amount string, io IOTuple) error {
	parsedVaultID, err := parseID("vault-id", vaultID)
	if err != nil {
		return err
	}

	parsedAmount, err := parseAmount(amount)
	if err != nil {
		return err
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	vaultUC, err := container.VaultUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize vault use case: %w", err)
	}

	if err := vaultUC.Deposit(ctx, parsedVaultID, token, parsedAmount); err != nil {
		return fmt.Errorf("failed to deposit: %w", err)
	}

	balance, err := vaultUC.GetBalance(ctx, parsedVaultID, token)
	if err != nil {
		return fmt.Errorf("failed to get balance: %w", err)
	}

	fmt.Fprintf(io.Writer, "Deposit completed\n")
	fmt.Fprintf(io.Writer, "Vault:   %s\n", parsedVaultID)
	fmt.Fprintf(io.Writer, "Token:   %s\n", token)
	fmt.Fprintf(io.Writer, "Balance: %s\n", balance)

	return nil
}
