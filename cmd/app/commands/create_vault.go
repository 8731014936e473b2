package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/allisson/vaultactions/internal/app"
	"github.com/allisson/vaultactions/internal/config"
	vaultDomain "github.com/allisson/vaultactions/internal/vault/domain"
)

// RunCreateVault creates a new vault and seeds the owner's capability grants.
func RunCreateVault(ctx context.Context, name, feeCollector, owner, format string) error {
	return runCreateVaultWithIO(ctx, name, feeCollector, owner, format, DefaultIO())
}

func runCreateVaultWithIO(ctx context.Context, name, feeCollector, owner, format string, io IOTuple) error {
	if err := validFormat(format); err != nil {
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

	vault, err := vaultUC.Create(ctx, &vaultDomain.CreateVaultInput{
		Name:         name,
		FeeCollector: feeCollector,
	}, owner)
	if err != nil {
		return fmt.Errorf("failed to create vault: %w", err)
	}

	if format == "json" {
		encoder := json.NewEncoder(io.Writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string]string{
			"id":            vault.ID.String(),
			"name":          vault.Name,
			"fee_collector": vault.FeeCollector,
			"owner":         owner,
		})
	}

	fmt.Fprintf(io.Writer, "Vault created successfully\n")
	fmt.Fprintf(io.Writer, "ID:            %s\n", vault.ID)
	fmt.Fprintf(io.Writer, "Name:          %s\n", vault.Name)
	fmt.Fprintf(io.Writer, "Fee collector: %s\n", vault.FeeCollector)
	fmt.Fprintf(io.Writer, "Owner:         %s\n", owner)

	return nil
}
