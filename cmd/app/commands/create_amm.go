package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/allisson/vaultactions/internal/app"
	"github.com/allisson/vaultactions/internal/config"
	vaultDomain "github.com/allisson/vaultactions/internal/vault/domain"
)

// RunCreateAmm registers an AMM in the registry.
func RunCreateAmm(ctx context.Context, address, canonicalToken, format string) error {
	return runCreateAmmWithIO(ctx, address, canonicalToken, format, DefaultIO())
}

func runCreateAmmWithIO(ctx context.Context, address, canonicalToken, format string, io IOTuple) error {
	if err := validFormat(format); err != nil {
		return err
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	ammUC, err := container.AmmUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize amm use case: %w", err)
	}

	amm, err := ammUC.Create(ctx, &vaultDomain.CreateAmmInput{
		Address:        address,
		CanonicalToken: canonicalToken,
	})
	if err != nil {
		return fmt.Errorf("failed to create amm: %w", err)
	}

	if format == "json" {
		encoder := json.NewEncoder(io.Writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string]string{
			"id":              amm.ID.String(),
			"address":         amm.Address,
			"canonical_token": amm.CanonicalToken,
		})
	}

	fmt.Fprintf(io.Writer, "AMM registered successfully\n")
	fmt.Fprintf(io.Writer, "ID:              %s\n", amm.ID)
	fmt.Fprintf(io.Writer, "Address:         %s\n", amm.Address)
	fmt.Fprintf(io.Writer, "Canonical token: %s\n", amm.CanonicalToken)

	return nil
}
