package commands

import (
	"context"
	"encoding/json"
	"fmt"

	accountDomain "github.com/allisson/vaultactions/internal/account/domain"
	"github.com/allisson/vaultactions/internal/app"
	"github.com/allisson/vaultactions/internal/config"
)

// RunCreateAccount creates a new API account and prints its credentials.
// The plain secret is only shown once; afterwards only its hash is stored.
func RunCreateAccount(ctx context.Context, name, address, format string) error {
	return runCreateAccountWithIO(ctx, name, address, format, DefaultIO())
}

func runCreateAccountWithIO(ctx context.Context, name, address, format string, io IOTuple) error {
	if err := validFormat(format); err != nil {
		return err
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	accountUC, err := container.AccountUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize account use case: %w", err)
	}

	output, err := accountUC.Create(ctx, &accountDomain.CreateAccountInput{
		Name:    name,
		Address: address,
	})
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	if format == "json" {
		encoder := json.NewEncoder(io.Writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string]string{
			"id":      output.ID.String(),
			"address": output.Address,
			"secret":  output.PlainSecret,
		})
	}

	fmt.Fprintf(io.Writer, "Account created successfully\n")
	fmt.Fprintf(io.Writer, "ID:      %s\n", output.ID)
	fmt.Fprintf(io.Writer, "Address: %s\n", output.Address)
	fmt.Fprintf(io.Writer, "Secret:  %s\n", output.PlainSecret)
	fmt.Fprintf(io.Writer, "\nStore the secret now; it cannot be recovered later.\n")
	fmt.Fprintf(io.Writer, "API credential: Bearer %s.%s\n", output.ID, output.PlainSecret)

	return nil
}
