package commands

import (
	"context"
	"encoding/json"
	"fmt"

	actionDomain "github.com/allisson/vaultactions/internal/action/domain"
	"github.com/allisson/vaultactions/internal/app"
	"github.com/allisson/vaultactions/internal/config"
)

// RunCreateAction creates a guarded action on a vault. The owner gets the
// full capability set, managers get the call capability and relayers are
// whitelisted for gas reimbursement.
func RunCreateAction(
	ctx context.Context,
	vaultID, kind, name, owner string,
	managers, relayers []string,
	format string,
) error {
	return runCreateActionWithIO(ctx, vaultID, kind, name, owner, managers, relayers, format, DefaultIO())
}

func runCreateActionWithIO(
	ctx context.Context,
	vaultID, kind, name, owner string,
	managers, relayers []string,
	format string,
	io IOTuple,
) error {
	if err := validFormat(format); err != nil {
		return err
	}

	parsedVaultID, err := parseID("vault-id", vaultID)
	if err != nil {
		return err
	}

	actionKind := actionDomain.Kind(kind)
	if !actionKind.IsValid() {
		return fmt.Errorf("invalid kind: %s (valid options: bridger, withdrawer)", kind)
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	actionUC, err := container.ActionUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize action use case: %w", err)
	}

	action, err := actionUC.Create(ctx, &actionDomain.CreateActionInput{
		VaultID:  parsedVaultID,
		Kind:     actionKind,
		Name:     name,
		Managers: managers,
		Relayers: relayers,
	}, owner)
	if err != nil {
		return fmt.Errorf("failed to create action: %w", err)
	}

	if format == "json" {
		encoder := json.NewEncoder(io.Writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string]any{
			"id":       action.ID.String(),
			"vault_id": action.VaultID.String(),
			"kind":     string(action.Kind),
			"name":     action.Name,
			"owner":    owner,
			"managers": managers,
			"relayers": relayers,
		})
	}

	fmt.Fprintf(io.Writer, "Action created successfully\n")
	fmt.Fprintf(io.Writer, "ID:       %s\n", action.ID)
	fmt.Fprintf(io.Writer, "Vault:    %s\n", action.VaultID)
	fmt.Fprintf(io.Writer, "Kind:     %s\n", action.Kind)
	fmt.Fprintf(io.Writer, "Name:     %s\n", action.Name)
	fmt.Fprintf(io.Writer, "Owner:    %s\n", owner)
	for _, manager := range managers {
		fmt.Fprintf(io.Writer, "Manager:  %s\n", manager)
	}
	for _, relayer := range relayers {
		fmt.Fprintf(io.Writer, "Relayer:  %s\n", relayer)
	}

	return nil
}
