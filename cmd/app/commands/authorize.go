package commands

import (
	"context"
	"fmt"

	"github.com/allisson/vaultactions/internal/app"
	authzDomain "github.com/allisson/vaultactions/internal/authz/domain"
	"github.com/allisson/vaultactions/internal/config"
)

// RunAuthorize grants a capability on an entity to an address. The actor
// must already hold the authorize capability on the entity.
func RunAuthorize(ctx context.Context, entityID, grantee, capability, actor string) error {
	return runAuthorizeWithIO(ctx, entityID, grantee, capability, actor, DefaultIO())
}

func runAuthorizeWithIO(ctx context.Context, entityID, grantee, capability, actor string, io IOTuple) error {
	parsedEntityID, err := parseID("entity-id", entityID)
	if err != nil {
		return err
	}

	parsedCapability := authzDomain.Capability(capability)
	if !parsedCapability.IsValid() {
		return fmt.Errorf("invalid capability: %s", capability)
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	registryUC, err := container.RegistryUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize registry use case: %w", err)
	}

	if err := registryUC.Authorize(ctx, actor, parsedEntityID, grantee, parsedCapability); err != nil {
		return fmt.Errorf("failed to authorize: %w", err)
	}

	fmt.Fprintf(io.Writer, "Capability granted\n")
	fmt.Fprintf(io.Writer, "Entity:     %s\n", parsedEntityID)
	fmt.Fprintf(io.Writer, "Grantee:    %s\n", grantee)
	fmt.Fprintf(io.Writer, "Capability: %s\n", parsedCapability)

	return nil
}
