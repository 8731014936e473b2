package app

import (
	"fmt"
	"sync"

	authzHTTP "github.com/allisson/vaultactions/internal/authz/http"
	authzRepository "github.com/allisson/vaultactions/internal/authz/repository"
	authzUseCase "github.com/allisson/vaultactions/internal/authz/usecase"
)

// authzComponents holds the authorization registry's dependencies inside the container.
type authzComponents struct {
	grantRepo        authzUseCase.GrantRepository
	registryUseCase  authzUseCase.RegistryUseCase
	grantHandler     *authzHTTP.GrantHandler
	grantRepoInit    sync.Once
	registryInit     sync.Once
	grantHandlerInit sync.Once
}

// GrantRepository returns the capability grant repository instance.
func (c *Container) GrantRepository() (authzUseCase.GrantRepository, error) {
	var err error
	c.grantRepoInit.Do(func() {
		c.grantRepo, err = c.initGrantRepository()
		if err != nil {
			c.initErrors["grantRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["grantRepo"]; exists {
		return nil, storedErr
	}
	return c.grantRepo, nil
}

// RegistryUseCase returns the authorization registry use case instance.
func (c *Container) RegistryUseCase() (authzUseCase.RegistryUseCase, error) {
	var err error
	c.registryInit.Do(func() {
		c.registryUseCase, err = c.initRegistryUseCase()
		if err != nil {
			c.initErrors["registryUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["registryUseCase"]; exists {
		return nil, storedErr
	}
	return c.registryUseCase, nil
}

// GrantHandler returns the capability grant HTTP handler instance.
func (c *Container) GrantHandler() (*authzHTTP.GrantHandler, error) {
	var err error
	c.grantHandlerInit.Do(func() {
		var registryUC authzUseCase.RegistryUseCase
		registryUC, err = c.RegistryUseCase()
		if err != nil {
			c.initErrors["grantHandler"] = err
			return
		}
		c.grantHandler = authzHTTP.NewGrantHandler(registryUC, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["grantHandler"]; exists {
		return nil, storedErr
	}
	return c.grantHandler, nil
}

// initGrantRepository creates the capability grant repository instance.
func (c *Container) initGrantRepository() (authzUseCase.GrantRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for grant repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return authzRepository.NewMySQLGrantRepository(db), nil
	case "postgres":
		return authzRepository.NewPostgreSQLGrantRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initRegistryUseCase creates the authorization registry use case with all its dependencies.
func (c *Container) initRegistryUseCase() (authzUseCase.RegistryUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for registry use case: %w", err)
	}

	grantRepo, err := c.GrantRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get grant repository for registry use case: %w", err)
	}

	eventEmitter, err := c.EmitterUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get event emitter for registry use case: %w", err)
	}

	return authzUseCase.NewRegistryUseCase(txManager, grantRepo, eventEmitter), nil
}
