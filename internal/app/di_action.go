package app

import (
	"fmt"
	"sync"

	actionHTTP "github.com/allisson/vaultactions/internal/action/http"
	actionRepository "github.com/allisson/vaultactions/internal/action/repository"
	actionUseCase "github.com/allisson/vaultactions/internal/action/usecase"
)

// actionComponents holds the action module's dependencies inside the container.
type actionComponents struct {
	actionRepo        actionUseCase.ActionRepository
	actionUseCase     actionUseCase.ActionUseCase
	actionHandler     *actionHTTP.ActionHandler
	actionRepoInit    sync.Once
	actionUseCaseInit sync.Once
	actionHandlerInit sync.Once
}

// ActionRepository returns the action repository instance.
func (c *Container) ActionRepository() (actionUseCase.ActionRepository, error) {
	var err error
	c.actionRepoInit.Do(func() {
		c.actionRepo, err = c.initActionRepository()
		if err != nil {
			c.initErrors["actionRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["actionRepo"]; exists {
		return nil, storedErr
	}
	return c.actionRepo, nil
}

// ActionUseCase returns the action use case instance.
func (c *Container) ActionUseCase() (actionUseCase.ActionUseCase, error) {
	var err error
	c.actionUseCaseInit.Do(func() {
		c.actionUseCase, err = c.initActionUseCase()
		if err != nil {
			c.initErrors["actionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["actionUseCase"]; exists {
		return nil, storedErr
	}
	return c.actionUseCase, nil
}

// ActionHandler returns the action HTTP handler instance.
func (c *Container) ActionHandler() (*actionHTTP.ActionHandler, error) {
	var err error
	c.actionHandlerInit.Do(func() {
		var actionUC actionUseCase.ActionUseCase
		actionUC, err = c.ActionUseCase()
		if err != nil {
			c.initErrors["actionHandler"] = err
			return
		}
		c.actionHandler = actionHTTP.NewActionHandler(actionUC, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["actionHandler"]; exists {
		return nil, storedErr
	}
	return c.actionHandler, nil
}

// initActionRepository creates the action repository instance.
func (c *Container) initActionRepository() (actionUseCase.ActionRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for action repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return actionRepository.NewMySQLActionRepository(db), nil
	case "postgres":
		return actionRepository.NewPostgreSQLActionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initActionUseCase creates the action use case with all its dependencies.
func (c *Container) initActionUseCase() (actionUseCase.ActionUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for action use case: %w", err)
	}

	actionRepo, err := c.ActionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get action repository for action use case: %w", err)
	}

	registry, err := c.RegistryUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get registry use case for action use case: %w", err)
	}

	vaultUC, err := c.VaultUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault use case for action use case: %w", err)
	}

	ammUC, err := c.AmmUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get amm use case for action use case: %w", err)
	}

	eventEmitter, err := c.EmitterUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get event emitter for action use case: %w", err)
	}

	priceOracle, err := c.PriceOracle()
	if err != nil {
		return nil, fmt.Errorf("failed to get price oracle for action use case: %w", err)
	}

	baseUseCase := actionUseCase.NewActionUseCase(
		txManager,
		actionRepo,
		registry,
		vaultUC,
		ammUC,
		eventEmitter,
		priceOracle,
		c.config.ChainID,
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for action use case: %w", err)
		}
		return actionUseCase.NewActionUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
