package app

import (
	"fmt"
	"sync"

	eventsRepository "github.com/allisson/vaultactions/internal/events/repository"
	eventsService "github.com/allisson/vaultactions/internal/events/service"
	eventsUseCase "github.com/allisson/vaultactions/internal/events/usecase"
)

// eventsComponents holds the event module's dependencies inside the container.
type eventsComponents struct {
	eventRepo         eventsUseCase.EventRepository
	eventSigner       eventsService.Signer
	emitterUseCase    eventsUseCase.EmitterUseCase
	dispatcherUseCase eventsUseCase.DispatcherUseCase
	eventRepoInit     sync.Once
	eventSignerInit   sync.Once
	emitterInit       sync.Once
	dispatcherInit    sync.Once
}

// EventRepository returns the event repository instance.
func (c *Container) EventRepository() (eventsUseCase.EventRepository, error) {
	var err error
	c.eventRepoInit.Do(func() {
		c.eventRepo, err = c.initEventRepository()
		if err != nil {
			c.initErrors["eventRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["eventRepo"]; exists {
		return nil, storedErr
	}
	return c.eventRepo, nil
}

// EventSigner returns the event payload signer. An empty signing key in
// configuration yields a disabled signer.
func (c *Container) EventSigner() (eventsService.Signer, error) {
	var err error
	c.eventSignerInit.Do(func() {
		c.eventSigner, err = eventsService.NewHMACSigner([]byte(c.config.EventSigningKey))
		if err != nil {
			c.initErrors["eventSigner"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["eventSigner"]; exists {
		return nil, storedErr
	}
	return c.eventSigner, nil
}

// EmitterUseCase returns the event emitter use case instance.
func (c *Container) EmitterUseCase() (eventsUseCase.EmitterUseCase, error) {
	var err error
	c.emitterInit.Do(func() {
		c.emitterUseCase, err = c.initEmitterUseCase()
		if err != nil {
			c.initErrors["emitterUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["emitterUseCase"]; exists {
		return nil, storedErr
	}
	return c.emitterUseCase, nil
}

// DispatcherUseCase returns the event dispatcher use case instance.
func (c *Container) DispatcherUseCase() (eventsUseCase.DispatcherUseCase, error) {
	var err error
	c.dispatcherInit.Do(func() {
		c.dispatcherUseCase, err = c.initDispatcherUseCase()
		if err != nil {
			c.initErrors["dispatcherUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["dispatcherUseCase"]; exists {
		return nil, storedErr
	}
	return c.dispatcherUseCase, nil
}

// initEventRepository creates the event repository instance.
func (c *Container) initEventRepository() (eventsUseCase.EventRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for event repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return eventsRepository.NewMySQLEventRepository(db), nil
	case "postgres":
		return eventsRepository.NewPostgreSQLEventRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initEmitterUseCase creates the event emitter use case with all its dependencies.
func (c *Container) initEmitterUseCase() (eventsUseCase.EmitterUseCase, error) {
	eventRepo, err := c.EventRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get event repository for emitter use case: %w", err)
	}

	signer, err := c.EventSigner()
	if err != nil {
		return nil, fmt.Errorf("failed to get event signer for emitter use case: %w", err)
	}

	return eventsUseCase.NewEmitterUseCase(eventRepo, signer), nil
}

// initDispatcherUseCase creates the event dispatcher use case with all its dependencies.
func (c *Container) initDispatcherUseCase() (eventsUseCase.DispatcherUseCase, error) {
	logger := c.Logger()

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for dispatcher use case: %w", err)
	}

	eventRepo, err := c.EventRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get event repository for dispatcher use case: %w", err)
	}

	signer, err := c.EventSigner()
	if err != nil {
		return nil, fmt.Errorf("failed to get event signer for dispatcher use case: %w", err)
	}

	useCaseConfig := eventsUseCase.Config{
		Interval:   c.config.EventDispatchInterval,
		BatchSize:  c.config.EventDispatchBatchSize,
		MaxRetries: c.config.EventDispatchMaxRetries,
	}

	processor := eventsUseCase.NewLogEventProcessor(signer, logger)

	return eventsUseCase.NewDispatcherUseCase(useCaseConfig, txManager, eventRepo, processor, logger), nil
}
