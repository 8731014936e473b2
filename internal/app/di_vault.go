package app

import (
	"fmt"
	"math/big"
	"sync"

	vaultHTTP "github.com/allisson/vaultactions/internal/vault/http"
	vaultRepository "github.com/allisson/vaultactions/internal/vault/repository"
	vaultService "github.com/allisson/vaultactions/internal/vault/service"
	vaultUseCase "github.com/allisson/vaultactions/internal/vault/usecase"
)

// vaultComponents holds the vault module's dependencies inside the container.
type vaultComponents struct {
	vaultRepo        vaultUseCase.VaultRepository
	ammRepo          vaultUseCase.AmmRepository
	vaultUseCase     vaultUseCase.VaultUseCase
	ammUseCase       vaultUseCase.AmmUseCase
	priceOracle      vaultService.PriceOracle
	vaultHandler     *vaultHTTP.VaultHandler
	ammHandler       *vaultHTTP.AmmHandler
	vaultRepoInit    sync.Once
	ammRepoInit      sync.Once
	vaultUseCaseInit sync.Once
	ammUseCaseInit   sync.Once
	priceOracleInit  sync.Once
	vaultHandlerInit sync.Once
	ammHandlerInit   sync.Once
}

// VaultRepository returns the vault repository instance.
func (c *Container) VaultRepository() (vaultUseCase.VaultRepository, error) {
	var err error
	c.vaultRepoInit.Do(func() {
		c.vaultRepo, err = c.initVaultRepository()
		if err != nil {
			c.initErrors["vaultRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["vaultRepo"]; exists {
		return nil, storedErr
	}
	return c.vaultRepo, nil
}

// AmmRepository returns the AMM repository instance.
func (c *Container) AmmRepository() (vaultUseCase.AmmRepository, error) {
	var err error
	c.ammRepoInit.Do(func() {
		c.ammRepo, err = c.initAmmRepository()
		if err != nil {
			c.initErrors["ammRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["ammRepo"]; exists {
		return nil, storedErr
	}
	return c.ammRepo, nil
}

// VaultUseCase returns the vault use case instance.
func (c *Container) VaultUseCase() (vaultUseCase.VaultUseCase, error) {
	var err error
	c.vaultUseCaseInit.Do(func() {
		c.vaultUseCase, err = c.initVaultUseCase()
		if err != nil {
			c.initErrors["vaultUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["vaultUseCase"]; exists {
		return nil, storedErr
	}
	return c.vaultUseCase, nil
}

// AmmUseCase returns the AMM use case instance.
func (c *Container) AmmUseCase() (vaultUseCase.AmmUseCase, error) {
	var err error
	c.ammUseCaseInit.Do(func() {
		var ammRepo vaultUseCase.AmmRepository
		ammRepo, err = c.AmmRepository()
		if err != nil {
			c.initErrors["ammUseCase"] = err
			return
		}
		c.ammUseCase = vaultUseCase.NewAmmUseCase(ammRepo)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["ammUseCase"]; exists {
		return nil, storedErr
	}
	return c.ammUseCase, nil
}

// PriceOracle returns the static price oracle built from configuration.
func (c *Container) PriceOracle() (vaultService.PriceOracle, error) {
	var err error
	c.priceOracleInit.Do(func() {
		var rates map[string]*big.Int
		rates, err = vaultService.ParseRates(c.config.PriceOracleRates)
		if err != nil {
			err = fmt.Errorf("failed to parse price oracle rates: %w", err)
			c.initErrors["priceOracle"] = err
			return
		}
		c.priceOracle = vaultService.NewStaticPriceOracle(rates)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["priceOracle"]; exists {
		return nil, storedErr
	}
	return c.priceOracle, nil
}

// VaultHandler returns the vault HTTP handler instance.
func (c *Container) VaultHandler() (*vaultHTTP.VaultHandler, error) {
	var err error
	c.vaultHandlerInit.Do(func() {
		var vaultUC vaultUseCase.VaultUseCase
		vaultUC, err = c.VaultUseCase()
		if err != nil {
			c.initErrors["vaultHandler"] = err
			return
		}
		c.vaultHandler = vaultHTTP.NewVaultHandler(vaultUC, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["vaultHandler"]; exists {
		return nil, storedErr
	}
	return c.vaultHandler, nil
}

// AmmHandler returns the AMM HTTP handler instance.
func (c *Container) AmmHandler() (*vaultHTTP.AmmHandler, error) {
	var err error
	c.ammHandlerInit.Do(func() {
		var ammUC vaultUseCase.AmmUseCase
		ammUC, err = c.AmmUseCase()
		if err != nil {
			c.initErrors["ammHandler"] = err
			return
		}
		c.ammHandler = vaultHTTP.NewAmmHandler(ammUC, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["ammHandler"]; exists {
		return nil, storedErr
	}
	return c.ammHandler, nil
}

// initVaultRepository creates the vault repository instance.
func (c *Container) initVaultRepository() (vaultUseCase.VaultRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for vault repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return vaultRepository.NewMySQLVaultRepository(db), nil
	case "postgres":
		return vaultRepository.NewPostgreSQLVaultRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAmmRepository creates the AMM repository instance.
func (c *Container) initAmmRepository() (vaultUseCase.AmmRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for amm repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return vaultRepository.NewMySQLAmmRepository(db), nil
	case "postgres":
		return vaultRepository.NewPostgreSQLAmmRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initVaultUseCase creates the vault use case with all its dependencies.
func (c *Container) initVaultUseCase() (vaultUseCase.VaultUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for vault use case: %w", err)
	}

	vaultRepo, err := c.VaultRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault repository for vault use case: %w", err)
	}

	eventEmitter, err := c.EmitterUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get event emitter for vault use case: %w", err)
	}

	registry, err := c.RegistryUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get registry use case for vault use case: %w", err)
	}

	return vaultUseCase.NewVaultUseCase(txManager, vaultRepo, eventEmitter, registry), nil
}
