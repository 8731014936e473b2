package app

import (
	"fmt"
	"sync"

	accountHTTP "github.com/allisson/vaultactions/internal/account/http"
	accountRepository "github.com/allisson/vaultactions/internal/account/repository"
	accountService "github.com/allisson/vaultactions/internal/account/service"
	accountUseCase "github.com/allisson/vaultactions/internal/account/usecase"
)

// accountComponents holds the account module's dependencies inside the container.
type accountComponents struct {
	accountRepo        accountUseCase.AccountRepository
	secretService      accountService.SecretService
	accountUseCase     accountUseCase.AccountUseCase
	accountHandler     *accountHTTP.AccountHandler
	accountRepoInit    sync.Once
	secretServiceInit  sync.Once
	accountUseCaseInit sync.Once
	accountHandlerInit sync.Once
}

// AccountRepository returns the account repository instance.
func (c *Container) AccountRepository() (accountUseCase.AccountRepository, error) {
	var err error
	c.accountRepoInit.Do(func() {
		c.accountRepo, err = c.initAccountRepository()
		if err != nil {
			c.initErrors["accountRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accountRepo"]; exists {
		return nil, storedErr
	}
	return c.accountRepo, nil
}

// SecretService returns the account secret service instance.
func (c *Container) SecretService() accountService.SecretService {
	c.secretServiceInit.Do(func() {
		c.secretService = accountService.NewSecretService()
	})
	return c.secretService
}

// AccountUseCase returns the account use case instance.
func (c *Container) AccountUseCase() (accountUseCase.AccountUseCase, error) {
	var err error
	c.accountUseCaseInit.Do(func() {
		c.accountUseCase, err = c.initAccountUseCase()
		if err != nil {
			c.initErrors["accountUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accountUseCase"]; exists {
		return nil, storedErr
	}
	return c.accountUseCase, nil
}

// AccountHandler returns the account HTTP handler instance.
func (c *Container) AccountHandler() (*accountHTTP.AccountHandler, error) {
	var err error
	c.accountHandlerInit.Do(func() {
		var accountUC accountUseCase.AccountUseCase
		accountUC, err = c.AccountUseCase()
		if err != nil {
			c.initErrors["accountHandler"] = err
			return
		}
		c.accountHandler = accountHTTP.NewAccountHandler(accountUC, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accountHandler"]; exists {
		return nil, storedErr
	}
	return c.accountHandler, nil
}

// initAccountRepository creates the account repository instance.
func (c *Container) initAccountRepository() (accountUseCase.AccountRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for account repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return accountRepository.NewMySQLAccountRepository(db), nil
	case "postgres":
		return accountRepository.NewPostgreSQLAccountRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAccountUseCase creates the account use case with all its dependencies.
func (c *Container) initAccountUseCase() (accountUseCase.AccountUseCase, error) {
	accountRepo, err := c.AccountRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get account repository for account use case: %w", err)
	}

	return accountUseCase.NewAccountUseCase(accountRepo, c.SecretService()), nil
}
