package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	accountDomain "github.com/allisson/vaultactions/internal/account/domain"
	apperrors "github.com/allisson/vaultactions/internal/errors"
)

// mockAccountRepository is a mock implementation of AccountRepository for testing.
type mockAccountRepository struct {
	mock.Mock
}

func (m *mockAccountRepository) Create(ctx context.Context, account *accountDomain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *mockAccountRepository) Update(ctx context.Context, account *accountDomain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *mockAccountRepository) Get(ctx context.Context, accountID uuid.UUID) (*accountDomain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.Account), args.Error(1)
}

func (m *mockAccountRepository) GetByAddress(ctx context.Context, address string) (*accountDomain.Account, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.Account), args.Error(1)
}

func (m *mockAccountRepository) List(ctx context.Context, limit, offset int) ([]*accountDomain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*accountDomain.Account), args.Error(1)
}

// mockSecretService is a mock implementation of service.SecretService for testing.
type mockSecretService struct {
	mock.Mock
}

func (m *mockSecretService) GenerateSecret() (string, string, error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockSecretService) HashSecret(plainSecret string) (string, error) {
	args := m.Called(plainSecret)
	return args.String(0), args.Error(1)
}

func (m *mockSecretService) CompareSecret(plainSecret, hashedSecret string) bool {
	args := m.Called(plainSecret, hashedSecret)
	return args.Bool(0)
}

func testAccount(isActive bool) *accountDomain.Account {
	return &accountDomain.Account{
		ID:        uuid.Must(uuid.NewV7()),
		Secret:    "hashed-secret",
		Name:      "relayer-1",
		Address:   "0x1111111111111111111111111111111111111111",
		IsActive:  isActive,
		CreatedAt: time.Now().UTC(),
	}
}

func TestAccountUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		accountRepo := &mockAccountRepository{}
		secretService := &mockSecretService{}
		useCase := NewAccountUseCase(accountRepo, secretService)

		secretService.On("GenerateSecret").Return("plain-secret", "hashed-secret", nil)
		accountRepo.On("Create", ctx, mock.MatchedBy(func(account *accountDomain.Account) bool {
			return account.Secret == "hashed-secret" &&
				account.Name == "relayer-1" &&
				account.Address == "0x1111111111111111111111111111111111111111" &&
				account.IsActive
		})).Return(nil)

		output, err := useCase.Create(ctx, &accountDomain.CreateAccountInput{
			Name:    "relayer-1",
			Address: "0x1111111111111111111111111111111111111111",
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, output.ID)
		assert.Equal(t, "0x1111111111111111111111111111111111111111", output.Address)
		assert.Equal(t, "plain-secret", output.PlainSecret)

		accountRepo.AssertExpectations(t)
		secretService.AssertExpectations(t)
	})

	t.Run("Failure_AddressTaken", func(t *testing.T) {
		accountRepo := &mockAccountRepository{}
		secretService := &mockSecretService{}
		useCase := NewAccountUseCase(accountRepo, secretService)

		secretService.On("GenerateSecret").Return("plain-secret", "hashed-secret", nil)
		accountRepo.On("Create", ctx, mock.Anything).Return(accountDomain.ErrAddressTaken)

		_, err := useCase.Create(ctx, &accountDomain.CreateAccountInput{
			Name:    "relayer-1",
			Address: "0x1111111111111111111111111111111111111111",
		})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("Failure_SecretGeneration", func(t *testing.T) {
		accountRepo := &mockAccountRepository{}
		secretService := &mockSecretService{}
		useCase := NewAccountUseCase(accountRepo, secretService)

		secretService.On("GenerateSecret").Return("", "", errors.New("entropy exhausted"))

		_, err := useCase.Create(ctx, &accountDomain.CreateAccountInput{
			Name:    "relayer-1",
			Address: "0x1111111111111111111111111111111111111111",
		})
		assert.Error(t, err)
		accountRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAccountUseCase_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_DeactivatesAccount", func(t *testing.T) {
		accountRepo := &mockAccountRepository{}
		useCase := NewAccountUseCase(accountRepo, &mockSecretService{})

		account := testAccount(true)
		accountRepo.On("Get", ctx, account.ID).Return(account, nil)
		accountRepo.On("Update", ctx, mock.MatchedBy(func(updated *accountDomain.Account) bool {
			return updated.ID == account.ID && !updated.IsActive
		})).Return(nil)

		err := useCase.Delete(ctx, account.ID)
		require.NoError(t, err)
		accountRepo.AssertExpectations(t)
	})

	t.Run("Failure_NotFound", func(t *testing.T) {
		accountRepo := &mockAccountRepository{}
		useCase := NewAccountUseCase(accountRepo, &mockSecretService{})

		accountID := uuid.Must(uuid.NewV7())
		accountRepo.On("Get", ctx, accountID).Return(nil, accountDomain.ErrAccountNotFound)

		err := useCase.Delete(ctx, accountID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestAccountUseCase_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		accountRepo := &mockAccountRepository{}
		secretService := &mockSecretService{}
		useCase := NewAccountUseCase(accountRepo, secretService)

		account := testAccount(true)
		accountRepo.On("Get", ctx, account.ID).Return(account, nil)
		secretService.On("CompareSecret", "plain-secret", "hashed-secret").Return(true)

		authenticated, err := useCase.Authenticate(ctx, account.ID, "plain-secret")
		require.NoError(t, err)
		assert.Equal(t, account.ID, authenticated.ID)
		assert.Equal(t, account.Address, authenticated.Address)
	})

	t.Run("Failure_UnknownAccountMapsToUnauthorized", func(t *testing.T) {
		accountRepo := &mockAccountRepository{}
		useCase := NewAccountUseCase(accountRepo, &mockSecretService{})

		accountID := uuid.Must(uuid.NewV7())
		accountRepo.On("Get", ctx, accountID).Return(nil, accountDomain.ErrAccountNotFound)

		_, err := useCase.Authenticate(ctx, accountID, "plain-secret")
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("Failure_WrongSecret", func(t *testing.T) {
		accountRepo := &mockAccountRepository{}
		secretService := &mockSecretService{}
		useCase := NewAccountUseCase(accountRepo, secretService)

		account := testAccount(true)
		accountRepo.On("Get", ctx, account.ID).Return(account, nil)
		secretService.On("CompareSecret", "wrong-secret", "hashed-secret").Return(false)

		_, err := useCase.Authenticate(ctx, account.ID, "wrong-secret")
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("Failure_InactiveAccount", func(t *testing.T) {
		accountRepo := &mockAccountRepository{}
		secretService := &mockSecretService{}
		useCase := NewAccountUseCase(accountRepo, secretService)

		account := testAccount(false)
		accountRepo.On("Get", ctx, account.ID).Return(account, nil)
		secretService.On("CompareSecret", "plain-secret", "hashed-secret").Return(true)

		_, err := useCase.Authenticate(ctx, account.ID, "plain-secret")
		assert.ErrorIs(t, err, accountDomain.ErrAccountInactive)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("Failure_RepositoryErrorPassesThrough", func(t *testing.T) {
		accountRepo := &mockAccountRepository{}
		useCase := NewAccountUseCase(accountRepo, &mockSecretService{})

		accountID := uuid.Must(uuid.NewV7())
		repoErr := errors.New("connection refused")
		accountRepo.On("Get", ctx, accountID).Return(nil, repoErr)

		_, err := useCase.Authenticate(ctx, accountID, "plain-secret")
		assert.ErrorIs(t, err, repoErr)
	})
}

func TestAccountUseCase_List(t *testing.T) {
	ctx := context.Background()

	accountRepo := &mockAccountRepository{}
	useCase := NewAccountUseCase(accountRepo, &mockSecretService{})

	accounts := []*accountDomain.Account{testAccount(true), testAccount(true)}
	accountRepo.On("List", ctx, 50, 0).Return(accounts, nil)

	listed, err := useCase.List(ctx, 50, 0)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}
