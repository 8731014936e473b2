package usecase

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	actionDomain "github.com/allisson/vaultactions/internal/action/domain"
)

// recordedMetric captures one RecordOperation or RecordDuration call.
type recordedMetric struct {
	domain    string
	operation string
	status    string
}

// recordingBusinessMetrics is an in-memory metrics.BusinessMetrics.
type recordingBusinessMetrics struct {
	operations []recordedMetric
	durations  []recordedMetric
}

func (r *recordingBusinessMetrics) RecordOperation(_ context.Context, domain, operation, status string) {
	r.operations = append(r.operations, recordedMetric{domain: domain, operation: operation, status: status})
}

func (r *recordingBusinessMetrics) RecordDuration(
	_ context.Context,
	domain, operation string,
	_ time.Duration,
	status string,
) {
	r.durations = append(r.durations, recordedMetric{domain: domain, operation: operation, status: status})
}

// stubActionUseCase returns canned results for the methods under test.
// Unimplemented methods panic through the nil embedded interface.
type stubActionUseCase struct {
	ActionUseCase

	action        *actionDomain.Action
	executeResult *ExecutionResult
	err           error
}

func (s *stubActionUseCase) Create(
	_ context.Context,
	_ *actionDomain.CreateActionInput,
	_ string,
) (*actionDomain.Action, error) {
	return s.action, s.err
}

func (s *stubActionUseCase) SetThreshold(
	_ context.Context,
	_ string,
	_ uuid.UUID,
	_ string,
	_ *big.Int,
) error {
	return s.err
}

func (s *stubActionUseCase) ExecuteBridge(
	_ context.Context,
	_ string,
	_ uuid.UUID,
	_ *actionDomain.BridgeCallInput,
	_ *actionDomain.GasReport,
) (*ExecutionResult, error) {
	return s.executeResult, s.err
}

func (s *stubActionUseCase) CanExecuteWithdraw(_ context.Context, _ string, _ uuid.UUID) (bool, error) {
	return s.err == nil, s.err
}

func TestActionUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("create success", func(t *testing.T) {
		action := &actionDomain.Action{ID: uuid.New()}
		recorder := &recordingBusinessMetrics{}
		uc := NewActionUseCaseWithMetrics(&stubActionUseCase{action: action}, recorder)

		got, err := uc.Create(ctx, &actionDomain.CreateActionInput{}, "0x11")
		require.NoError(t, err)
		assert.Equal(t, action, got)

		require.Len(t, recorder.operations, 1)
		assert.Equal(t, recordedMetric{domain: "action", operation: "create", status: "success"}, recorder.operations[0])
		require.Len(t, recorder.durations, 1)
		assert.Equal(t, recordedMetric{domain: "action", operation: "create", status: "success"}, recorder.durations[0])
	})

	t.Run("set threshold error", func(t *testing.T) {
		recorder := &recordingBusinessMetrics{}
		uc := NewActionUseCaseWithMetrics(&stubActionUseCase{err: errors.New("boom")}, recorder)

		err := uc.SetThreshold(ctx, "0x11", uuid.New(), "0xaa", big.NewInt(1))
		require.Error(t, err)

		require.Len(t, recorder.operations, 1)
		assert.Equal(
			t,
			recordedMetric{domain: "action", operation: "set_threshold", status: "error"},
			recorder.operations[0],
		)
	})

	t.Run("bridger call success", func(t *testing.T) {
		result := &ExecutionResult{Amount: big.NewInt(100), RelayerCost: big.NewInt(0)}
		recorder := &recordingBusinessMetrics{}
		uc := NewActionUseCaseWithMetrics(&stubActionUseCase{executeResult: result}, recorder)

		got, err := uc.ExecuteBridge(ctx, "0x33", uuid.New(), &actionDomain.BridgeCallInput{}, nil)
		require.NoError(t, err)
		assert.Equal(t, result, got)

		require.Len(t, recorder.operations, 1)
		assert.Equal(t, "bridger_call", recorder.operations[0].operation)
		assert.Equal(t, "success", recorder.operations[0].status)
	})

	t.Run("guard check passes result through", func(t *testing.T) {
		recorder := &recordingBusinessMetrics{}
		uc := NewActionUseCaseWithMetrics(&stubActionUseCase{}, recorder)

		ok, err := uc.CanExecuteWithdraw(ctx, "0x33", uuid.New())
		require.NoError(t, err)
		assert.True(t, ok)

		require.Len(t, recorder.operations, 1)
		assert.Equal(t, "can_withdrawer_call", recorder.operations[0].operation)
	})
}
