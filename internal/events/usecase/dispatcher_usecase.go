package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/allisson/vaultactions/internal/database"
	eventsDomain "github.com/allisson/vaultactions/internal/events/domain"
	eventsService "github.com/allisson/vaultactions/internal/events/service"
)

// Config holds dispatcher configuration.
type Config struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// dispatcherUseCase implements DispatcherUseCase. Each pass drains a batch
// of pending events inside one transaction; SKIP LOCKED in the repository
// keeps concurrent dispatcher instances from double-delivering.
type dispatcherUseCase struct {
	config    Config
	txManager database.TxManager
	eventRepo EventRepository
	processor EventProcessor
	logger    *slog.Logger
}

// NewDispatcherUseCase creates a new event dispatcher use case.
func NewDispatcherUseCase(
	config Config,
	txManager database.TxManager,
	eventRepo EventRepository,
	processor EventProcessor,
	logger *slog.Logger,
) DispatcherUseCase {
	return &dispatcherUseCase{
		config:    config,
		txManager: txManager,
		eventRepo: eventRepo,
		processor: processor,
		logger:    logger,
	}
}

// Start runs the dispatch loop until ctx is cancelled.
func (d *dispatcherUseCase) Start(ctx context.Context) error {
	d.logger.Info("starting event dispatcher",
		slog.Duration("interval", d.config.Interval),
		slog.Int("batch_size", d.config.BatchSize),
	)

	ticker := time.NewTicker(d.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("stopping event dispatcher")
			return ctx.Err()
		case <-ticker.C:
			if err := d.ProcessEvents(ctx); err != nil {
				d.logger.Error("failed to process events", slog.Any("error", err))
			}
		}
	}
}

// ProcessEvents retrieves and delivers pending events in a transaction.
func (d *dispatcherUseCase) ProcessEvents(ctx context.Context) error {
	return d.txManager.WithTx(ctx, func(ctx context.Context) error {
		events, err := d.eventRepo.GetPendingEvents(ctx, d.config.BatchSize)
		if err != nil {
			return err
		}

		if len(events) == 0 {
			return nil
		}

		d.logger.Info("dispatching events", slog.Int("count", len(events)))

		for _, event := range events {
			if err := d.processor.Process(ctx, event); err != nil {
				d.logger.Error("failed to deliver event",
					slog.String("event_id", event.ID.String()),
					slog.String("event_name", event.Name),
					slog.Any("error", err),
				)

				event.Retries++
				errorMsg := err.Error()
				event.LastError = &errorMsg

				if event.Retries >= d.config.MaxRetries {
					event.Status = eventsDomain.EventStatusFailed
				}

				if err := d.eventRepo.Update(ctx, event); err != nil {
					return err
				}
				continue
			}

			now := time.Now().UTC()
			event.Status = eventsDomain.EventStatusProcessed
			event.ProcessedAt = &now

			if err := d.eventRepo.Update(ctx, event); err != nil {
				return err
			}
		}

		return nil
	})
}

// LogEventProcessor delivers events to the structured log after verifying
// their signatures. Stands in for a message broker delivery in deployments
// where consumers tail the log stream.
type LogEventProcessor struct {
	signer eventsService.Signer
	logger *slog.Logger
}

// NewLogEventProcessor creates a new LogEventProcessor.
func NewLogEventProcessor(signer eventsService.Signer, logger *slog.Logger) *LogEventProcessor {
	return &LogEventProcessor{
		signer: signer,
		logger: logger,
	}
}

// Process verifies the event signature and logs the event.
func (p *LogEventProcessor) Process(ctx context.Context, event *eventsDomain.Event) error {
	if !p.signer.Verify(event.Name, event.EntityID, []byte(event.Payload), event.Signature) {
		return eventsDomain.ErrInvalidSignature
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(event.Payload), &payload); err != nil {
		return err
	}

	p.logger.Info("event",
		slog.String("event_id", event.ID.String()),
		slog.String("event_name", event.Name),
		slog.String("entity_id", event.EntityID.String()),
		slog.Any("payload", payload),
	)

	return nil
}
