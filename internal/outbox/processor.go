// Package outbox relays events recorded alongside business writes to
// downstream publishers (Kafka, the admin websocket feed).
package outbox

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"shoptobd/internal/model"
	"shoptobd/internal/repository"

	"go.uber.org/zap"
)

// Publisher delivers one outbox message. Returning an error schedules a retry.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, msg *model.OutboxMessage) error
}

type ProcessorConfig struct {
	PollingInterval time.Duration
	BatchSize       int
	MaxAttempts     int
}

// Processor polls pending messages and fans them out to every publisher.
type Processor struct {
	outboxRepo repository.OutboxRepository
	txManager  repository.TransactionManager
	publishers []Publisher
	cfg        ProcessorConfig
	logger     *zap.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

func NewProcessor(
	outboxRepo repository.OutboxRepository,
	txManager repository.TransactionManager,
	cfg ProcessorConfig,
	logger *zap.Logger,
	publishers ...Publisher,
) *Processor {
	if cfg.PollingInterval <= 0 {
		cfg.PollingInterval = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &Processor{
		outboxRepo: outboxRepo,
		txManager:  txManager,
		publishers: publishers,
		cfg:        cfg,
		logger:     logger,
	}
}

// Start launches the polling loop. Calling it twice is a no-op.
func (p *Processor) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}

	ctx, p.cancel = context.WithCancel(ctx)
	p.running = true
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.loop(ctx)
	}()

	p.logger.Info("outbox processor started",
		zap.Duration("polling_interval", p.cfg.PollingInterval),
		zap.Int("batch_size", p.cfg.BatchSize),
		zap.Int("publishers", len(p.publishers)))
}

// Stop cancels the loop and waits for the in-flight batch to finish.
func (p *Processor) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	p.cancel()
	p.wg.Wait()
	p.running = false
	p.logger.Info("outbox processor stopped")
}

func (p *Processor) loop(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.PollingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.ProcessBatch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				p.logger.Error("outbox batch failed", zap.Error(err))
			}
		}
	}
}

// ProcessBatch locks one batch of pending messages and tries to deliver each.
// It returns how many were published.
func (p *Processor) ProcessBatch(ctx context.Context) (int, error) {
	published := 0
	err := p.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		messages, err := p.outboxRepo.FetchPending(txCtx, p.cfg.BatchSize)
		if err != nil {
			return fmt.Errorf("fetch pending messages: %w", err)
		}

		for i := range messages {
			msg := &messages[i]
			if deliverErr := p.deliver(txCtx, msg); deliverErr != nil {
				if err := p.recordFailure(txCtx, msg, deliverErr); err != nil {
					return err
				}
				continue
			}
			if err := p.outboxRepo.MarkPublished(txCtx, msg.ID); err != nil {
				return fmt.Errorf("mark message %s published: %w", msg.ID, err)
			}
			published++
		}
		return nil
	})
	return published, err
}

func (p *Processor) deliver(ctx context.Context, msg *model.OutboxMessage) error {
	for _, pub := range p.publishers {
		if err := pub.Publish(ctx, msg); err != nil {
			return fmt.Errorf("%s: %w", pub.Name(), err)
		}
	}
	return nil
}

func (p *Processor) recordFailure(ctx context.Context, msg *model.OutboxMessage, deliverErr error) error {
	attempts := msg.Attempts + 1
	status := model.OutboxStatusPending
	if attempts >= p.cfg.MaxAttempts {
		status = model.OutboxStatusFailed
	}

	p.logger.Warn("outbox delivery failed",
		zap.String("message_id", msg.ID.String()),
		zap.String("event_type", msg.EventType),
		zap.Int("attempts", attempts),
		zap.String("status", status),
		zap.Error(deliverErr))

	if err := p.outboxRepo.MarkAttempt(ctx, msg.ID, attempts, status, deliverErr.Error()); err != nil {
		return fmt.Errorf("record attempt for message %s: %w", msg.ID, err)
	}
	return nil
}
