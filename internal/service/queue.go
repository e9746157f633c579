package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/keyfold/syncengine/internal/config"
	"github.com/keyfold/syncengine/internal/logger"
	"github.com/keyfold/syncengine/internal/store"
	"github.com/keyfold/syncengine/models"
)

type offlineQueue struct {
	repo      store.QueueRepository
	optimizer BandwidthOptimizer
	notify    func(Notification)
	online    func() bool

	cfg        config.Queue
	drainLimit int
	logger     *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// drainMu serializes drain passes so a ticker pass and an explicit
	// Drain never hand the same operations to the optimizer twice.
	drainMu sync.Mutex
}

// NewOfflineQueue creates the durable queue service. The drain loop is idle
// until Start is called; notify and online are supplied by the coordinator
// so the queue never references it directly.
func NewOfflineQueue(
	repo store.QueueRepository,
	optimizer BandwidthOptimizer,
	notify func(Notification),
	online func() bool,
	cfg config.Queue,
	drainLimit int,
	log *logger.Logger,
) OfflineQueue {
	if drainLimit <= 0 {
		drainLimit = 25
	}

	return &offlineQueue{
		repo:       repo,
		optimizer:  optimizer,
		notify:     notify,
		online:     online,
		cfg:        cfg,
		drainLimit: drainLimit,
		logger:     log,
	}
}

func (q *offlineQueue) Enqueue(ctx context.Context, op models.QueuedOperation) error {
	if err := q.repo.Enqueue(ctx, op); err != nil {
		return fmt.Errorf("persist queued operation: %w", err)
	}

	q.notify(Notification{Kind: NoteOperationAdded, Operation: &op})
	return nil
}

func (q *offlineQueue) Withdraw(ctx context.Context, id string) error {
	if err := q.repo.Withdraw(ctx, id); err != nil {
		return fmt.Errorf("withdraw operation %s: %w", id, err)
	}
	return nil
}

func (q *offlineQueue) Requeue(ctx context.Context, operationID string) error {
	if err := q.repo.Requeue(ctx, operationID); err != nil {
		return fmt.Errorf("requeue dead letter %s: %w", operationID, err)
	}
	return nil
}

func (q *offlineQueue) Drain(ctx context.Context) {
	q.drainOnce(ctx)
}

func (q *offlineQueue) Status(ctx context.Context) (models.QueueStatus, error) {
	return q.repo.Status(ctx)
}

func (q *offlineQueue) Clear(ctx context.Context) error {
	// Irreversible: pending work is discarded, not dead-lettered.
	q.logger.Warn().
		Str("func", "offlineQueue.Clear").
		Msg("user-initiated queue reset requested")

	return q.repo.Clear(ctx)
}

// Start implements OfflineQueue. It stops any previously running drain loop,
// then launches a background goroutine that drains ready operations every
// DrainInterval while connectivity is available. The goroutine exits when
// ctx is cancelled or Stop is called.
func (q *offlineQueue) Start(ctx context.Context) {
	interval := q.cfg.DrainInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	q.Stop()

	q.mu.Lock()
	loopCtx, cancel := context.WithCancel(ctx)
	q.cancel = cancel
	q.wg.Add(1)
	q.mu.Unlock()

	go func() {
		defer q.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-loopCtx.Done():
				return
			case <-t.C:
				q.drainOnce(loopCtx)
			}
		}
	}()
}

// Stop implements OfflineQueue. It cancels the drain goroutine's context and
// blocks until the goroutine has fully exited. Safe to call when the loop is
// not running (no-op in that case).
func (q *offlineQueue) Stop() {
	q.mu.Lock()
	cancel := q.cancel
	q.cancel = nil
	q.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	q.wg.Wait()
}

// drainOnce hands one batch of ready operations to the bandwidth optimizer.
// Delivery outcomes come back asynchronously through the engine's
// DeliverySink, which reschedules or dead-letters failures.
func (q *offlineQueue) drainOnce(ctx context.Context) {
	q.drainMu.Lock()
	defer q.drainMu.Unlock()

	if !q.online() {
		return
	}

	ops, err := q.repo.Ready(ctx, time.Now().UTC(), q.drainLimit)
	if err != nil {
		q.logger.Err(err).
			Str("func", "offlineQueue.drainOnce").
			Msg("failed to load ready operations")
		return
	}
	if len(ops) == 0 {
		return
	}

	ids := make([]string, 0, len(ops))
	for _, op := range ops {
		ids = append(ids, op.ID)
	}
	if err = q.repo.MarkInFlight(ctx, ids...); err != nil {
		q.logger.Err(err).
			Str("func", "offlineQueue.drainOnce").
			Int("operations", len(ids)).
			Msg("failed to mark operations in flight")
		return
	}

	for _, op := range ops {
		q.optimizer.Add(ctx, op)
	}
}
