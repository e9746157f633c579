package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang/snappy"

	"github.com/keyfold/syncengine/internal/adapter"
	"github.com/keyfold/syncengine/internal/config"
	"github.com/keyfold/syncengine/internal/logger"
	"github.com/keyfold/syncengine/models"
)

type bandwidthOptimizer struct {
	remote adapter.RemoteStore
	sink   DeliverySink

	// baseVersion supplies the optimistic-concurrency version for each
	// write, read from the entity's local sync marker.
	baseVersion func(ctx context.Context, op models.QueuedOperation) int64

	cfg    config.Bandwidth
	logger *logger.Logger

	bufMu  sync.Mutex
	buffer []models.QueuedOperation
	kick   chan struct{}

	statsMu sync.Mutex
	stats   models.BandwidthStats

	jobMu  sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewBandwidthOptimizer creates the outbound batching layer. Operations
// buffer until the flush window elapses or the batch ceiling is reached,
// then ship in a single round-trip, snappy-compressed when the serialized
// batch exceeds the configured threshold. Every added operation eventually
// reaches sink.OnDelivery: the optimizer may delay but never drops.
func NewBandwidthOptimizer(
	remote adapter.RemoteStore,
	sink DeliverySink,
	baseVersion func(ctx context.Context, op models.QueuedOperation) int64,
	cfg config.Bandwidth,
	log *logger.Logger,
) BandwidthOptimizer {
	return &bandwidthOptimizer{
		remote:      remote,
		sink:        sink,
		baseVersion: baseVersion,
		cfg:         cfg,
		logger:      log,
		kick:        make(chan struct{}, 1),
	}
}

func (b *bandwidthOptimizer) Add(ctx context.Context, op models.QueuedOperation) {
	b.bufMu.Lock()
	b.buffer = append(b.buffer, op)
	full := len(b.buffer) >= b.cfg.MaxBatchSize
	b.bufMu.Unlock()

	if full {
		select {
		case b.kick <- struct{}{}:
		default:
		}
	}
}

func (b *bandwidthOptimizer) Flush(ctx context.Context) {
	b.flush(ctx)
}

func (b *bandwidthOptimizer) Stats() models.BandwidthStats {
	b.statsMu.Lock()
	defer b.statsMu.Unlock()

	stats := b.stats
	if stats.BatchesSent > 0 {
		stats.AverageBatchSize = float64(stats.OperationsSent) / float64(stats.BatchesSent)
	}
	return stats
}

// Start launches the flush timer. Any previously running timer is stopped
// first.
func (b *bandwidthOptimizer) Start(ctx context.Context) {
	window := b.cfg.FlushWindow
	if window <= 0 {
		window = 750 * time.Millisecond
	}

	b.Stop()

	b.jobMu.Lock()
	loopCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.wg.Add(1)
	b.jobMu.Unlock()

	go func() {
		defer b.wg.Done()
		t := time.NewTicker(window)
		defer t.Stop()

		for {
			select {
			case <-loopCtx.Done():
				return
			case <-t.C:
				b.flush(loopCtx)
			case <-b.kick:
				b.flush(loopCtx)
			}
		}
	}()
}

// Stop terminates the flush timer and drains the remaining buffer so no
// operation is stranded.
func (b *bandwidthOptimizer) Stop() {
	b.jobMu.Lock()
	cancel := b.cancel
	b.cancel = nil
	b.jobMu.Unlock()

	if cancel != nil {
		cancel()
	}
	b.wg.Wait()

	b.flush(context.Background())
}

func (b *bandwidthOptimizer) flush(ctx context.Context) {
	b.bufMu.Lock()
	batch := b.buffer
	b.buffer = nil
	b.bufMu.Unlock()

	if len(batch) == 0 {
		return
	}

	request := models.BatchRequest{Length: len(batch)}
	for _, op := range batch {
		request.Writes = append(request.Writes, models.BatchWrite{
			OperationID:    op.ID,
			CollectionPath: op.CollectionPath,
			EntityType:     op.EntityType,
			EntityID:       op.EntityID,
			Kind:           op.Kind,
			Payload:        op.Payload,
			BaseVersion:    b.baseVersion(ctx, op),
		})
	}

	raw, err := json.Marshal(request)
	if err != nil {
		// Serialization failure is permanent for the whole batch.
		for _, op := range batch {
			b.sink.OnDelivery(ctx, op, DeliveryResult{Err: fmt.Errorf("%w: %v", ErrPayloadCorrupt, err)})
		}
		return
	}

	body := raw
	compressed := false
	if b.cfg.CompressThreshold > 0 && len(raw) > b.cfg.CompressThreshold {
		encoded := snappy.Encode(nil, raw)
		if len(encoded) < len(raw) {
			body = encoded
			compressed = true
		}
	}

	response, err := b.remote.PutBatch(ctx, body, compressed)
	if err != nil {
		b.logger.Warn().
			Str("func", "bandwidthOptimizer.flush").
			Int("operations", len(batch)).
			Err(err).
			Msg("batch delivery failed, operations return to queue")
		// Failed batch: every contained operation is reported
		// individually so the queue can retry each one.
		for _, op := range batch {
			b.sink.OnDelivery(ctx, op, DeliveryResult{Err: err})
		}
		return
	}

	b.statsMu.Lock()
	b.stats.BatchesSent++
	b.stats.OperationsSent += int64(len(batch))
	b.stats.RawBytes += int64(len(raw))
	b.stats.CompressedBytes += int64(len(body))
	b.stats.BytesSaved += int64(len(raw) - len(body))
	b.statsMu.Unlock()

	results := make(map[string]models.BatchWriteResult, len(response.Results))
	for _, result := range response.Results {
		results[result.OperationID] = result
	}

	for _, op := range batch {
		result, ok := results[op.ID]
		if !ok {
			b.sink.OnDelivery(ctx, op, DeliveryResult{
				Err: fmt.Errorf("batch response missing operation %s: %w", op.ID, adapter.ErrInternalServerError),
			})
			continue
		}

		delivery := DeliveryResult{Version: result.Version, Conflict: result.Conflict}
		if result.Error != "" {
			delivery.Err = errors.New(result.Error)
		}
		b.sink.OnDelivery(ctx, op, delivery)
	}
}
