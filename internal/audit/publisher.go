package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tasknest/tasknest/internal/metrics"
)

const (
	// StreamKey is the Redis stream for admin audit entries.
	StreamKey = "stream:admin_audit"

	// MaxStreamLen is the approximate max length of the stream.
	MaxStreamLen = 100000

	// PublishTimeout is the max time to wait for Redis publish.
	PublishTimeout = 200 * time.Millisecond
)

// StreamPublisher appends audit entries to a Redis stream.
type StreamPublisher struct {
	redis    *redis.Client
	logger   *slog.Logger
	metrics  metrics.Recorder

	// mu guards closed and every inflight.Add so no Add races Drain's Wait.
	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// NewStreamPublisher creates a new audit stream publisher.
func NewStreamPublisher(client *redis.Client, logger *slog.Logger, recorder metrics.Recorder) *StreamPublisher {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &StreamPublisher{
		redis:   client,
		logger:  logger.With("component", "audit.publisher"),
		metrics: recorder,
	}
}

// Publish adds an entry to the stream synchronously.
func (p *StreamPublisher) Publish(ctx context.Context, entry Entry) (string, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("marshal entry: %w", err)
	}

	result, err := p.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey,
		MaxLen: MaxStreamLen,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{
			"entry_id": entry.ID,
			"payload":  string(data),
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("xadd: %w", err)
	}

	return result, nil
}

// PublishAsync publishes without blocking the caller.
// Errors are logged but not returned. Entries arriving after Drain has
// started are dropped.
func (p *StreamPublisher) PublishAsync(entry Entry) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.logger.Warn("audit publisher closed, entry dropped", "entry_id", entry.ID)
		p.metrics.IncAuditPublished(metrics.StatusDropped)
		return
	}
	p.inflight.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), PublishTimeout)
		defer cancel()

		streamID, err := p.Publish(ctx, entry)
		if err != nil {
			p.logger.Warn("failed to publish audit entry",
				"entry_id", entry.ID,
				"error", err,
			)
			p.metrics.IncAuditPublished(metrics.StatusDropped)
			return
		}

		p.logger.Debug("audit entry published",
			"entry_id", entry.ID,
			"stream_id", streamID,
		)
		p.metrics.IncAuditPublished(metrics.StatusSuccess)
	}()
}

// Drain stops accepting entries and waits for in-flight publishes to
// finish or ctx to end.
func (p *StreamPublisher) Drain(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain audit publisher: %w", ctx.Err())
	}
}
