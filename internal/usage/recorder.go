package usage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultQueueSize bounds the number of records waiting to be written.
const DefaultQueueSize = 256

const writeTimeout = 5 * time.Second

// Sink persists usage records. *Store satisfies it.
type Sink interface {
	Insert(ctx context.Context, r Record) error
}

// Recorder hands records to a background worker. Record never blocks: when
// the queue is full the record is dropped and logged.
type Recorder struct {
	sink   Sink
	logger *zap.Logger
	queue  chan Record

	mu      sync.RWMutex
	started bool
	closed  bool
	done    chan struct{}
}

// NewRecorder creates a Recorder. Call Start before recording and Close on
// shutdown.
func NewRecorder(sink Sink, logger *zap.Logger, queueSize int) *Recorder {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		sink:   sink,
		logger: logger.Named("usage"),
		queue:  make(chan Record, queueSize),
		done:   make(chan struct{}),
	}
}

// Start launches the worker. Cancelling ctx stops it after the records
// already queued are written.
func (r *Recorder) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started || r.closed {
		return
	}
	r.started = true
	go r.run(ctx)
}

// Record enqueues rec without blocking.
func (r *Recorder) Record(rec Record) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.logger.Warn("usage record dropped: recorder closed", zap.String("category", rec.Category))
		return
	}
	select {
	case r.queue <- rec:
	default:
		r.logger.Warn("usage record dropped: queue full",
			zap.String("category", rec.Category),
			zap.Int("queue_size", cap(r.queue)),
		)
	}
}

// Close stops accepting records and waits for the queue to drain.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	started := r.started
	close(r.queue)
	r.mu.Unlock()

	if started {
		<-r.done
	}
}

func (r *Recorder) run(ctx context.Context) {
	defer close(r.done)
	base := context.WithoutCancel(ctx)
	for {
		select {
		case rec, ok := <-r.queue:
			if !ok {
				return
			}
			r.write(base, rec)
		case <-ctx.Done():
			r.drain(base)
			return
		}
	}
}

// drain writes whatever is buffered right now without waiting for more.
func (r *Recorder) drain(ctx context.Context) {
	for {
		select {
		case rec, ok := <-r.queue:
			if !ok {
				return
			}
			r.write(ctx, rec)
		default:
			return
		}
	}
}

// write is the error boundary: a failing or panicking sink is logged and
// never propagates.
func (r *Recorder) write(ctx context.Context, rec Record) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("usage sink panicked",
				zap.Error(fmt.Errorf("%w: panic: %v", ErrMetricsWrite, p)))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := r.sink.Insert(ctx, rec); err != nil {
		r.logger.Error("usage write failed",
			zap.String("category", rec.Category),
			zap.Error(fmt.Errorf("%w: %w", ErrMetricsWrite, err)))
	}
}
