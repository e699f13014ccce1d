package telemetry

import (
	"context"
	"log/slog"
	"sync"
)

// SinkConfig configures the telemetry sink.
type SinkConfig struct {
	Store     Store
	QueueSize int // Buffer size (default: 256)
	Logger    *slog.Logger
}

// Sink consumes records through a bounded queue on a background
// goroutine. Send never blocks and never returns an error: a full queue
// drops the record, and store failures are logged locally and swallowed.
type Sink struct {
	store  Store
	logger *slog.Logger

	queue chan Record

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewSink creates a telemetry sink.
func NewSink(cfg SinkConfig) *Sink {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Sink{
		store:  cfg.Store,
		logger: cfg.Logger,
		queue:  make(chan Record, cfg.QueueSize),
	}
}

// Start begins consuming queued records.
func (s *Sink) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.run()
}

// Stop drains the queue and shuts the consumer down.
func (s *Sink) Stop() {
	s.stopOnce.Do(func() {
		close(s.queue)
		s.wg.Wait()
		if s.cancel != nil {
			s.cancel()
		}
	})
}

// Send queues a record (fire-and-forget). Safe to call after Stop; late
// records are dropped with a warning.
func (s *Sink) Send(rec Record) {
	rec.Stamp()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("telemetry sink closed, dropping record",
				"task_type", rec.TaskType, "model_id", rec.ModelID)
		}
	}()

	select {
	case s.queue <- rec:
	default:
		s.logger.Warn("telemetry queue full, dropping record",
			"task_type", rec.TaskType, "model_id", rec.ModelID)
	}
}

func (s *Sink) run() {
	defer s.wg.Done()
	for rec := range s.queue {
		if s.store == nil {
			continue
		}
		if err := s.store.Append(s.ctx, rec); err != nil {
			s.logger.Error("telemetry write failed",
				"task_type", rec.TaskType,
				"model_id", rec.ModelID,
				"error", err)
		}
	}
}
