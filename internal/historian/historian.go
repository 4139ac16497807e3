// Package historian drains match records from the Redis queue and persists
// them in batches.
package historian

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/jason-s-yu/throneroom/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Queue is the record queue. Records are popped with BLPOP; RPUSH returns
// records that could not be persisted before shutdown.
type Queue interface {
	BLPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// Sink persists one batch of records. A failed batch is retried on the next flush.
type Sink func(ctx context.Context, records []models.GameRecord) error

// Config controls batching.
type Config struct {
	QueueName  string
	BatchSize  int
	FlushDelay time.Duration
	// PopTimeout bounds each BLPOP so cancellation is noticed. Defaults to 3s.
	PopTimeout time.Duration
}

// Service pops records from a Queue and hands them to a Sink.
type Service struct {
	queue Queue
	sink  Sink
	cfg   Config
	log   logrus.FieldLogger

	batchMu sync.Mutex
	batch   []models.GameRecord
	flushMu sync.Mutex
}

// New returns a Service. A nil logger falls back to the standard logger.
func New(queue Queue, sink Sink, cfg Config, logger logrus.FieldLogger) *Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1
	}
	if cfg.FlushDelay <= 0 {
		cfg.FlushDelay = 500 * time.Millisecond
	}
	if cfg.PopTimeout <= 0 {
		cfg.PopTimeout = 3 * time.Second
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		queue: queue,
		sink:  sink,
		cfg:   cfg,
		log:   logger.WithField("queue", cfg.QueueName),
		batch: make([]models.GameRecord, 0, cfg.BatchSize),
	}
}

// Run blocks until ctx is cancelled, then flushes whatever is still pending.
// Records the final flush cannot persist are pushed back onto the queue.
func (s *Service) Run(ctx context.Context) error {
	s.log.Info("historian started")
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.readLoop(gctx) })
	g.Go(func() error { return s.flushLoop(gctx) })
	err := g.Wait()

	// The run context is gone; give the last flush its own deadline.
	flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.flush(flushCtx)
	s.requeue(flushCtx)

	s.log.Info("historian stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Service) readLoop(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		res, err := s.queue.BLPop(ctx, s.cfg.PopTimeout, s.cfg.QueueName).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.log.WithError(err).Error("BLPOP failed")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}
		// res[0] is the key, res[1] the payload.
		if len(res) < 2 {
			continue
		}

		var rec models.GameRecord
		if err := json.Unmarshal([]byte(res[1]), &rec); err != nil {
			s.log.WithError(err).Warn("discarding invalid game record")
			continue
		}
		if s.append(rec) {
			s.flush(ctx)
		}
	}
}

func (s *Service) flushLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.FlushDelay)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.flush(ctx)
		}
	}
}

// append adds rec to the batch and reports whether the batch is full.
func (s *Service) append(rec models.GameRecord) bool {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	s.batch = append(s.batch, rec)
	return len(s.batch) >= s.cfg.BatchSize
}

func (s *Service) flush(ctx context.Context) {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.batchMu.Lock()
	if len(s.batch) == 0 {
		s.batchMu.Unlock()
		return
	}
	pending := s.batch
	s.batch = make([]models.GameRecord, 0, s.cfg.BatchSize)
	s.batchMu.Unlock()

	if err := s.sink(ctx, pending); err != nil {
		s.log.WithError(err).WithField("records", len(pending)).Error("flush failed, will retry")
		s.batchMu.Lock()
		s.batch = append(pending, s.batch...)
		s.batchMu.Unlock()
		return
	}
	s.log.WithField("records", len(pending)).Info("flushed game records")
}

// requeue hands any unflushed records back to the queue for the next run.
func (s *Service) requeue(ctx context.Context) {
	s.batchMu.Lock()
	pending := s.batch
	s.batch = nil
	s.batchMu.Unlock()
	if len(pending) == 0 {
		return
	}

	values := make([]interface{}, 0, len(pending))
	for _, rec := range pending {
		data, err := json.Marshal(rec)
		if err != nil {
			s.log.WithError(err).WithField("game", rec.GameID).Error("dropping unencodable game record")
			continue
		}
		values = append(values, string(data))
	}
	if len(values) == 0 {
		return
	}
	if err := s.queue.RPush(ctx, s.cfg.QueueName, values...).Err(); err != nil {
		for _, rec := range pending {
			s.log.WithError(err).WithField("game", rec.GameID).Error("game record lost")
		}
		return
	}
	s.log.WithField("records", len(values)).Warn("requeued unflushed game records")
}
