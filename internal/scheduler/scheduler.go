// Package scheduler implements the per-source poll loop: select stale work,
// fan out processing, record outcomes, back off, repeat.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goodwatch/goodwatch-crawler/internal/clock"
	"github.com/goodwatch/goodwatch-crawler/internal/datasource"
	"github.com/goodwatch/goodwatch-crawler/internal/metrics"
)

// Scheduler drives data sources forward forever. Batches are strictly
// sequential; items within a batch run concurrently, bounded by the
// source's batch size.
type Scheduler struct {
	selector datasource.BatchSelector
	logger   *zap.Logger
	clock    clock.Clock
	sleep    func(ctx context.Context, d time.Duration)
}

// New builds a Scheduler using the given batch selector.
func New(selector datasource.BatchSelector, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		selector: selector,
		logger:   logger,
		clock:    clock.System{},
		sleep:    sleepCtx,
	}
}

// Run loops until the context is canceled. The loop never terminates on
// error; failures only change how long it sleeps before the next cycle.
func (s *Scheduler) Run(ctx context.Context, src datasource.DataSource) error {
	cfg := src.Config()
	logger := s.logger.With(zap.String("data_source", cfg.Name))
	logger.Info("data source started",
		zap.Int("batch_size", cfg.BatchSize),
		zap.Bool("media_scoped", cfg.MediaScoped),
	)

	for {
		if err := ctx.Err(); err != nil {
			logger.Info("data source stopped")
			return err
		}
		if media, ok := src.(datasource.MediaDataSource); ok && cfg.MediaScoped {
			s.runMediaCycle(ctx, media, cfg, logger)
		} else {
			s.runGlobalCycle(ctx, src, cfg, logger)
		}
	}
}

func (s *Scheduler) runMediaCycle(
	ctx context.Context,
	src datasource.MediaDataSource,
	cfg datasource.Config,
	logger *zap.Logger,
) {
	items, err := s.selector.SelectBatch(ctx, cfg)
	if err != nil {
		logger.Error("batch selection failed", zap.Error(err))
		s.sleep(ctx, cfg.BatchDelay)
		return
	}
	if len(items) == 0 {
		s.sleep(ctx, cfg.RetryInterval)
		return
	}

	batchID := uuid.NewString()
	logger.Debug("processing batch", zap.String("batch_id", batchID), zap.Int("items", len(items)))
	start := s.clock.Now()

	// Every item runs to completion and records its own outcome; a failing
	// sibling never aborts the rest of the batch.
	errs := make([]error, len(items))
	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item datasource.WorkItem) {
			defer wg.Done()
			errs[i] = s.processItem(ctx, src, cfg, item, logger)
		}(i, item)
	}
	wg.Wait()

	failed := 0
	rateLimited := false
	for _, err := range errs {
		if err == nil {
			continue
		}
		failed++
		if datasource.IsRateLimited(err) {
			rateLimited = true
		}
	}
	metrics.ObserveBatch(cfg.Name, s.clock.Now().Sub(start))
	logger.Info("batch finished",
		zap.String("batch_id", batchID),
		zap.Int("items", len(items)),
		zap.Int("failed", failed),
	)

	if rateLimited {
		logger.Warn("rate limit reached, backing off", zap.Duration("delay", cfg.RateLimitDelay))
		s.sleep(ctx, cfg.RateLimitDelay)
		return
	}
	s.sleep(ctx, cfg.BatchDelay)
}

func (s *Scheduler) processItem(
	ctx context.Context,
	src datasource.MediaDataSource,
	cfg datasource.Config,
	item datasource.WorkItem,
	logger *zap.Logger,
) error {
	err := src.ProcessMedia(ctx, item)
	if err == nil {
		metrics.ObserveItem(cfg.Name, "ok")
		return nil
	}

	metrics.ObserveItem(cfg.Name, "failed")
	logger.Warn("item processing failed",
		zap.Int("tmdb_id", item.TmdbID),
		zap.Int("media_type_id", item.MediaTypeID),
		zap.Error(err),
	)
	update := datasource.StatusUpdate{
		TmdbID:      item.TmdbID,
		MediaTypeID: item.MediaTypeID,
		Status:      datasource.StatusFailed,
		Timestamp:   s.clock.Now(),
	}
	if statusErr := src.UpdateStatus(ctx, update); statusErr != nil {
		logger.Error("failure status update failed",
			zap.Int("tmdb_id", item.TmdbID),
			zap.Error(statusErr),
		)
	}
	return err
}

func (s *Scheduler) runGlobalCycle(
	ctx context.Context,
	src datasource.DataSource,
	cfg datasource.Config,
	logger *zap.Logger,
) {
	if err := src.Process(ctx); err != nil {
		metrics.ObserveItem(cfg.Name, "failed")
		logger.Error("processing failed", zap.Error(err))
		update := datasource.StatusUpdate{
			Status:    datasource.StatusFailed,
			Timestamp: s.clock.Now(),
		}
		if statusErr := src.UpdateStatus(ctx, update); statusErr != nil {
			logger.Error("failure status update failed", zap.Error(statusErr))
		}
		if datasource.IsRateLimited(err) {
			logger.Warn("rate limit reached, backing off", zap.Duration("delay", cfg.RateLimitDelay))
			s.sleep(ctx, cfg.RateLimitDelay)
			return
		}
		s.sleep(ctx, cfg.BatchDelay)
		return
	}
	metrics.ObserveItem(cfg.Name, "ok")
	s.sleep(ctx, cfg.BatchDelay)
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
