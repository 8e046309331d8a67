// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/iho/goraffle/internal/infrastructure/metrics"
)

// Sweeper closes raffles whose deadline has passed.
type Sweeper interface {
	SweepExpired(ctx context.Context, limit int) (int, error)
}

// Scheduler drives the deadline sweep.
type Scheduler struct {
	cron      *cron.Cron
	sweeper   Sweeper
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	batchSize int
	timeout   time.Duration
}

// Config for Scheduler.
type Config struct {
	Sweeper   Sweeper
	Metrics   *metrics.Metrics
	Logger    zerolog.Logger
	Schedule  string // cron spec, seconds field optional
	BatchSize int
	Timeout   time.Duration // per run
}

// New creates a Scheduler and registers the sweep job.
func New(cfg Config) (*Scheduler, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = time.Minute
	}

	cronLogger := cron.PrintfLogger(&cfg.Logger)
	s := &Scheduler{
		cron: cron.New(
			cron.WithParser(cron.NewParser(cron.SecondOptional|cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow|cron.Descriptor)),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		sweeper:   cfg.Sweeper,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger.With().Str("component", "sweeper").Logger(),
		batchSize: cfg.BatchSize,
		timeout:   cfg.Timeout,
	}

	if _, err := s.cron.AddFunc(cfg.Schedule, s.sweep); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", cfg.Schedule, err)
	}

	return s, nil
}

// Start starts the cron scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.logger.Info().Msg("raffle sweep scheduled")
	s.cron.Start()
}

// Stop stops the scheduler. The returned context is done once a running
// sweep has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	closed, err := s.sweeper.SweepExpired(ctx, s.batchSize)
	if err != nil {
		s.logger.Error().Err(err).Int("closed", closed).Msg("raffle sweep failed")
		s.record("error")
		return
	}

	if closed > 0 {
		s.logger.Info().Int("closed", closed).Msg("closed expired raffles")
	}
	s.record("ok")
}

func (s *Scheduler) record(result string) {
	if s.metrics != nil {
		s.metrics.SweepRuns.WithLabelValues(result).Inc()
	}
}
