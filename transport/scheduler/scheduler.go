// Package scheduler runs the periodic booking maintenance jobs: hold expiry, calendar sync and retention cleanup.
package scheduler

import (
	"context"
	"sync"
	"time"

	"condo/config"
	"condo/infras/metrics"
	"condo/infras/otel"
	bookingService "condo/internal/domains/booking/service"
	calendarService "condo/internal/domains/calendar/service"
	"condo/shared/constant"

	"github.com/rs/zerolog/log"
)

const (
	JobExpiry  = "expiry"
	JobSync    = "calendar_sync"
	JobCleanup = "cleanup"
)

type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) (int, error)
}

type Scheduler struct {
	jobs    []Job
	enabled bool
	metrics *metrics.Metrics
	otel    otel.Otel

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func seconds(value, fallback int) time.Duration {
	if value <= 0 {
		value = fallback
	}

	return time.Duration(value) * time.Second
}

func New(
	cfg *config.Config,
	bookings bookingService.Booking,
	calendar calendarService.Calendar,
	metrics *metrics.Metrics,
	otel otel.Otel,
) *Scheduler {
	return &Scheduler{
		enabled: cfg.Scheduler.Enable,
		metrics: metrics,
		otel:    otel,
		jobs: []Job{
			{Name: JobExpiry, Interval: seconds(cfg.Scheduler.ExpiryIntervalSeconds, 60), Run: bookings.ExpireUnpaid},
			{
				Name:     JobSync,
				Interval: seconds(cfg.Scheduler.SyncIntervalSeconds, 900),
				Run: func(ctx context.Context) (int, error) {
					res, err := calendar.Sync(ctx)

					return res.Imported, err
				},
			},
			{Name: JobCleanup, Interval: seconds(cfg.Scheduler.CleanupIntervalSeconds, 86400), Run: bookings.Cleanup},
		},
	}
}

func (s *Scheduler) Jobs() []Job {
	return s.jobs
}

// Start runs every job once immediately and then on its own ticker. A job never overlaps itself.
func (s *Scheduler) Start(ctx context.Context) {
	if !s.enabled {
		log.Info().Msg("Scheduler disabled.")

		return
	}

	ctx, s.cancel = context.WithCancel(ctx)

	for _, job := range s.jobs {
		s.wg.Add(1)

		go s.loop(ctx, job)
	}

	log.Info().Int("jobs", len(s.jobs)).Msg("Scheduler started.")
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	s.Execute(ctx, job)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Execute(ctx, job)
		}
	}
}

// Execute runs a single job pass and records its outcome.
func (s *Scheduler) Execute(ctx context.Context, job Job) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelSchedulerScopeName, constant.OtelSchedulerScopeName+"."+job.Name)
	defer scope.End()

	start := time.Now()

	processed, err := job.Run(ctx)
	s.metrics.ObserveJob(job.Name, processed, time.Since(start), err)

	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("job", job.Name).Msg("scheduled job failed")

		return
	}

	if processed > 0 {
		log.Info().Str("job", job.Name).Int("processed", processed).Msg("scheduled job finished")
	}
}

// Stop cancels the loops and waits for in-flight passes to return.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}

	s.cancel()
	s.wg.Wait()

	log.Info().Msg("Scheduler stopped.")
}
