package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"condo/config"
	"condo/infras/metrics"
	"condo/infras/otel/mocks"
	bookingMocks "condo/internal/domains/booking/mocks"
	calendarMocks "condo/internal/domains/calendar/mocks"
	"condo/internal/domains/calendar/model/dto"
	"condo/transport/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newScheduler(t *testing.T, enabled bool) (*scheduler.Scheduler, *bookingMocks.MockBookingService, *calendarMocks.MockCalendarService) {
	t.Helper()

	ctrl := gomock.NewController(t)
	bookings := bookingMocks.NewMockBookingService(ctrl)
	calendar := calendarMocks.NewMockCalendarService(ctrl)

	cfg := &config.Config{}
	cfg.Scheduler.Enable = enabled
	cfg.Scheduler.ExpiryIntervalSeconds = 3600
	cfg.Scheduler.SyncIntervalSeconds = 3600
	cfg.Scheduler.CleanupIntervalSeconds = 3600

	return scheduler.New(cfg, bookings, calendar, metrics.New(), mocks.NewOtel()), bookings, calendar
}

func TestScheduler_Jobs(t *testing.T) {
	s, _, _ := newScheduler(t, true)

	names := []string{}
	for _, job := range s.Jobs() {
		names = append(names, job.Name)
		assert.Equal(t, time.Hour, job.Interval)
	}

	assert.Equal(t, []string{scheduler.JobExpiry, scheduler.JobSync, scheduler.JobCleanup}, names)
}

func TestScheduler_DefaultIntervals(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := scheduler.New(&config.Config{}, bookingMocks.NewMockBookingService(ctrl), calendarMocks.NewMockCalendarService(ctrl), metrics.New(), mocks.NewOtel())

	jobs := s.Jobs()
	require.Len(t, jobs, 3)
	assert.Equal(t, time.Minute, jobs[0].Interval)
	assert.Equal(t, 15*time.Minute, jobs[1].Interval)
	assert.Equal(t, 24*time.Hour, jobs[2].Interval)
}

func TestScheduler_StartRunsEveryJobImmediately(t *testing.T) {
	s, bookings, calendar := newScheduler(t, true)

	done := make(chan string, 3)

	bookings.EXPECT().ExpireUnpaid(gomock.Any()).DoAndReturn(func(context.Context) (int, error) {
		done <- scheduler.JobExpiry

		return 2, nil
	})
	calendar.EXPECT().Sync(gomock.Any()).DoAndReturn(func(context.Context) (dto.SyncResponse, error) {
		done <- scheduler.JobSync

		return dto.SyncResponse{Imported: 1}, nil
	})
	bookings.EXPECT().Cleanup(gomock.Any()).DoAndReturn(func(context.Context) (int, error) {
		done <- scheduler.JobCleanup

		return 0, errors.New("bucket unavailable")
	})

	s.Start(context.Background())

	seen := map[string]bool{}
	for range 3 {
		select {
		case name := <-done:
			seen[name] = true
		case <-time.After(2 * time.Second):
			t.Fatal("scheduler did not run all jobs")
		}
	}

	s.Stop()

	assert.Len(t, seen, 3)
}

func TestScheduler_Disabled(t *testing.T) {
	s, _, _ := newScheduler(t, false)

	s.Start(context.Background())
	s.Stop()
}
