package service

import (
	"context"
	"fmt"
	"time"

	"condo/internal/domains/booking/lifecycle"
	"condo/internal/domains/booking/model"
	"condo/internal/domains/booking/notifier"
	"condo/shared/constant"

	"github.com/rs/zerolog/log"
)

func (s *serviceImpl) holdExpiry() time.Duration {
	if s.cfg.Booking.HoldExpiryMinutes > 0 {
		return time.Duration(s.cfg.Booking.HoldExpiryMinutes) * time.Minute
	}

	return defaultHoldExpiry
}

func (s *serviceImpl) retention() time.Duration {
	days := s.cfg.Booking.RetentionDays
	if days <= 0 {
		days = defaultRetentionDays
	}

	return time.Duration(days) * constant.HoursPerNight * time.Hour
}

// ExpireUnpaid cancels pending holds that were never paid within the hold window. The update is a
// single statement so a payment recorded concurrently is never overwritten.
func (s *serviceImpl) ExpireUnpaid(ctx context.Context) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.ExpireUnpaid")
	defer scope.End()
	defer scope.TraceIfError(&err)

	now := s.clock.Now()

	hold := s.holdExpiry()

	expired, err := s.repo.ExpireUnpaid(ctx, lifecycle.ExpiryCutoff(now, hold), now, lifecycle.ExpiryNote(hold))
	if err != nil {
		log.Error().Err(err).Msg("failed to expire unpaid bookings")

		return 0, fmt.Errorf("failed to expire unpaid bookings: %w", err)
	}

	if len(expired) == 0 {
		return 0, nil
	}

	events := make([]notifier.Event, len(expired))
	for i, booking := range expired {
		events[i] = notifier.NewEvent(notifier.EventExpired, booking, model.StatusPending)
	}

	s.notifier.Notify(ctx, events...)
	s.invalidateLists(ctx)

	log.Info().Int("count", len(expired)).Msg("expired unpaid bookings")

	return len(expired), nil
}

func identityImages(booking model.Booking) []string {
	images := make([]string, 0, len(booking.Companions)+1)

	if booking.GuestIDImage != constant.Empty {
		images = append(images, booking.GuestIDImage)
	}

	for _, companion := range booking.Companions {
		if companion.IDImage != constant.Empty {
			images = append(images, companion.IDImage)
		}
	}

	return images
}

// Cleanup removes identity images of bookings cancelled longer ago than the retention period.
// Storage deletions are best effort; the references are cleared either way.
func (s *serviceImpl) Cleanup(ctx context.Context) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cleanup")
	defer scope.End()
	defer scope.TraceIfError(&err)

	now := s.clock.Now()

	retained, err := s.repo.ListRetained(ctx, now.Add(-s.retention()))
	if err != nil {
		log.Error().Err(err).Msg("failed to list retained identity images")

		return 0, fmt.Errorf("failed to list retained bookings: %w", err)
	}

	if len(retained) == 0 {
		return 0, nil
	}

	ids := make([]string, len(retained))

	for i, booking := range retained {
		ids[i] = booking.ID

		for _, url := range identityImages(booking) {
			if err := s.s3.DeleteByURL(ctx, url); err != nil {
				log.Error().Err(err).Str("booking_id", booking.ID).Str("url", url).Msg("failed to delete identity image")
			}
		}
	}

	if err = s.repo.ClearIdentityImages(ctx, ids, now); err != nil {
		log.Error().Err(err).Msg("failed to clear identity images")

		return 0, fmt.Errorf("failed to clear identity images: %w", err)
	}

	log.Info().Int("count", len(ids)).Msg("cleared retained identity images")

	return len(ids), nil
}
