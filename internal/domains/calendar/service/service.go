package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Calendar=MockCalendarService

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"condo/config"
	"condo/infras/ical"
	"condo/infras/metrics"
	"condo/infras/otel"
	bookingModel "condo/internal/domains/booking/model"
	bookingRepo "condo/internal/domains/booking/repository"
	"condo/internal/domains/calendar/model/dto"
	promoModel "condo/internal/domains/promotion/model"
	promoRepo "condo/internal/domains/promotion/repository"
	roomModel "condo/internal/domains/room/model"
	roomRepo "condo/internal/domains/room/repository"
	"condo/shared"
	"condo/shared/clock"
	"condo/shared/constant"
	gDto "condo/shared/dto"
	"condo/shared/failure"
	gModel "condo/shared/model"
	"condo/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	exportSummary   = "Reserved"
	blockerPhone    = "N/A"
	syncActor       = "system:calendar-sync"
	defaultWorkers  = 4
	promoEventColor = "#20c997"
)

var statusColors = map[string][2]string{
	bookingModel.StatusPending:   {"#0d6efd", "white"},
	bookingModel.StatusConfirmed: {"#ffc107", "black"},
	bookingModel.StatusCompleted: {"#198754", "white"},
}

type Calendar interface {
	Export(ctx context.Context, roomID string) (string, error)
	Sync(ctx context.Context) (dto.SyncResponse, error)
	Events(ctx context.Context, req dto.EventsRequest) ([]dto.EventResponse, error)
}

type serviceImpl struct {
	rooms    roomRepo.Room
	bookings bookingRepo.Booking
	promos   promoRepo.Promotion
	fetcher  ical.Fetcher
	clock    clock.Clock
	metrics  *metrics.Metrics
	cfg      *config.Config
	otel     otel.Otel
}

func New(
	rooms roomRepo.Room,
	bookings bookingRepo.Booking,
	promos promoRepo.Promotion,
	fetcher ical.Fetcher,
	clock clock.Clock,
	metrics *metrics.Metrics,
	cfg *config.Config,
	otel otel.Otel,
) Calendar {
	return &serviceImpl{
		rooms:    rooms,
		bookings: bookings,
		promos:   promos,
		fetcher:  fetcher,
		clock:    clock,
		metrics:  metrics,
		cfg:      cfg,
		otel:     otel,
	}
}

// Export renders the room's confirmed and completed stays. Pending holds are not published.
func (s *serviceImpl) Export(ctx context.Context, roomID string) (res string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".calendar.Export")
	defer scope.End()
	defer scope.TraceIfError(&err)

	room, err := s.rooms.Get(ctx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound("room not found")
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: bookingModel.FieldRoomID, Value: room.ID, Operator: gDto.FilterOperatorEq, Table: bookingModel.TableName},
			gDto.Filter{
				Field:    bookingModel.FieldStatus,
				Value:    []string{bookingModel.StatusConfirmed, bookingModel.StatusCompleted},
				Operator: gDto.FilterOperatorIn,
				Table:    bookingModel.TableName,
			},
		},
	}
	params := gDto.QueryParams{SortBy: bookingModel.TableName + "." + bookingModel.FieldCheckInDate, SortDir: gDto.SortDirAsc}

	bookings, err := s.bookings.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list bookings for export")

		return res, fmt.Errorf("failed to list bookings: %w", err)
	}

	feed := ical.Feed{
		ProductID: s.cfg.Calendar.ProductID,
		Name:      room.Name,
		Timezone:  timezone.GetLocation().String(),
		Events:    make([]ical.Event, 0, len(bookings)),
	}

	for _, booking := range bookings {
		feed.Events = append(feed.Events, ical.Event{
			UID:     booking.ID,
			Summary: exportSummary,
			Start:   booking.CheckInDate,
			End:     booking.CheckOutDate,
		})
	}

	return feed.Encode(s.clock.Now()), nil
}

type syncTally struct {
	mu  sync.Mutex
	res dto.SyncResponse
}

func (t *syncTally) add(fn func(res *dto.SyncResponse)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fn(&t.res)
}

// Sync imports every configured platform feed of every active room. A failing feed is logged and
// counted, it never stops the run.
func (s *serviceImpl) Sync(ctx context.Context) (res dto.SyncResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".calendar.Sync")
	defer scope.End()
	defer scope.TraceIfError(&err)

	rooms, err := s.rooms.GetActive(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list rooms for calendar sync")

		return res, fmt.Errorf("failed to list rooms: %w", err)
	}

	workers := s.cfg.Calendar.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	tally := &syncTally{}
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for _, room := range rooms {
		feeds := room.Feeds()
		if len(feeds) == 0 {
			continue
		}

		tally.add(func(res *dto.SyncResponse) {
			res.Rooms++
			res.Feeds += len(feeds)
		})

		for platform, url := range feeds {
			group.Go(func() error {
				s.syncFeed(groupCtx, room.ID, platform, url, tally)

				return groupCtx.Err()
			})
		}
	}

	if err = group.Wait(); err != nil {
		return tally.res, fmt.Errorf("calendar sync interrupted: %w", err)
	}

	log.Info().
		Int("rooms", tally.res.Rooms).
		Int("imported", tally.res.Imported).
		Int("conflicts", tally.res.Conflicts).
		Int("failed", tally.res.Failed).
		Msg("calendar sync complete")

	return tally.res, nil
}

func (s *serviceImpl) syncFeed(ctx context.Context, roomID, platform, url string, tally *syncTally) {
	events, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Str("platform", platform).Msg("failed to fetch calendar feed")
		s.metrics.ObserveCalendarEvent(platform, metrics.ResultFailed)
		tally.add(func(res *dto.SyncResponse) { res.Failed++ })

		return
	}

	for _, event := range events {
		result := s.importEvent(ctx, roomID, platform, event)
		s.metrics.ObserveCalendarEvent(platform, result)

		tally.add(func(res *dto.SyncResponse) {
			switch result {
			case metrics.ResultImported:
				res.Imported++
			case metrics.ResultSkipped:
				res.Skipped++
			case metrics.ResultConflict:
				res.Conflicts++
			default:
				res.Failed++
			}
		})
	}
}

func externalIDFilter(uid string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: bookingModel.FieldExternalID, Value: uid, Operator: gDto.FilterOperatorEq, Table: bookingModel.TableName},
		},
	}
}

// importEvent reserves a blocker through the same locked path guest bookings use.
func (s *serviceImpl) importEvent(ctx context.Context, roomID, platform string, event ical.Event) string {
	logger := log.With().Str("room_id", roomID).Str("platform", platform).Str("uid", event.UID).Logger()

	if !event.End.After(event.Start) {
		logger.Warn().Msg("skipping event with an empty window")

		return metrics.ResultSkipped
	}

	exists, err := s.bookings.Exist(ctx, externalIDFilter(event.UID))
	if err != nil {
		logger.Error().Err(err).Msg("failed to look up external event")

		return metrics.ResultFailed
	}

	if exists {
		return metrics.ResultSkipped
	}

	uid := event.UID
	blocker := bookingModel.Booking{
		ID:            uuid.NewString(),
		RoomID:        roomID,
		CheckInDate:   event.Start,
		CheckOutDate:  event.End,
		GuestPhone:    blockerPhone,
		Status:        bookingModel.StatusConfirmed,
		PaymentStatus: bookingModel.PaymentPaid,
		Source:        platform,
		ExternalID:    &uid,
		AdminNotes:    "Synced from " + strings.ToUpper(platform),
		Metadata:      gModel.NewMetadata(syncActor, s.clock.Now()),
	}

	err = s.bookings.Reserve(ctx, blocker)

	switch {
	case err == nil:
		logger.Info().Msg("imported external booking")

		return metrics.ResultImported
	case errors.Is(err, bookingRepo.ErrDuplicateExternalID):
		return metrics.ResultSkipped
	case errors.Is(err, bookingRepo.ErrRoomUnavailable):
		logger.Warn().Msg("room stopped accepting bookings during sync")

		return metrics.ResultSkipped
	case errors.Is(err, bookingRepo.ErrDatesUnavailable):
		logger.Warn().Time("check_in", event.Start).Time("check_out", event.End).Msg("external booking overlaps a local booking")

		return metrics.ResultConflict
	default:
		logger.Error().Err(err).Msg("failed to import external booking")

		return metrics.ResultFailed
	}
}

// Events feeds the staff calendar: stays in range plus active promotion dates as background markers.
func (s *serviceImpl) Events(ctx context.Context, req dto.EventsRequest) (res []dto.EventResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".calendar.Events")
	defer scope.End()
	defer scope.TraceIfError(&err)

	from, to, err := req.Range()
	if err != nil {
		return nil, failure.Validation(err.Error())
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: bookingModel.FieldStatus, Value: bookingModel.ActiveStatuses, Operator: gDto.FilterOperatorIn, Table: bookingModel.TableName},
			gDto.Filter{ArgName: "range_end", Field: bookingModel.FieldCheckInDate, Value: to, Operator: gDto.FilterOperatorLess, Table: bookingModel.TableName},
			gDto.Filter{ArgName: "range_start", Field: bookingModel.FieldCheckOutDate, Value: from, Operator: gDto.FilterOperatorGreater, Table: bookingModel.TableName},
		},
	}

	bookings, err := s.bookings.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list bookings for calendar")

		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	promos, err := s.promos.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: promoModel.FieldIsActive, Value: true, Operator: gDto.FilterOperatorEq, Table: promoModel.TableName},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to list promotions for calendar")

		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}

	res = make([]dto.EventResponse, 0, len(bookings))

	for _, booking := range bookings {
		res = append(res, bookingEvent(booking))
	}

	return append(res, promoEvents(promos, from, to)...), nil
}

func bookingEvent(booking bookingModel.Booking) dto.EventResponse {
	room, guest := "Unknown", "Guest"
	if booking.RoomName != nil {
		room = *booking.RoomName
	}

	if booking.GuestFirstName != nil && *booking.GuestFirstName != constant.Empty {
		guest = *booking.GuestFirstName
	} else if booking.ExternalID != nil {
		guest = strings.ToUpper(booking.Source)
	}

	colors := statusColors[booking.Status]

	return dto.EventResponse{
		Title:     room + " - " + guest,
		Start:     timezone.Format(booking.CheckInDate, constant.DateFormat),
		End:       timezone.Format(booking.CheckOutDate, constant.DateFormat),
		Color:     colors[0],
		TextColor: colors[1],
		BookingID: booking.ID,
	}
}

func promoEvents(promos []promoModel.Promotion, from, to time.Time) []dto.EventResponse {
	var events []dto.EventResponse

	for _, promo := range promos {
		for _, key := range promo.EligibleDates {
			day, err := timezone.ParseDateKey(key, nil)
			if err != nil || day.Before(timezone.StartOfDay(from, nil)) || day.After(to) {
				continue
			}

			events = append(events, dto.EventResponse{
				Title:           "PROMO: " + promo.Code,
				Start:           key,
				AllDay:          true,
				Display:         "background",
				BackgroundColor: promoEventColor,
			})
		}
	}

	return events
}
