// Package notifier publishes booking lifecycle events to the event stream.
package notifier

//go:generate go run go.uber.org/mock/mockgen -source=./notifier.go -destination=../mocks/notifier_mock.go -package=mocks

import (
	"context"
	"time"

	"condo/infras/kafka"
	"condo/infras/otel"
	"condo/internal/domains/booking/model"
	"condo/shared/constant"
	"condo/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	EventCreated       = "booking.created"
	EventCancelled     = "booking.cancelled"
	EventExpired       = "booking.expired"
	EventStatusChanged = "booking.status_changed"
)

const (
	headerEvent    = "event"
	publishTimeout = 10 * time.Second
)

type Event struct {
	Type           string    `json:"type"`
	BookingID      string    `json:"booking_id"`
	RoomID         string    `json:"room_id"`
	UserID         *string   `json:"user_id,omitempty"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	PaymentStatus  string    `json:"payment_status"`
	CheckInDate    time.Time `json:"check_in_date"`
	CheckOutDate   time.Time `json:"check_out_date"`
	TotalPrice     float64   `json:"total_price"`
	Source         string    `json:"source"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func NewEvent(eventType string, booking model.Booking, previousStatus string) Event {
	return Event{
		Type:           eventType,
		BookingID:      booking.ID,
		RoomID:         booking.RoomID,
		UserID:         booking.UserID,
		Status:         booking.Status,
		PreviousStatus: previousStatus,
		PaymentStatus:  booking.PaymentStatus,
		CheckInDate:    booking.CheckInDate,
		CheckOutDate:   booking.CheckOutDate,
		TotalPrice:     booking.TotalPrice,
		Source:         booking.Source,
		OccurredAt:     timezone.Now(),
	}
}

type Notifier interface {
	Notify(ctx context.Context, events ...Event)
}

type notifierImpl struct {
	producer kafka.Producer
	otel     otel.Otel
}

func New(producer kafka.Producer, otel otel.Otel) Notifier {
	return &notifierImpl{producer: producer, otel: otel}
}

// Notify publishes in the background. Failures are logged and never reach the caller.
func (n *notifierImpl) Notify(ctx context.Context, events ...Event) {
	if len(events) == 0 {
		return
	}

	messages := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		messages = append(messages, kafka.Message{
			Key:     event.BookingID,
			Value:   event,
			Headers: map[string]string{headerEvent: event.Type},
		})
	}

	go func() {
		c, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()

		c, scope := n.otel.NewScope(c, constant.OtelEventScopeName, constant.OtelEventScopeName+".booking.Notify")
		defer scope.End()

		if err := n.producer.SendMessages(c, messages...); err != nil {
			scope.TraceError(err)
			log.Warn().Err(err).Int("events", len(messages)).Msg("failed to publish booking events")
		}
	}()
}
