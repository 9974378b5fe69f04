package ical

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/rs/zerolog/log"
)

// Feed is an outbound calendar. Events carry no guest data.
type Feed struct {
	ProductID string
	Name      string
	Timezone  string
	Events    []Event
}

func (f Feed) Encode(stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(f.ProductID)
	cal.SetXWRCalName(f.Name)

	if f.Timezone != "" {
		cal.SetXWRTimezone(f.Timezone)
	}

	for _, event := range f.Events {
		vevent := cal.AddEvent(event.UID)
		vevent.SetDtStampTime(stamp)
		vevent.SetStartAt(event.Start)
		vevent.SetEndAt(event.End)
		vevent.SetSummary(event.Summary)
	}

	return cal.Serialize()
}

// Parse keeps events with a UID and a readable start and end. Platforms publish all-day dates as
// well as timestamps, both are accepted.
func Parse(r io.Reader) ([]Event, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse calendar: %w", err)
	}

	events := make([]Event, 0, len(cal.Events()))

	for _, vevent := range cal.Events() {
		uid := vevent.Id()
		if uid == "" {
			continue
		}

		start, err := startOf(vevent)
		if err != nil {
			log.Warn().Err(err).Str("uid", uid).Msg("skipping event without a start")

			continue
		}

		end, err := endOf(vevent)
		if err != nil {
			log.Warn().Err(err).Str("uid", uid).Msg("skipping event without an end")

			continue
		}

		event := Event{UID: uid, Start: start, End: end}
		if summary := vevent.GetProperty(ics.ComponentPropertySummary); summary != nil {
			event.Summary = summary.Value
		}

		events = append(events, event)
	}

	return events, nil
}

func startOf(vevent *ics.VEvent) (time.Time, error) {
	if start, err := vevent.GetStartAt(); err == nil {
		return start, nil
	}

	return vevent.GetAllDayStartAt() //nolint:wrapcheck
}

func endOf(vevent *ics.VEvent) (time.Time, error) {
	if end, err := vevent.GetEndAt(); err == nil {
		return end, nil
	}

	return vevent.GetAllDayEndAt() //nolint:wrapcheck
}
