package dto

import (
	"errors"
	"fmt"
	"time"

	"condo/shared/constant"
	"condo/shared/timezone"
)

var errRangeOrder = errors.New("end must be after start")

var (
	defaultRangeStart = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	defaultRangeEnd   = time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC)
)

// EventsRequest is the visible range of the admin calendar. Either bound may be a date key or RFC3339.
type EventsRequest struct {
	Start string `json:"start" validate:"omitempty"`
	End   string `json:"end"   validate:"omitempty"`
}

func parseBound(value string, fallback time.Time) (time.Time, error) {
	if value == constant.Empty {
		return fallback, nil
	}

	if parsed, err := time.Parse(constant.DateFormat, value); err == nil {
		return parsed, nil
	}

	parsed, err := timezone.ParseDateKey(value, nil)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid range bound %q", value)
	}

	return parsed, nil
}

func (r EventsRequest) Range() (from, to time.Time, err error) {
	if from, err = parseBound(r.Start, defaultRangeStart); err != nil {
		return from, to, err
	}

	if to, err = parseBound(r.End, defaultRangeEnd); err != nil {
		return from, to, err
	}

	if !to.After(from) {
		return from, to, errRangeOrder
	}

	return from, to, nil
}

type EventResponse struct {
	Title           string `json:"title"`
	Start           string `json:"start"`
	End             string `json:"end,omitempty"`
	AllDay          bool   `json:"allDay,omitempty"`
	Display         string `json:"display,omitempty"`
	Color           string `json:"color,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	TextColor       string `json:"textColor,omitempty"`
	BookingID       string `json:"booking_id,omitempty"`
}

type SyncResponse struct {
	Rooms     int `json:"rooms"`
	Feeds     int `json:"feeds"`
	Imported  int `json:"imported"`
	Skipped   int `json:"skipped"`
	Conflicts int `json:"conflicts"`
	Failed    int `json:"failed"`
}
