package timezone

import (
	"sync/atomic"
	"time"

	"condo/config"

	"github.com/rs/zerolog/log"
)

const dateKeyLayout = "2006-01-02"

var location atomic.Pointer[time.Location]

func init() {
	name := config.Get().App.Timezone
	if name == "" {
		name = "UTC"
	}

	if err := Load(name); err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Unknown timezone, falling back to UTC")
		location.Store(time.UTC)

		return
	}

	log.Info().Str("timezone", name).Msg("Property timezone loaded")
}

// Load replaces the property location with the named IANA zone.
func Load(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}

	location.Store(loc)

	return nil
}

func GetLocation() *time.Location {
	if loc := location.Load(); loc != nil {
		return loc
	}

	return time.UTC
}

func Now() time.Time {
	return time.Now().In(GetLocation())
}

func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// Parse reads value as wall-clock time in the property location.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, GetLocation())
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}

func orDefault(loc *time.Location) *time.Location {
	if loc == nil {
		return GetLocation()
	}

	return loc
}

// DateKey renders the calendar day t falls on in loc.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(orDefault(loc)).Format(dateKeyLayout)
}

// ParseDateKey returns midnight of a YYYY-MM-DD key in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateKeyLayout, key, orDefault(loc))
}

func StartOfDay(t time.Time, loc *time.Location) time.Time {
	loc = orDefault(loc)
	local := t.In(loc)

	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
