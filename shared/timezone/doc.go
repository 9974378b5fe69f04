// Package timezone pins every booking date to the property's wall clock.
//
// Stays are stored as instants but priced, blocked and displayed per calendar day. A day is
// identified by its date key (YYYY-MM-DD) in the property location, which is read once from
// APP_TIMEZONE (an IANA name such as "Asia/Manila") and falls back to UTC.
//
//	key := timezone.DateKey(booking.CheckInDate, nil)   // "2025-03-02"
//	day, err := timezone.ParseDateKey(key, nil)          // midnight in the property location
//	start := timezone.StartOfDay(timezone.Now(), nil)
//
// Functions taking a *time.Location use the property location when it is nil.
package timezone
