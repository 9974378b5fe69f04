package timezone_test

import (
	"testing"
	"time"

	"condo/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNowAndLocation(t *testing.T) {
	assert.False(t, timezone.Now().IsZero())
	assert.NotNil(t, timezone.GetLocation())
	assert.NotNil(t, timezone.ToAppTime(time.Now().UTC()).Location())
}

func TestFormatAndParse(t *testing.T) {
	formatted := timezone.Format(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), "2006-01-02 15:04:05 MST")
	assert.NotEmpty(t, formatted)

	parsed, err := timezone.Parse("2006-01-02", "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 2024, parsed.Year())
}

func TestDateKey(t *testing.T) {
	manila, err := time.LoadLocation("Asia/Manila")
	require.NoError(t, err)

	// 2025-03-01 20:00 UTC is already 2025-03-02 in Manila.
	instant := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-03-01", timezone.DateKey(instant, time.UTC))
	assert.Equal(t, "2025-03-02", timezone.DateKey(instant, manila))
}

func TestParseDateKey(t *testing.T) {
	manila, err := time.LoadLocation("Asia/Manila")
	require.NoError(t, err)

	day, err := timezone.ParseDateKey("2025-03-02", manila)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, manila), day)

	_, err = timezone.ParseDateKey("02/03/2025", manila)
	assert.Error(t, err)
}

func TestStartOfDay(t *testing.T) {
	manila, err := time.LoadLocation("Asia/Manila")
	require.NoError(t, err)

	start := timezone.StartOfDay(time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC), manila)
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, manila), start)
}

func TestLoad(t *testing.T) {
	previous := timezone.GetLocation()
	t.Cleanup(func() { require.NoError(t, timezone.Load(previous.String())) })

	require.NoError(t, timezone.Load("Asia/Manila"))
	assert.Equal(t, "Asia/Manila", timezone.GetLocation().String())
	assert.Equal(t, "2025-03-02", timezone.DateKey(time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC), nil))

	assert.Error(t, timezone.Load("Mars/Olympus"))
	assert.Equal(t, "Asia/Manila", timezone.GetLocation().String())
}
