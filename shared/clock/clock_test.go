package clock_test

import (
	"testing"
	"time"

	"condo/shared/clock"

	"github.com/stretchr/testify/assert"
)

func TestFixed(t *testing.T) {
	instant := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, instant, clock.Fixed(instant).Now())
}

func TestReal(t *testing.T) {
	before := time.Now()
	now := clock.New().Now()

	assert.False(t, now.Before(before.Add(-time.Second)))
}
