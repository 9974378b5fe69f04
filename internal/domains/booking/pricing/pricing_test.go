package pricing_test

import (
	"testing"
	"time"

	"condo/internal/domains/booking/pricing"
	promoModel "condo/internal/domains/promotion/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func manila(t *testing.T) *time.Location {
	t.Helper()

	loc, err := time.LoadLocation("Asia/Manila")
	require.NoError(t, err)

	return loc
}

func TestComputeStayWindow(t *testing.T) {
	loc := manila(t)
	policy := pricing.Policy{StandardStayHours: 22, CleaningBufferHours: 2}
	checkIn := time.Date(2025, 2, 14, 14, 0, 0, 0, loc)

	b1t1 := &promoModel.Promotion{
		Name:           "Valentine B1T1",
		Type:           promoModel.TypeExtension,
		ExtensionHours: 24,
		EligibleDates:  []string{"2025-02-14"},
	}

	tests := []struct {
		name         string
		checkIn      time.Time
		promo        *promoModel.Promotion
		wantHours    int
		wantApplied  bool
		wantCheckOut time.Time
	}{
		{
			name:         "no promotion",
			checkIn:      checkIn,
			wantHours:    22,
			wantCheckOut: time.Date(2025, 2, 15, 12, 0, 0, 0, loc),
		},
		{
			name:         "extension on eligible date",
			checkIn:      checkIn,
			promo:        b1t1,
			wantHours:    46,
			wantApplied:  true,
			wantCheckOut: time.Date(2025, 2, 16, 12, 0, 0, 0, loc),
		},
		{
			name:         "extension off eligible date",
			checkIn:      checkIn.AddDate(0, 0, 1),
			promo:        b1t1,
			wantHours:    22,
			wantCheckOut: time.Date(2025, 2, 16, 12, 0, 0, 0, loc),
		},
		{
			name:         "percentage promo marks applied without extending",
			checkIn:      checkIn,
			promo:        &promoModel.Promotion{Name: "Hearts", Type: promoModel.TypePercentage, EligibleDates: []string{"2025-02-14"}},
			wantHours:    22,
			wantApplied:  true,
			wantCheckOut: time.Date(2025, 2, 15, 12, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window := pricing.ComputeStayWindow(tt.checkIn, policy, tt.promo, loc)

			assert.Equal(t, tt.wantHours, window.DurationHours)
			assert.Equal(t, tt.wantApplied, window.PromoApplied)
			assert.True(t, tt.wantCheckOut.Equal(window.CheckOut), "checkout %s", window.CheckOut)
			assert.True(t, window.BufferEnd.Equal(window.CheckOut.Add(2*time.Hour)))
		})
	}
}

func TestComputeStayWindow_LocalDateBoundary(t *testing.T) {
	loc := manila(t)
	promo := &promoModel.Promotion{Type: promoModel.TypeExtension, ExtensionHours: 24, EligibleDates: []string{"2025-03-02"}}

	// 17:00 UTC on Mar 1 is 01:00 on Mar 2 in Manila.
	window := pricing.ComputeStayWindow(time.Date(2025, 3, 1, 17, 0, 0, 0, time.UTC), pricing.Policy{StandardStayHours: 22}, promo, loc)

	assert.True(t, window.PromoApplied)
	assert.Equal(t, 46, window.DurationHours)
}

func TestNights(t *testing.T) {
	base := time.Date(2025, 1, 1, 14, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, pricing.Nights(base, base.Add(22*time.Hour)))
	assert.Equal(t, 1, pricing.Nights(base, base.Add(24*time.Hour)))
	assert.Equal(t, 2, pricing.Nights(base, base.Add(46*time.Hour)))
	assert.Equal(t, 3, pricing.Nights(base, base.Add(72*time.Hour)))
	assert.Equal(t, 1, pricing.Nights(base, base))
}

func TestPrice(t *testing.T) {
	breakdown := pricing.Price(3, 2500, 2500, 500)

	assert.InDelta(t, 7500, breakdown.Subtotal, 0.001)
	assert.InDelta(t, 5500, breakdown.Total, 0.001)

	clamped := pricing.Price(1, 1000, 5000, 0)
	assert.InDelta(t, 1000, clamped.Discount, 0.001)
	assert.InDelta(t, 0, clamped.Total, 0.001)
}
