package shared_test

import (
	"testing"
	"time"

	"condo/shared"
	"condo/shared/constant"
	"condo/shared/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertStringToBool(t *testing.T) {
	truth, falsy := true, false

	tests := []struct {
		name     string
		input    string
		expected *bool
	}{
		{name: "empty", input: "", expected: nil},
		{name: "true", input: "true", expected: &truth},
		{name: "numeric true", input: "1", expected: &truth},
		{name: "false", input: "FALSE", expected: &falsy},
		{name: "garbage", input: "random", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.ConvertStringToBool(tt.input))
		})
	}
}

func TestConvertStringToInt(t *testing.T) {
	value, err := shared.ConvertStringToInt(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, 42, value)

	_, err = shared.ConvertStringToInt("forty")
	assert.Error(t, err)
}

func TestConvertStringToFloat(t *testing.T) {
	value, err := shared.ConvertStringToFloat("0.5")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, value, 1e-9)

	_, err = shared.ConvertStringToFloat("half")
	assert.Error(t, err)
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{name: "zero total", total: 0, limit: 10, expected: 1},
		{name: "zero limit", total: 100, limit: 0, expected: 1},
		{name: "negative limit", total: 100, limit: -5, expected: 1},
		{name: "exact division", total: 100, limit: 10, expected: 10},
		{name: "remainder", total: 101, limit: 10, expected: 11},
		{name: "limit greater than total", total: 5, limit: 10, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

func TestTransformFields(t *testing.T) {
	type update struct {
		Name     string   `db:"name"`
		Capacity int      `db:"capacity"`
		IsActive *bool    `db:"is_active"`
		Price    *float64 `db:"price"`
		Ignored  string
	}

	inactive := false

	result := shared.TransformFields(update{
		Name:     "Studio A",
		IsActive: &inactive,
		Ignored:  "skip",
	}, "staff@condo.test")

	assert.Equal(t, "Studio A", result["name"])
	assert.Equal(t, false, result["is_active"])
	assert.NotContains(t, result, "capacity")
	assert.NotContains(t, result, "price")
	assert.Equal(t, "staff@condo.test", result[constant.FieldModifiedBy])
	assert.IsType(t, time.Time{}, result[constant.FieldModifiedAt])
	assert.Len(t, result, 4)
}

func TestFilterByID(t *testing.T) {
	group := shared.FilterByID("room-1", "id", "rooms")

	require.Len(t, group.Filters, 1)

	where, args := group.GetWhereClause()
	assert.Equal(t, "(rooms.id = :id)", where)
	assert.Equal(t, map[string]any{"id": "room-1"}, args)
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "rooms", shared.BuildCacheKey("rooms"))
	assert.Equal(t, "rooms:abc:busy", shared.BuildCacheKey("rooms", "abc", "busy"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10}
	filterA := shared.FilterByID("a", "id", "rooms")
	filterB := shared.FilterByID("b", "id", "rooms")

	keyA := shared.BuildCacheKeyWithQuery("rooms", params, filterA)

	assert.Equal(t, keyA, shared.BuildCacheKeyWithQuery("rooms", params, filterA))
	assert.NotEqual(t, keyA, shared.BuildCacheKeyWithQuery("rooms", params, filterB))
	assert.NotEqual(t, keyA, shared.BuildCacheKeyWithQuery("rooms", dto.QueryParams{Page: 2, Limit: 10}, filterA))
	assert.Contains(t, keyA, "rooms:")
}
