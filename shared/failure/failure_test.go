package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"condo/shared/failure"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   int
		reason string
	}{
		{name: "bad request", err: failure.BadRequestFromString("bad"), code: http.StatusBadRequest},
		{name: "validation", err: failure.Validation("check-out must be after check-in"), code: http.StatusBadRequest, reason: failure.ReasonValidation},
		{name: "promo rejected", err: failure.PromoRejected("promo expired"), code: http.StatusBadRequest, reason: failure.ReasonPromoRejected},
		{name: "unauthorized", err: failure.Unauthorized("no token"), code: http.StatusUnauthorized},
		{name: "forbidden", err: failure.Forbidden("nope"), code: http.StatusForbidden},
		{name: "not found", err: failure.NotFound("room"), code: http.StatusNotFound},
		{name: "conflict", err: failure.Conflict("dates taken"), code: http.StatusConflict, reason: failure.ReasonConflict},
		{name: "capacity", err: failure.CapacityExceeded("too many adults"), code: http.StatusUnprocessableEntity, reason: failure.ReasonCapacityExceeded},
		{name: "downpayment", err: failure.InsufficientDownpayment("pay more"), code: http.StatusUnprocessableEntity, reason: failure.ReasonInsufficientDownpayment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, failure.GetCode(tt.err))
			assert.Equal(t, tt.reason, failure.GetReason(tt.err))
		})
	}
}

func TestBadRequest(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))

	cause := errors.New("malformed multipart form")
	err := failure.BadRequest(cause)

	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, err, "malformed multipart form")
}

func TestWrappedFailure(t *testing.T) {
	err := fmt.Errorf("reserve: %w", failure.Conflict("dates taken"))

	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	assert.Equal(t, failure.ReasonConflict, failure.GetReason(err))
	assert.Equal(t, "reserve: dates taken", err.Error())
}

func TestPlainError(t *testing.T) {
	err := errors.New("plain")

	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	assert.Empty(t, failure.GetReason(err))
}

func TestPredefinedFailures(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, failure.InvalidPageParam.Code)
	assert.Equal(t, http.StatusBadRequest, failure.InvalidLimitParam.Code)
	assert.Equal(t, http.StatusForbidden, failure.ForbiddenError.Code)
	assert.Equal(t, http.StatusForbidden, failure.ResourceRestrictedError.Code)
}
