// Package failure carries the HTTP status and client-facing reason of an error across layers.
// Services return these; response.WithError renders them. Anything else maps to 500.
package failure

import (
	"errors"
	"net/http"
)

// Reasons let clients tell apart failures that share a status code.
const (
	ReasonValidation              = "validation"
	ReasonCapacityExceeded        = "capacity_exceeded"
	ReasonConflict                = "conflict"
	ReasonInsufficientDownpayment = "insufficient_downpayment"
	ReasonPromoRejected           = "promo_rejected"
)

type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`

	cause error
}

var (
	InvalidPageParam        = &Failure{Code: http.StatusBadRequest, Message: "invalid page parameter"}
	InvalidLimitParam       = &Failure{Code: http.StatusBadRequest, Message: "invalid limit parameter"}
	ForbiddenError          = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}
	ResourceRestrictedError = &Failure{Code: http.StatusForbidden, Message: "You don't have permission to access this resource"}
)

func (e *Failure) Error() string {
	return e.Message
}

func (e *Failure) Unwrap() error {
	return e.cause
}

func newFailure(code int, reason, msg string) error {
	return &Failure{Code: code, Message: msg, Reason: reason}
}

// BadRequest wraps err as a 400. A nil err stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return &Failure{Code: http.StatusBadRequest, Message: err.Error(), cause: err}
}

func BadRequestFromString(msg string) error {
	return newFailure(http.StatusBadRequest, "", msg)
}

// Validation is a 400 for malformed or out-of-range input.
func Validation(msg string) error {
	return newFailure(http.StatusBadRequest, ReasonValidation, msg)
}

// PromoRejected is a 400 raised when a promotion cannot be applied to a booking.
func PromoRejected(msg string) error {
	return newFailure(http.StatusBadRequest, ReasonPromoRejected, msg)
}

func Unauthorized(msg string) error {
	return newFailure(http.StatusUnauthorized, "", msg)
}

func Forbidden(msg string) error {
	return newFailure(http.StatusForbidden, "", msg)
}

func NotFound(msg string) error {
	return newFailure(http.StatusNotFound, "", msg)
}

// Conflict is a 409, mostly overlapping stays and duplicate unique keys.
func Conflict(msg string) error {
	return newFailure(http.StatusConflict, ReasonConflict, msg)
}

func CapacityExceeded(msg string) error {
	return newFailure(http.StatusUnprocessableEntity, ReasonCapacityExceeded, msg)
}

func InsufficientDownpayment(msg string) error {
	return newFailure(http.StatusUnprocessableEntity, ReasonInsufficientDownpayment, msg)
}

func GetCode(err error) int {
	if fail, ok := asFailure(err); ok {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetReason is empty for failures without a reason and for plain errors.
func GetReason(err error) string {
	if fail, ok := asFailure(err); ok {
		return fail.Reason
	}

	return ""
}

func asFailure(err error) (*Failure, bool) {
	var fail *Failure
	ok := errors.As(err, &fail)

	return fail, ok
}
