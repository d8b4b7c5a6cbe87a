package httperr

import "errors"

// Business error codes returned by the booking engine.
const (
	CodeSlotExpired     = "slot_expired"
	CodeInvalidUnits    = "invalid_units"
	CodeSlotFull        = "slot_full"
	CodeQuotaExceeded   = "quota_exceeded"
	CodeBookingConflict = "booking_conflict"
	CodeBookingNotFound = "booking_not_found"
	CodeSlotNotFound    = "slot_not_found"
	CodeForbidden       = "forbidden"
	CodeInvalidState    = "invalid_state"
)

type BusinessError struct {
	Code string
	Meta map[string]any
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// ErrBusinessMeta attaches structured detail (e.g. quota limit and current
// usage) so callers can build an actionable message.
func ErrBusinessMeta(code string, meta map[string]any) error {
	return BusinessError{Code: code, Meta: meta}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}
