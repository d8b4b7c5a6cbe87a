package booking

import "github.com/studentato/dorm-booking/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusBooked    Status = "booked"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// Both terminal states are final; nothing transitions back to booked.

func CanCancel(current Status) error {
	if current != StatusBooked {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}

func CanMarkNoShow(current Status) error {
	if current != StatusBooked {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}

func InitialStatus() Status {
	return StatusBooked
}
