package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string         `json:"error_code"`
	Message string         `json:"message"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// businessStatus maps a business code to its HTTP status.
var businessStatus = map[string]int{
	CodeSlotExpired:     http.StatusUnprocessableEntity,
	CodeInvalidUnits:    http.StatusBadRequest,
	CodeSlotFull:        http.StatusConflict,
	CodeQuotaExceeded:   http.StatusUnprocessableEntity,
	CodeBookingNotFound: http.StatusNotFound,
	CodeSlotNotFound:    http.StatusNotFound,
	CodeForbidden:       http.StatusForbidden,
	CodeInvalidState:    http.StatusUnprocessableEntity,
}

var businessMessage = map[string]string{
	CodeSlotExpired:     "This time slot has already ended.",
	CodeInvalidUnits:    "The requested number of units is not allowed for this resource.",
	CodeSlotFull:        "This time slot is fully booked.",
	CodeQuotaExceeded:   "Booking quota exceeded for this resource.",
	CodeBookingNotFound: "Booking not found or no longer active.",
	CodeSlotNotFound:    "Time slot not found.",
	CodeForbidden:       "You are not allowed to modify this booking.",
	CodeInvalidState:    "The booking is not in a state that allows this operation.",
}

// WriteBusiness renders a BusinessError with its mapped status and message.
// Non-business errors fall back to an opaque 500.
func WriteBusiness(c *gin.Context, err error) {
	be, ok := AsBusiness(err)
	if !ok {
		Internal(c, "internal_error", "Unexpected error.")
		return
	}

	status, ok := businessStatus[be.Code]
	if !ok {
		status = http.StatusBadRequest
	}

	msg, ok := businessMessage[be.Code]
	if !ok {
		msg = be.Code
	}

	c.JSON(status, HTTPError{
		Code:    be.Code,
		Message: msg,
		Meta:    be.Meta,
	})
}
