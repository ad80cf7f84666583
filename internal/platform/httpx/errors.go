package httpx

import (
	"errors"
	"net/http"

	"github.com/meridian-travel/meridian/internal/shared"
)

// statusFor maps the closed error code set to HTTP statuses. The mapping is
// total: anything uncoded lands on 500.
func statusFor(code shared.Code) int {
	switch code {
	case shared.CodeValidation:
		return http.StatusBadRequest
	case shared.CodeUnauthorized:
		return http.StatusUnauthorized
	case shared.CodeForbidden:
		return http.StatusForbidden
	case shared.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// RespondError converts a service error into the failure envelope. Internal
// causes are not echoed to the caller.
func RespondError(w http.ResponseWriter, err error) {
	code := shared.CodeOf(err)
	message := "internal error"
	var se *shared.Error
	if errors.As(err, &se) && se.Code != shared.CodeInternal {
		message = se.Message
	}
	JSON(w, statusFor(code), Envelope{
		Success: false,
		Error:   &ErrorBody{Code: string(code), Message: message},
	})
}
