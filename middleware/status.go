package middleware

import (
	"errors"
	"net/http"

	goToken "github.com/MrEthical07/goToken"
)

// StatusForError maps a Manager error onto an HTTP status. Only store outages and
// internal encoding failures are server errors; every credential problem is 401 so
// clients cannot tell why a token was refused.
func StatusForError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, goToken.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, goToken.ErrEncoding):
		return http.StatusInternalServerError
	default:
		return http.StatusUnauthorized
	}
}

// WriteError writes a generic body for err's status. A 503 carries Retry-After.
func WriteError(w http.ResponseWriter, _ *http.Request, err error) {
	status := StatusForError(err)
	switch status {
	case http.StatusServiceUnavailable:
		w.Header().Set("Retry-After", "1")
		http.Error(w, "service unavailable", status)
	case http.StatusInternalServerError:
		http.Error(w, "internal error", status)
	default:
		w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
		http.Error(w, "unauthorized", status)
	}
}
