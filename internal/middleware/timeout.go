package middleware

import (
	"net/http"
	"time"
)

// Timeout bounds JSON API handlers. It buffers the response, so it must
// not wrap websocket or streaming routes.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	message := `{"error":"La solicitud tardo demasiado.","code":"REQUEST_TIMEOUT"}`

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, message)
	}
}
