package middleware

import (
	"net/http"

	servertiming "github.com/mitchellh/go-server-timing"
)

// ServerTiming attaches a Server-Timing collector to the request context and
// writes the collected metrics as a response header.
func ServerTiming(next http.Handler) http.Handler {
	return servertiming.Middleware(next, nil)
}
