// Package httpserver owns the campushire HTTP server defaults so main and
// tests configure the lifecycle in one place.
package httpserver

import (
	"net/http"
	"time"
)

// ShutdownTimeout bounds graceful shutdown; chi's per-request timeout
// middleware is shorter, so in-flight requests drain well within it.
const ShutdownTimeout = 10 * time.Second

// New builds the API server. Header reads are bounded so idle or trickling
// clients cannot pin connections before routing.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
