package ngebut

import (
	"time"

	"github.com/ryanbekhen/ngebut/internal/reqcore"
)

// Config represents server configuration options.
type Config struct {
	// ReadTimeout is the maximum duration for reading the entire request, including the body.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration

	// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled.
	IdleTimeout time.Duration

	// DisableStartupMessage determines whether to print the startup message when the server starts.
	DisableStartupMessage bool

	// ErrorHandler is called when an error occurs during request processing.
	ErrorHandler Handler

	// MaxHeaderBytes bounds how many bytes of a connection's buffer the
	// wire-framing codec will scan looking for a complete request head
	// before giving up with 413 (spec.md §3 DEFAULT_BUFFER_SIZE, §4.F
	// ERROR_TOO_LARGE). Zero falls back to reqcore.DefaultBufferSize.
	MaxHeaderBytes int

	// AllowProxyProtocol enables detection and consumption of a PROXY-
	// protocol v1/v2 preamble at the very start of a connection (spec.md
	// §4.C, REQUEST_ALLOW_PROXY_REQS). Off by default: a server not
	// sitting behind a PROXY-protocol-speaking load balancer must not
	// treat a client-supplied "PROXY ..." line as an address override.
	AllowProxyProtocol bool

	// MaxURLRewrites bounds how many times a single request may be
	// internally re-dispatched by a rewrite-capable handler (spec.md §3
	// invariant 4, §4.I step 8) before the driver fails it with 500.
	// Zero falls back to reqcore.MaxURLRewrites.
	MaxURLRewrites int
}

// DefaultConfig returns a default server configuration with pre-configured timeouts
// and other settings suitable for most applications.
// The default configuration includes:
// - ReadTimeout: 5 seconds
// - WriteTimeout: 10 seconds
// - IdleTimeout: 15 seconds
// - DisableStartupMessage: false
// - ErrorHandler: default error handler
// - MaxHeaderBytes: reqcore.DefaultBufferSize (4096)
// - AllowProxyProtocol: false
// - MaxURLRewrites: reqcore.MaxURLRewrites (4)
func DefaultConfig() Config {
	return Config{
		ReadTimeout:           5 * time.Second,
		WriteTimeout:          10 * time.Second,
		IdleTimeout:           15 * time.Second,
		DisableStartupMessage: false,
		ErrorHandler:          defaultErrorHandler,
		MaxHeaderBytes:        reqcore.DefaultBufferSize,
		AllowProxyProtocol:    false,
		MaxURLRewrites:        reqcore.MaxURLRewrites,
	}
}
