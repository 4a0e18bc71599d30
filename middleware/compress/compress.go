// Package compress gzip-encodes response bodies for clients that
// advertise support for it in Accept-Encoding.
package compress

import (
	"bytes"
	"strconv"

	"github.com/klauspost/compress/gzip"
	"github.com/ryanbekhen/ngebut"
	"github.com/ryanbekhen/ngebut/internal/reqcore"
)

// Config represents the configuration for the compress middleware.
type Config struct {
	// Level is the gzip compression level, one of the gzip.*Compression
	// constants. Default is gzip.DefaultCompression.
	Level int

	// MinLength is the smallest response body, in bytes, worth
	// compressing. Bodies shorter than this are left alone. Default 256.
	MinLength int
}

// DefaultConfig returns the default configuration for the compress
// middleware.
func DefaultConfig() Config {
	return Config{
		Level:     gzip.DefaultCompression,
		MinLength: 256,
	}
}

// New returns a middleware that gzip-encodes the response body produced
// by the rest of the handler chain, when the request's Accept-Encoding
// header allows it. If no config is provided, it uses the default config.
// If multiple configs are provided, only the first one is used.
func New(config ...Config) ngebut.Middleware {
	cfg := DefaultConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Level == 0 {
		cfg.Level = gzip.DefaultCompression
	}

	return func(c *ngebut.Ctx) {
		c.Next()

		// Vary lets shared caches key on Accept-Encoding even when this
		// request wasn't itself compressed.
		c.Set(ngebut.HeaderVary, ngebut.HeaderAcceptEncoding)

		if c.Get(ngebut.HeaderContentEncoding) != "" {
			// A handler or earlier middleware already encoded the body.
			return
		}

		body := c.Body()
		if len(body) < cfg.MinLength {
			return
		}

		flags := reqcore.AcceptEncodingFlags([]byte(c.Request.Header.Get(ngebut.HeaderAcceptEncoding)))
		if flags&reqcore.FlagAcceptGzip == 0 {
			return
		}

		var buf bytes.Buffer
		zw, err := gzip.NewWriterLevel(&buf, cfg.Level)
		if err != nil {
			return
		}
		if _, err := zw.Write(body); err != nil {
			_ = zw.Close()
			return
		}
		if err := zw.Close(); err != nil {
			return
		}

		c.SetBody(buf.Bytes())
		c.Set(ngebut.HeaderContentEncoding, "gzip")
		c.Set(ngebut.HeaderContentLength, strconv.Itoa(buf.Len()))
	}
}
