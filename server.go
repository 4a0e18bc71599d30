package ngebut

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/ryanbekhen/ngebut/internal/httpparser"
	"github.com/ryanbekhen/ngebut/internal/reqcore"
	"github.com/ryanbekhen/ngebut/log"

	"github.com/panjf2000/gnet/v2"
)

type noopLogger struct{}

func (l *noopLogger) Debugf(format string, args ...interface{}) {}
func (l *noopLogger) Infof(format string, args ...interface{})  {}
func (l *noopLogger) Warnf(format string, args ...interface{})  {}
func (l *noopLogger) Errorf(format string, args ...interface{}) {}
func (l *noopLogger) Fatalf(format string, args ...interface{}) {}

// Server represents an HTTP server.
type Server struct {
	httpServer            *httpServer
	router                *Router
	disableStartupMessage bool
	errorHandler          Handler // Handler called when an error occurs during request processing
}

type httpServer struct {
	gnet.BuiltinEventEngine

	addr         string
	multicore    bool
	router       *Router
	eng          gnet.Engine
	errorHandler Handler // Handler called when an error occurs during request processing

	readTimeout  time.Duration // Read timeout for requests
	writeTimeout time.Duration // Write timeout for responses
	idleTimeout  time.Duration // Idle timeout for connections

	maxHeaderBytes     int  // Config.MaxHeaderBytes: reqcore.DefaultBufferSize / httpparser framing bound
	allowProxyProtocol bool // Config.AllowProxyProtocol: spec.md §4.C REQUEST_ALLOW_PROXY_REQS
	maxURLRewrites     int  // Config.MaxURLRewrites: spec.md §3 invariant 4 / §4.I step 8
}

// defaultErrorHandler is the default handler for errors.
// It returns a plain text response with the error message.
// If the error is an HttpError, it uses the status code from the HttpError.
// If the status code is already set to a 4xx or 5xx status code, it respects that.
func defaultErrorHandler(c *Ctx) {
	err := c.GetError()
	statusCode := c.StatusCode()

	// Check if the error is an HttpError
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		statusCode = httpErr.Code
	}

	c.Status(statusCode)
	c.String("%v", err)
}

// New creates a new server with the given configuration.
// This is the main entry point for creating a ngebut server instance.
//
// Parameters:
//   - config: The server configuration (use DefaultConfig() for sensible defaults)
//
// Returns:
//   - A new Server instance ready to be configured with routes and middleware
func New(config ...Config) *Server {
	r := NewRouter()

	// Use default config if none provided
	cfg := DefaultConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	hs := &httpServer{
		addr:         "",
		multicore:    true,
		router:       r,
		errorHandler: cfg.ErrorHandler,
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
		idleTimeout:  cfg.IdleTimeout,

		maxHeaderBytes:     cfg.MaxHeaderBytes,
		allowProxyProtocol: cfg.AllowProxyProtocol,
		maxURLRewrites:     cfg.MaxURLRewrites,
	}

	return &Server{
		httpServer:            hs,
		router:                r,
		disableStartupMessage: cfg.DisableStartupMessage,
		errorHandler:          cfg.ErrorHandler,
	}
}

func (hs *httpServer) OnBoot(eng gnet.Engine) gnet.Action {
	hs.eng = eng
	return gnet.None
}

func (hs *httpServer) OnOpen(c gnet.Conn) ([]byte, gnet.Action) {
	c.SetContext(httpparser.NewCodec(hs.router, hs.maxHeaderBytes))
	return nil, gnet.None
}

// requestPool is a pool of Request objects for reuse on the live request
// path, which builds a Request directly from a parsed reqcore.Request
// rather than from an *http.Request (see (*requestBridge).handle).
var requestPool = sync.Pool{
	New: func() interface{} {
		return &Request{Header: make(Header, 8)}
	},
}

// getPooledRequest gets a zeroed Request from the pool, ready to be
// populated by the live request path.
func getPooledRequest() *Request {
	return requestPool.Get().(*Request)
}

// releaseRequest returns a Request to the pool
func releaseRequest(r *Request) {
	// Reset all fields to zero values
	r.Method = ""
	r.URL = nil
	r.Proto = ""

	// Clear the header map
	for k := range r.Header {
		delete(r.Header, k)
	}

	// Clear the body
	r.Body = nil
	r.ContentLength = 0
	r.Host = ""
	r.RemoteAddr = ""
	r.RequestURI = ""
	r.ctx = nil

	// Return to the pool
	requestPool.Put(r)
}

// corePool/coreHelperPool back the per-connection reqcore.Request/Helper
// pair OnTraffic reuses across every request parsed from the connection's
// buffer (spec.md §3 "Lifecycle": both are reused across calls, reset at
// the start of each dispatch cycle).
var corePool = sync.Pool{
	New: func() interface{} { return new(reqcore.Request) },
}

var coreHelperPool = sync.Pool{
	New: func() interface{} { return new(reqcore.Helper) },
}

var bridgePool = sync.Pool{
	New: func() interface{} { return new(requestBridge) },
}

func (hs *httpServer) OnTraffic(c gnet.Conn) gnet.Action {
	hc := c.Context().(*httpparser.Codec)
	buf, _ := c.Peek(-1)
	n := len(buf)
	var processed int
	closeConn := false

	bridge := bridgePool.Get().(*requestBridge)
	bridge.hs = hs
	bridge.hc = hc
	bridge.c = c
	defer func() {
		bridge.hs, bridge.hc, bridge.c = nil, nil, nil
		bridgePool.Put(bridge)
	}()

	coreReq := corePool.Get().(*reqcore.Request)
	helper := coreHelperPool.Get().(*reqcore.Helper)
	defer func() {
		corePool.Put(coreReq)
		coreHelperPool.Put(helper)
	}()

	opts := reqcore.Options{Lookup: bridge, MaxURLRewrites: hs.maxURLRewrites}

	for processed < n {
		// hc.Parse only confirms a complete frame is resident (header
		// block plus any Content-Length body); it no longer does any
		// application-level parsing itself.
		nextOffset, _, err := hc.Parse(buf[processed:])
		hc.ResetParser()

		if err != nil {
			if err != httpparser.ErrIncompleteBody {
				status := reqcore.StatusBadRequest
				if errors.Is(err, httpparser.ErrHeaderTooLarge) {
					status = reqcore.StatusRequestEntityTooLarge
				}
				writeDriverStatus(hc, status)
				closeConn = true
				if processed < n {
					processed++
				}
			}
			break
		}

		if len(buf[processed:]) < nextOffset {
			break
		}

		// A PROXY-protocol preamble, if any, can only appear at the very
		// start of a connection (spec.md §4.C: "consulted at most once at
		// the very start"); gate ConsumeProxyPreamble on the connection's
		// first dispatch only, regardless of how that dispatch turns out.
		opts.ConsumeProxyPreamble = hs.allowProxyProtocol && !hc.ProxyPreambleChecked

		coreReq.Reset()
		helper.Reset()
		res := reqcore.ProcessRequest(buf[processed:processed+nextOffset], coreReq, helper, opts)
		hc.ProxyPreambleChecked = true

		if res.Aborted {
			closeConn = true
			processed += nextOffset
			break
		}

		if !res.HandlerInvoked {
			writeDriverStatus(hc, res.Status)
		}

		if nextOffset <= 0 {
			processed++
			break
		}
		processed += nextOffset

		if !res.KeepAlive {
			closeConn = true
			break
		}
	}

	// Write the response if there's data in the buffer
	if len(hc.Buf) > 0 {
		c.Write(hc.Buf)
	}

	// Reset the codec for the next request
	hc.Reset()

	// Discard processed data
	if processed > 0 {
		c.Discard(processed)
	}

	if closeConn {
		return gnet.Close
	}
	return gnet.None
}

// OnClose is called when a connection is closed
func (hs *httpServer) OnClose(c gnet.Conn, err error) (action gnet.Action) {
	// Release the codec back to the pool
	if codec, ok := c.Context().(*httpparser.Codec); ok && codec != nil {
		httpparser.ReleaseCodec(codec)
	}
	return gnet.None
}

// dummyResponseWriter is used as a placeholder when creating a Ctx that will handle its own response writing
// but still needs to track headers correctly
type dummyResponseWriter struct {
	header http.Header
}

// dummyWriterPool is a pool of dummyResponseWriter objects for reuse
var dummyWriterPool = sync.Pool{
	New: func() interface{} {
		return &dummyResponseWriter{
			header: make(http.Header),
		}
	},
}

// getDummyWriter gets a dummyResponseWriter from the pool
func getDummyWriter() *dummyResponseWriter {
	return dummyWriterPool.Get().(*dummyResponseWriter)
}

// releaseDummyWriter returns a dummyResponseWriter to the pool
func releaseDummyWriter(d *dummyResponseWriter) {
	// Clear the header map
	for k := range d.header {
		delete(d.header, k)
	}
	dummyWriterPool.Put(d)
}

func (d *dummyResponseWriter) Header() http.Header {
	return d.header
}

func (d *dummyResponseWriter) Write(b []byte) (int, error) {
	return len(b), nil
}

func (d *dummyResponseWriter) WriteHeader(statusCode int) {
	// No-op
}

func (d *dummyResponseWriter) Flush() {
	// No-op
}

// headerPool is a pool of Header objects for reuse
var headerPool = sync.Pool{
	New: func() interface{} {
		return make(Header)
	},
}

// getHeader gets a Header from the pool
func getHeader() Header {
	return headerPool.Get().(Header)
}

// releaseHeader returns a Header to the pool
func releaseHeader(h Header) {
	for k := range h {
		delete(h, k)
	}
	headerPool.Put(h)
}

// parserHeadersPool is a pool of httpparser.Header objects for reuse
var parserHeadersPool = sync.Pool{
	New: func() interface{} {
		return make(httpparser.Header)
	},
}

// getParserHeaders gets a httpparser.Header from the pool
func getParserHeaders() httpparser.Header {
	return parserHeadersPool.Get().(httpparser.Header)
}

// releaseParserHeaders returns a httpparser.Header to the pool
func releaseParserHeaders(h httpparser.Header) {
	for k := range h {
		delete(h, k)
	}
	parserHeadersPool.Put(h)
}

// requestBridge adapts reqcore's dispatch driver to this package's Router.
// The driver's Lookup/Match/HandlerFunc abstraction assumes a URL-prefix
// trie of independent handlers (spec.md §6 trie_lookup_prefix); Router
// already does its own prefix/regex matching, grouping, and middleware
// chaining, so the bridge hands the whole URL to a single always-matching
// Match and lets handle's call into Router.ServeHTTP make every real
// routing decision, exactly as the request path did before this driver
// was wired in.
type requestBridge struct {
	hs *httpServer
	hc *httpparser.Codec
	c  gnet.Conn
}

// bridgeFlags asks the driver to run every semantic post-parser (query
// string, conditional/range/encoding headers, cookies, POST form data)
// regardless of which route ultimately handles the request, since any
// handler or middleware in the chain may reach for any of them via Ctx.
var bridgeFlags = reqcore.ParseQueryString | reqcore.ParseIfModifiedSince |
	reqcore.ParseRange | reqcore.ParseAcceptEncoding | reqcore.ParseCookies |
	reqcore.ParsePostData

func (b *requestBridge) LookupPrefix(url []byte) (int, reqcore.Match, bool) {
	return 0, reqcore.Match{Flags: bridgeFlags, Handler: b.handle}, true
}

// handle is the reqcore.HandlerFunc the dispatch driver invokes once it
// has finished parsing and preparing req. It builds a Request from the
// already-parsed reqcore.Request, drives it through Router.ServeHTTP, and
// writes the response through the codec itself — the driver never
// synthesizes a body on a handler's behalf (see Result.HandlerInvoked).
func (b *requestBridge) handle(req *reqcore.Request) (status int, rewrite bool) {
	nreq := getPooledRequest()
	defer releaseRequest(nreq)

	nreq.ctx = context.Background()
	nreq.Method = req.Flags.Method().String()
	if req.Flags&reqcore.FlagHTTP10 != 0 {
		nreq.Proto = "HTTP/1.0"
	} else {
		nreq.Proto = "HTTP/1.1"
	}
	nreq.RequestURI = string(req.OriginalURL)
	nreq.RemoteAddr = reqcore.RemoteAddress(req, b.c.RemoteAddr())
	nreq.Body = req.Body
	nreq.ContentLength = int64(len(req.Body))
	nreq.URL = &url.URL{
		Path:     string(req.URL),
		RawQuery: encodeQueryString(&req.QueryParams),
	}

	if hb := b.hc.HeaderBlock(); len(hb) > 0 {
		if lineEnd := bytes.IndexByte(hb, '\n'); lineEnd >= 0 {
			reqcore.ScanHeaders(hb[lineEnd+1:], func(name, value []byte) {
				nreq.Header.Add(string(name), string(value))
			})
		}
	}
	nreq.Host = nreq.Header.Get("Host")

	// Get a dummyWriter from the pool
	dummyWriter := getDummyWriter()
	defer releaseDummyWriter(dummyWriter)

	ctx := GetContextFromRequest(dummyWriter, nreq)
	defer ReleaseContext(ctx)

	// Set server header directly in context header
	ctx.Set("Server", "ngebut")

	// Process the request
	b.hs.router.ServeHTTP(ctx, ctx.Request)

	// Handle errors
	if err := ctx.GetError(); err != nil {
		if b.hs.errorHandler != nil {
			b.hs.errorHandler(ctx)
		} else {
			defaultErrorHandler(ctx)
		}
	}

	// Ensure headers set after c.Next() in middleware are included in the response
	if ctx.Writer != nil {
		ctx.Writer.Flush()
	}

	// Get a parserHeader from the pool
	parserHeaders := getParserHeaders()
	defer releaseParserHeaders(parserHeaders)

	// Directly copy headers from dummyWriter to parserHeaders
	for k, values := range dummyWriter.header {
		if len(values) > 0 {
			parserHeaders[k] = values
		}
	}

	// Then copy headers from context (overriding any with same name)
	for k, values := range ctx.Request.Header {
		if len(values) > 0 {
			parserHeaders[k] = values
		}
	}

	statusCode := ctx.statusCode

	// Handle HEAD requests specially per HTTP spec
	if ctx.Request.Method == MethodHead {
		if statusCode == StatusInternalServerError {
			statusCode = StatusOK
		}
		b.hc.WriteResponse(statusCode, parserHeaders, nil)
	} else {
		b.hc.WriteResponse(statusCode, parserHeaders, ctx.body)
	}

	return statusCode, false
}

// encodeQueryString re-encodes the dispatch driver's already-parsed,
// already-decoded query parameters back into a wire query string. The
// original raw bytes aren't recoverable here: the driver's percent-decode
// mutates the query buffer in place, so re-encoding through url.Values
// keeps net/url's own decoder (used by Ctx.Query and Request.URL.Query)
// consistent with what was actually parsed.
func encodeQueryString(qp *reqcore.KeyValueList) string {
	n := qp.Len()
	if n == 0 {
		return ""
	}
	vals := make(url.Values, n)
	for i := 0; i < n; i++ {
		kv := qp.At(i)
		vals[string(kv.Key)] = append(vals[string(kv.Key)], string(kv.Value))
	}
	return vals.Encode()
}

// writeDriverStatus emits a minimal response for a status the dispatch
// driver decided on its own, before any route handler ran (a malformed
// request line, an unmatched route, a disallowed method, an oversized
// body). There's no Ctx or handler-produced body to draw from.
func writeDriverStatus(hc *httpparser.Codec, status int) {
	parserHeaders := getParserHeaders()
	defer releaseParserHeaders(parserHeaders)

	parserHeaders["Content-Type"] = []string{"text/plain; charset=utf-8"}
	hc.WriteResponse(status, parserHeaders, []byte(httpparser.StatusText(status)))
}

func (s *Server) Router() *Router {
	return s.router
}

// Listen starts the server and listens for incoming connections.
func (s *Server) Listen(addr string) error {
	// Clean up the address to ensure it is in the correct format
	if addr == "" {
		addr = ":3000" // Default address if none provided
	}

	// Set the address in the httpServer struct
	s.httpServer.addr = "tcp://" + addr

	// Initialize the logger
	initLogger(log.InfoLevel)

	// Display startup message if not disabled
	if !s.disableStartupMessage {
		displayStartupMessage(addr)
	}

	// Start the server directly
	return gnet.Run(
		s.httpServer,
		s.httpServer.addr,
		gnet.WithMulticore(s.httpServer.multicore),
		gnet.WithReuseAddr(true),
		gnet.WithReusePort(true),
		gnet.WithLogger(&noopLogger{}),
		gnet.WithTCPNoDelay(gnet.TCPNoDelay),
		gnet.WithTCPKeepAlive(s.httpServer.idleTimeout),
		gnet.WithReadBufferCap(int(s.httpServer.readTimeout.Seconds())*1024),
		gnet.WithWriteBufferCap(int(s.httpServer.writeTimeout.Seconds())*1024),
	)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.eng.Stop(ctx)
}

// GET registers a new route with the GET method.
func (s *Server) GET(pattern string, handlers ...Handler) *Router {
	return s.router.GET(pattern, handlers...)
}

// HEAD registers a new route with the HEAD method.
func (s *Server) HEAD(pattern string, handlers ...Handler) *Router {
	return s.router.HEAD(pattern, handlers...)
}

// POST registers a new route with the POST method.
func (s *Server) POST(pattern string, handlers ...Handler) *Router {
	return s.router.POST(pattern, handlers...)
}

// PUT registers a new route with the PUT method.
func (s *Server) PUT(pattern string, handlers ...Handler) *Router {
	return s.router.PUT(pattern, handlers...)
}

// DELETE registers a new route with the DELETE method.
func (s *Server) DELETE(pattern string, handlers ...Handler) *Router {
	return s.router.DELETE(pattern, handlers...)
}

// CONNECT registers a new route with the CONNECT method.
func (s *Server) CONNECT(pattern string, handlers ...Handler) *Router {
	return s.router.CONNECT(pattern, handlers...)
}

// OPTIONS registers a new route with the OPTIONS method.
func (s *Server) OPTIONS(pattern string, handlers ...Handler) *Router {
	return s.router.OPTIONS(pattern, handlers...)
}

// TRACE registers a new route with the TRACE method.
func (s *Server) TRACE(pattern string, handlers ...Handler) *Router {
	return s.router.TRACE(pattern, handlers...)
}

// PATCH registers a new route with the PATCH method.
func (s *Server) PATCH(pattern string, handlers ...Handler) *Router {
	return s.router.PATCH(pattern, handlers...)
}

// Use adds middleware to the router.
func (s *Server) Use(middleware ...interface{}) {
	s.router.Use(middleware...)
}

// NotFound sets the handler for requests that don't match any route.
func (s *Server) NotFound(handler Handler) {
	s.router.NotFound = handler
}

// Group creates a new route group with the given prefix.
func (s *Server) Group(prefix string) *Group {
	return s.router.Group(prefix)
}
