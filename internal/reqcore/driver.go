package reqcore

// HandlerFlags mirrors the handler-map flags spec.md §6 lists: per-URL
// opt-in behavior the dispatch driver consults during step 6 ("Prepare").
type HandlerFlags uint16

const (
	ParseQueryString HandlerFlags = 1 << iota
	ParseIfModifiedSince
	ParseRange
	ParseAcceptEncoding
	ParseCookies
	ParsePostData
	MustAuthorize
	RemoveLeadingSlash
	CanRewriteURL
)

// HandlerFunc runs application logic for one dispatched request. It
// returns the HTTP status to emit; rewrite reports whether the handler
// wants its new req.URL re-dispatched (only honored if the matched
// Match declared CanRewriteURL).
type HandlerFunc func(req *Request) (status int, rewrite bool)

// Match is what a Lookup call returns for a successful prefix match.
type Match struct {
	Flags   HandlerFlags
	Handler HandlerFunc
}

// Lookup is the external URL-prefix trie collaborator (spec.md §6
// trie_lookup_prefix). PrefixLen is the number of leading bytes of url
// the match consumed; the driver strips them before invoking Handler.
type Lookup interface {
	LookupPrefix(url []byte) (prefixLen int, match Match, ok bool)
}

// Authorizer is the external HTTP basic-auth collaborator (spec.md §6
// http_authorize), invoked only for matches with MustAuthorize set.
type Authorizer interface {
	Authorize(req *Request, rawAuthorization []byte) bool
}

// Status codes the driver itself can decide without a handler running.
const (
	StatusOK                  = 200
	StatusBadRequest          = 400
	StatusUnauthorized        = 401
	StatusNotFound            = 404
	StatusMethodNotAllowed    = 405
	StatusRequestEntityTooLarge = 413
	StatusRequestTimeout      = 408
	StatusNotImplemented      = 501
	StatusInternalServerError = 500
)

// Result is what ProcessRequest reports back to the connection driver
// (spec.md §4.I step 10's "return next_request").
type Result struct {
	Status            int
	KeepAlive         bool
	NextRequestOffset int // offset into buf where a pipelined tail begins, or -1
	// Aborted means a fatal condition occurred that the spec says must
	// not surface a response at all (§7 "orderly shutdown", allocator
	// failure): the caller should tear down the connection.
	Aborted bool
	// HandlerInvoked reports whether dispatchLoop reached a matched
	// HandlerFunc. When false, Status was decided by the driver itself
	// (400/401/404/405/413/501) before any handler ran, and the caller
	// is responsible for emitting a response for that status; when true,
	// the handler already produced (and, for this framework, already
	// wrote) the response. The 500 for exceeding the rewrite cap comes
	// after handlers ran, so it is reported with HandlerInvoked true.
	HandlerInvoked bool
}

// Options bundles the per-call knobs ProcessRequest needs beyond the
// buffer itself.
type Options struct {
	// ConsumeProxyPreamble is true only for the very first request
	// dispatched on a connection that is configured to accept PROXY-
	// protocol (spec.md §4.C: "consulted at most once at the very start").
	ConsumeProxyPreamble bool
	MaxHeaderBytes       int
	// MaxURLRewrites overrides the rewrite-loop cap (spec.md §3 invariant
	// 4, §4.I step 8) for this call. 0 means "use the package default",
	// MaxURLRewrites.
	MaxURLRewrites int
	Lookup         Lookup
	Authorizer     Authorizer
}

// ProcessRequest is the per-request driver (spec.md §4.I / §6
// process_request). buf must already contain one complete, framed
// request head (the caller is expected to have used FindHeaderEnd to
// confirm this — ProcessRequest does not itself perform socket I/O;
// that is the event loop's job under the model spec.md §5 describes).
//
// req and helper are reused across calls on the same connection; the
// caller must call req.Reset()/helper.Reset() before each invocation
// (the one exception being a rewrite loop iteration, which reuses both
// deliberately).
func ProcessRequest(buf []byte, req *Request, helper *Helper, opts Options) Result {
	cursor := 0

	if opts.ConsumeProxyPreamble {
		consumed, ok := parseProxyProtocol(buf, &req.Proxy)
		if !ok {
			return Result{Status: StatusBadRequest, NextRequestOffset: -1}
		}
		if consumed > 0 {
			req.Flags |= FlagProxied
			cursor = consumed
		}
	}

	for cursor < len(buf) && isSpace(buf[cursor]) {
		cursor++
	}

	method, adv := identifyMethod(buf[cursor:])
	if method == MethodNone {
		if cursor >= len(buf) || buf[cursor] == 0 {
			return Result{Status: StatusBadRequest, NextRequestOffset: -1}
		}
		return Result{Status: StatusMethodNotAllowed, NextRequestOffset: -1}
	}
	cursor += adv
	req.Flags |= methodFlag(method)

	fullURL, isHTTP10, lineAdv, ok := identifyPath(buf[cursor:])
	if !ok {
		return Result{Status: StatusBadRequest, NextRequestOffset: -1}
	}
	if isHTTP10 {
		req.Flags |= FlagHTTP10
	}
	req.OriginalURL = fullURL
	headerStart := cursor + lineAdv

	path, fragment, query := splitFragmentAndQuery(fullURL)
	req.Fragment = fragment

	nextOffset, ok := parseHeaders(buf[headerStart:], &helper.Headers)
	if !ok {
		return Result{Status: StatusBadRequest, NextRequestOffset: -1}
	}
	helper.NextRequestOffset = headerStart + nextOffset
	helper.ConnectionTag = helper.Headers.Connection

	decodedLen := urlDecode(path)
	if decodedLen == 0 {
		return Result{Status: StatusBadRequest, NextRequestOffset: -1}
	}
	req.URL = path[:decodedLen]

	keepAlive := computeKeepAlive(isHTTP10, helper.ConnectionTag)

	if method == MethodPost {
		contentLength, lenOK := parseContentLength(helper.Headers.ContentLength)
		if !lenOK {
			return Result{Status: StatusBadRequest, KeepAlive: false, NextRequestOffset: -1}
		}
		resident := buf[helper.NextRequestOffset:]
		body, state := ReadBody(resident, contentLength)
		switch state {
		case BodyTooLarge:
			return Result{Status: StatusRequestEntityTooLarge, NextRequestOffset: -1}
		case BodyNeedsStreaming:
			return Result{Status: StatusNotImplemented, NextRequestOffset: -1}
		}
		req.Body = body
		helper.NextRequestOffset += len(body)
	}

	status, invoked, nextOff := dispatchLoop(req, helper, opts, query)
	return Result{
		Status:            status,
		KeepAlive:         keepAlive,
		NextRequestOffset: nextOff,
		HandlerInvoked:    invoked,
	}
}

func computeKeepAlive(isHTTP10 bool, connTag byte) bool {
	if isHTTP10 {
		return connTag == 'k'
	}
	return connTag != 'c'
}

// dispatchLoop implements spec.md §4.I steps 5-8: lookup, prepare,
// invoke, and the bounded rewrite loop. query is the not-yet-parsed query
// string split off the request line (or a rewritten URL); it is only
// parsed into req.QueryParams once a matched handler's flags say it wants
// it (spec.md §4.I step 6, §6 "ParseQueryString").
func dispatchLoop(req *Request, helper *Helper, opts Options, query []byte) (status int, handlerInvoked bool, nextOffset int) {
	url := req.URL

	rewriteLimit := opts.MaxURLRewrites
	if rewriteLimit <= 0 {
		rewriteLimit = MaxURLRewrites
	}

	for {
		prefixLen, match, ok := opts.Lookup.LookupPrefix(url)
		if !ok {
			return StatusNotFound, false, helper.NextRequestOffset
		}

		remaining := url[prefixLen:]
		if match.Flags&RemoveLeadingSlash != 0 {
			for len(remaining) > 0 && remaining[0] == '/' {
				remaining = remaining[1:]
			}
		}
		req.URL = remaining

		if req.Flags.Method() == MethodPost && match.Flags&ParsePostData == 0 {
			return StatusMethodNotAllowed, false, helper.NextRequestOffset
		}

		if match.Flags&ParseQueryString != 0 && query != nil {
			parseKeyValues(query, '&', urlDecode, &req.QueryParams)
		}

		applySemanticHeaders(
			&helper.Headers, req,
			match.Flags&ParseRange != 0,
			match.Flags&ParseAcceptEncoding != 0,
			match.Flags&ParseIfModifiedSince != 0,
			match.Flags&ParseCookies != 0,
		)
		if match.Flags&ParsePostData != 0 && req.Body != nil && isFormURLEncoded(helper.Headers.ContentType) {
			parseKeyValues(req.Body, '&', urlDecode, &req.PostData)
		}

		if match.Flags&MustAuthorize != 0 {
			req.RawAuthorization = helper.Headers.Authorization
			if opts.Authorizer == nil || !opts.Authorizer.Authorize(req, req.RawAuthorization) {
				return StatusUnauthorized, false, helper.NextRequestOffset
			}
		}

		if match.Flags&CanRewriteURL != 0 {
			req.Flags |= FlagCanRewriteURL
		} else {
			req.Flags &^= FlagCanRewriteURL
		}

		respStatus, rewrite := match.Handler(req)

		if rewrite && req.Flags&FlagCanRewriteURL != 0 {
			helper.URLsRewritten++
			if helper.URLsRewritten > rewriteLimit {
				return StatusInternalServerError, true, helper.NextRequestOffset
			}
			newPath, newFragment, newQuery := splitFragmentAndQuery(req.URL)
			req.URL = newPath
			req.Fragment = newFragment
			query = newQuery
			url = req.URL
			continue
		}

		return respStatus, true, helper.NextRequestOffset
	}
}
