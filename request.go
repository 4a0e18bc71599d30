package ngebut

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
)

// requestBodyBufferPool reuses buffers for draining an *http.Request's body
// into memory when building a Request from it.
var requestBodyBufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 4096))
	},
}

// Request is the framework's representation of an incoming HTTP request.
// It is built once per request from a *http.Request (see NewRequest) and
// reused from a pool across the connection's lifetime.
type Request struct {
	Method        string
	URL           *url.URL
	Proto         string
	Header        Header
	Body          []byte
	ContentLength int64
	Host          string
	RemoteAddr    string
	RequestURI    string

	ctx context.Context
}

// NewRequest builds a Request from r. A nil r yields an empty Request with
// an initialized Header and a background context, which is useful for tests
// and for handlers constructing a Request outside of the server's request
// path.
func NewRequest(r *http.Request) *Request {
	req := &Request{
		Header: make(Header, 8),
		ctx:    context.Background(),
	}

	if r == nil {
		return req
	}

	req.Method = r.Method
	req.URL = r.URL
	req.Proto = r.Proto
	req.ContentLength = r.ContentLength
	req.Host = r.Host
	req.RemoteAddr = r.RemoteAddr
	req.RequestURI = r.RequestURI

	if r.Header != nil {
		req.Header = *NewHeaderFromMap(r.Header)
	}

	if r.Context() != nil {
		req.ctx = r.Context()
	}

	if r.Body != nil && r.Body != http.NoBody {
		buf := requestBodyBufferPool.Get().(*bytes.Buffer)
		buf.Reset()
		defer requestBodyBufferPool.Put(buf)

		if _, err := io.Copy(buf, r.Body); err == nil {
			body := make([]byte, buf.Len())
			copy(body, buf.Bytes())
			req.Body = body

			// Leave the original request's body readable for any other
			// code still holding a reference to it.
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
	}

	return req
}

// Context returns the request's context. It never returns nil: a Request
// with no context attached reports context.Background().
func (r *Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// WithContext returns a shallow copy of r with its context changed to ctx.
// It panics if ctx is nil, matching net/http.Request.WithContext.
func (r *Request) WithContext(ctx context.Context) *Request {
	if ctx == nil {
		panic("ngebut: nil context passed to Request.WithContext")
	}
	r2 := new(Request)
	*r2 = *r
	r2.ctx = ctx
	return r2
}

// SetContext sets the request's context in place.
// It panics if ctx is nil.
func (r *Request) SetContext(ctx context.Context) {
	if ctx == nil {
		panic("ngebut: nil context passed to Request.SetContext")
	}
	r.ctx = ctx
}

// UserAgent returns the value of the request's User-Agent header, or the
// empty string if absent.
func (r *Request) UserAgent() string {
	return r.Header.Get("User-Agent")
}
