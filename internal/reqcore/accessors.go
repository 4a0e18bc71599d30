package reqcore

import (
	"fmt"
	"net"
)

// QueryParam looks up a query-string parameter using the lwan-compatible
// prefix lookup (spec.md §6 request_get_query_param) — see KeyValueList.Get
// for the caveat this carries.
func (r *Request) QueryParam(key string) ([]byte, bool) {
	return r.QueryParams.Get([]byte(key))
}

// PostParam looks up a form-body field (spec.md §6 request_get_post_param).
func (r *Request) PostParam(key string) ([]byte, bool) {
	return r.PostData.Get([]byte(key))
}

// Cookie looks up a cookie by name (spec.md §6 request_get_cookie).
func (r *Request) Cookie(key string) ([]byte, bool) {
	return r.Cookies.Get([]byte(key))
}

// RemoteAddress implements spec.md §6 request_get_remote_address: when
// the request carries PROXY-protocol info, report the original client's
// address; otherwise fall back to the connection's own peer address.
// AF_UNSPEC (PROXYv2 LOCAL) renders as the literal "*unspecified*".
func RemoteAddress(req *Request, connRemoteAddr net.Addr) string {
	if req.Flags&FlagProxied != 0 {
		switch req.Proxy.From.Family {
		case ProxyFamilyInet, ProxyFamilyInet6:
			return req.Proxy.From.IP.String()
		case ProxyFamilyUnspec:
			return "*unspecified*"
		}
	}
	if connRemoteAddr == nil {
		return "*unspecified*"
	}
	host, _, err := net.SplitHostPort(connRemoteAddr.String())
	if err != nil {
		return connRemoteAddr.String()
	}
	return host
}

// String renders a ProxyAddr as "host:port", used for logging.
func (a ProxyAddr) String() string {
	if a.Family == ProxyFamilyUnspec {
		return "*unspecified*"
	}
	return fmt.Sprintf("%s:%d", a.IP.String(), a.Port)
}
