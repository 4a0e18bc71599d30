package ngebut

// Canonical HTTP header names used by the router, context and middleware
// packages. Values match textproto.CanonicalMIMEHeaderKey output so they
// can be used directly as Header map keys.
const (
	HeaderOrigin        = "Origin"
	HeaderVary          = "Vary"
	HeaderAuthorization = "Authorization"
	HeaderCookie        = "Cookie"
	HeaderSetCookie     = "Set-Cookie"

	HeaderContentType        = "Content-Type"
	HeaderContentLength      = "Content-Length"
	HeaderContentEncoding    = "Content-Encoding"
	HeaderContentDisposition = "Content-Disposition"
	HeaderAcceptEncoding     = "Accept-Encoding"
	HeaderAcceptRanges       = "Accept-Ranges"
	HeaderAllow              = "Allow"
	HeaderCacheControl       = "Cache-Control"

	HeaderLastModified       = "Last-Modified"
	HeaderUserAgent          = "User-Agent"

	HeaderAccessControlAllowOrigin      = "Access-Control-Allow-Origin"
	HeaderAccessControlAllowMethods     = "Access-Control-Allow-Methods"
	HeaderAccessControlAllowHeaders     = "Access-Control-Allow-Headers"
	HeaderAccessControlAllowCredentials = "Access-Control-Allow-Credentials"
	HeaderAccessControlMaxAge           = "Access-Control-Max-Age"
	HeaderAccessControlExposeHeaders    = "Access-Control-Expose-Headers"
	HeaderAccessControlRequestHeaders   = "Access-Control-Request-Headers"
)
