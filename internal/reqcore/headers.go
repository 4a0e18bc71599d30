package reqcore

// ParsedHeaders holds the raw borrowed slices for the fixed set of
// headers the core cares about (spec.md §3 "Parser helper"). Handler
// logic and response serialization live outside this package's scope;
// only the header values this package's post-parsers (H) consume are
// retained.
type ParsedHeaders struct {
	AcceptEncoding   []byte
	ContentType      []byte
	ContentLength    []byte
	Authorization    []byte
	Cookie           []byte
	IfModifiedSince  []byte
	Range            []byte
	Connection       byte // lowercased first byte of the Connection header value, or 0
}

func (h *ParsedHeaders) reset() {
	*h = ParsedHeaders{}
}

var (
	tagAcce = tag4('A', 'c', 'c', 'e')
	tagAuth = tag4('A', 'u', 't', 'h')
	tagConn = tag4('C', 'o', 'n', 'n')
	tagCont = tag4('C', 'o', 'n', 't')
	tagCook = tag4('C', 'o', 'o', 'k')
	tagIfM  = tag4('I', 'f', '-', 'M')
	tagRang = tag4('R', 'a', 'n', 'g')

	tagEnc  = tag4('-', 'E', 'n', 'c')
	tagTyp  = tag4('-', 'T', 'y', 'p')
	tagLen  = tag4('-', 'L', 'e', 'n')

	colonSpace = tag2(':', ' ')
)

// parseHeaders performs a single forward scan over the header block
// starting at buf (positioned right after the request line), dispatching
// on 4-byte name prefixes exactly as spec.md §4.E describes. It mutates
// buf in place, NUL-terminating each recognized value, and returns the
// offset of the first byte after the blank line that ends the header
// block (the next pipelined request, if any), or ok=false if the header
// block never terminated within buf (malformed/incomplete — a bad request).
func parseHeaders(buf []byte, out *ParsedHeaders) (nextOffset int, ok bool) {
	out.reset()

	p := 0
	for p < len(buf) {
		if p+1 < len(buf) && buf[p] == '\r' && buf[p+1] == '\n' {
			return p + 2, true
		}

		if p+4 > len(buf) {
			break
		}

		matched, newP := dispatchHeader(buf, p, out)
		if matched {
			p = newP
			continue
		}

		// Tolerant of unknown/malformed headers: skip to the next line.
		nl := indexByteFrom(buf, p, '\n')
		if nl == -1 {
			break
		}
		p = nl + 1
	}

	return 0, false
}

// dispatchHeader attempts to match and consume one header line starting
// at buf[p]. It returns whether a known header (or a re-dispatch prefix)
// was matched and the new scan position. On a name match whose value
// fails the ": " + CRLF + "\n" shape, it returns matched=false so the
// caller falls back to skip-to-next-line.
func dispatchHeader(buf []byte, p int, out *ParsedHeaders) (bool, int) {
	tag := tag4At(buf, p)

	switch tag {
	case tagAcce:
		// "Accept" common prefix of Accept-Encoding; re-dispatch after
		// skipping it so the next four bytes ("-Enc") discriminate.
		return dispatchHeader(buf, p+len("Accept"), out)
	case tagCont:
		// "Content" common prefix of Content-Type/Content-Length.
		return dispatchHeader(buf, p+len("Content"), out)
	case tagEnc:
		return matchHeaderValue(buf, p, len("-Encoding"), &out.AcceptEncoding)
	case tagTyp:
		return matchHeaderValue(buf, p, len("-Type"), &out.ContentType)
	case tagLen:
		return matchHeaderValue(buf, p, len("-Length"), &out.ContentLength)
	case tagAuth:
		return matchHeaderValue(buf, p, len("Authorization"), &out.Authorization)
	case tagConn:
		var val []byte
		matched, newP := matchHeaderValue(buf, p, len("Connection"), &val)
		if matched && len(val) > 0 {
			out.Connection = val[0] | 0x20
		}
		return matched, newP
	case tagCook:
		return matchHeaderValue(buf, p, len("Cookie"), &out.Cookie)
	case tagIfM:
		return matchHeaderValue(buf, p, len("If-Modified-Since"), &out.IfModifiedSince)
	case tagRang:
		return matchHeaderValue(buf, p, len("Range"), &out.Range)
	default:
		return false, p
	}
}

func tag4At(buf []byte, p int) uint32 {
	if p+4 > len(buf) {
		return 0
	}
	return uint32(buf[p]) | uint32(buf[p+1])<<8 | uint32(buf[p+2])<<16 | uint32(buf[p+3])<<24
}

// matchHeaderValue expects buf[p+nameLen:] to begin with ": ", finds the
// terminating '\r', requires '\n' right after it, and sets *dst to the
// value slice. Returns ok=false (tolerant skip) if any of that fails.
func matchHeaderValue(buf []byte, p, nameLen int, dst *[]byte) (bool, int) {
	p += nameLen
	if p+2 > len(buf) {
		return false, p
	}
	if !match2(buf[p:p+2], colonSpace) {
		return false, p
	}
	p += 2

	end := indexByteFrom(buf, p, '\r')
	if end == -1 {
		return false, p
	}
	*dst = buf[p:end]

	p = end + 1
	if p >= len(buf) || buf[p] != '\n' {
		return false, p
	}
	p++

	return true, p
}

func indexByteFrom(buf []byte, from int, c byte) int {
	for i := from; i < len(buf); i++ {
		if buf[i] == c {
			return i
		}
	}
	return -1
}

// FindHeaderValue does a case-insensitive linear scan for a named header
// within a raw header block (buf runs from just after the request line to
// the blank line that ends it). Unlike parseHeaders, it isn't limited to
// the fixed set of headers ParsedHeaders tracks — callers outside the core
// driver (the wire-level codec framing a request before ProcessRequest
// ever runs) use it to answer one-off questions like "is there a
// Content-Length header" without running the full header parse twice.
func FindHeaderValue(buf []byte, name []byte) ([]byte, bool) {
	for i := 0; i+len(name)+1 <= len(buf); i++ {
		if buf[i] == '\n' {
			continue
		}
		if i > 0 && buf[i-1] != '\n' {
			continue
		}
		if !equalFold(buf[i:i+len(name)], name) {
			continue
		}
		p := i + len(name)
		if p >= len(buf) || buf[p] != ':' {
			continue
		}
		p++
		for p < len(buf) && buf[p] == ' ' {
			p++
		}
		end := indexByteFrom(buf, p, '\r')
		if end == -1 {
			end = indexByteFrom(buf, p, '\n')
			if end == -1 {
				return nil, false
			}
		}
		return buf[p:end], true
	}
	return nil, false
}

// ScanHeaders walks every header line in buf (positioned just after the
// request line, exactly as parseHeaders expects) and calls fn with each
// header's raw name and value. Unlike parseHeaders, it isn't limited to
// the fixed set ParsedHeaders tracks: callers that need to forward the
// full header set to a collaborator outside this package (a generic,
// case-insensitive header map) use this instead of re-deriving one from
// ParsedHeaders. It performs no decoding and does not mutate buf.
func ScanHeaders(buf []byte, fn func(name, value []byte)) {
	p := 0
	for p < len(buf) {
		if p+1 < len(buf) && buf[p] == '\r' && buf[p+1] == '\n' {
			return
		}

		colon := indexByteFrom(buf, p, ':')
		nl := indexByteFrom(buf, p, '\n')
		if colon == -1 || nl == -1 || colon > nl {
			if nl == -1 {
				return
			}
			p = nl + 1
			continue
		}

		name := buf[p:colon]
		v := colon + 1
		for v < nl && buf[v] == ' ' {
			v++
		}
		end := v
		for end < nl && buf[end] != '\r' {
			end++
		}

		fn(name, buf[v:end])
		p = nl + 1
	}
}

func equalFold(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca |= 0x20
		}
		if cb >= 'A' && cb <= 'Z' {
			cb |= 0x20
		}
		if ca != cb {
			return false
		}
	}
	return true
}
