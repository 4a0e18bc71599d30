package reqcore

// Method identifies the HTTP request method recognized by the parser.
// Only GET/HEAD/POST are in scope (spec.md §1 Non-goals).
type Method uint8

const (
	MethodNone Method = iota
	MethodGet
	MethodHead
	MethodPost
)

func (m Method) String() string {
	switch m {
	case MethodGet:
		return "GET"
	case MethodHead:
		return "HEAD"
	case MethodPost:
		return "POST"
	default:
		return ""
	}
}

var (
	tagGET  = tag4('G', 'E', 'T', ' ')
	tagHEAD = tag4('H', 'E', 'A', 'D')
	tagPOST = tag4('P', 'O', 'S', 'T')
)

// identifyMethod reads the first four bytes of buf and reports the
// matched method and the number of bytes to advance past "METHOD ".
// A non-match (MethodNone, 0) leaves the cursor where it was, which the
// driver treats as either a bad request (buffer starts with NUL/empty)
// or 405 Method Not Allowed (spec.md §4.D.1).
func identifyMethod(buf []byte) (Method, int) {
	if len(buf) < 4 {
		return MethodNone, 0
	}
	switch {
	case match4(buf, tagGET):
		return MethodGet, 4
	case match4(buf, tagHEAD) && len(buf) > 4 && buf[4] == ' ':
		return MethodHead, 5
	case match4(buf, tagPOST) && len(buf) > 4 && buf[4] == ' ':
		return MethodPost, 5
	default:
		return MethodNone, 0
	}
}

// minimalRequestLineLen is len("/ HTTP/1.0").
const minimalRequestLineLen = len("/ HTTP/1.0")

// identifyPath parses the path and HTTP version from buf (positioned
// just after "METHOD "). url is the slice between the cursor and the
// space before "HTTP/1.x"; buf is not modified. Returns the offset of the
// byte just past the line's '\n', or ok=false on a malformed request line
// (spec.md §4.D.2).
//
// isHTTP10 reports whether the minor version found was 0.
func identifyPath(buf []byte) (url []byte, isHTTP10 bool, nextOffset int, ok bool) {
	crPos := -1
	for i := 0; i < len(buf); i++ {
		if buf[i] == '\r' {
			crPos = i
			break
		}
	}
	if crPos == -1 || crPos < minimalRequestLineLen {
		return nil, false, 0, false
	}

	// " HTTP/1.X" (9 bytes, leading space included) ends right at crPos;
	// lwan computes this as `end_of_line - sizeof("HTTP/X.X")`, where C's
	// sizeof counts the literal's NUL terminator — one more than Go's len,
	// which is why this isn't simply len("HTTP/X.X").
	const httpVersionTokenLen = len(" HTTP/1.1")
	spacePos := crPos - httpVersionTokenLen
	if spacePos < 0 || buf[spacePos] != ' ' {
		return nil, false, 0, false
	}
	if spacePos+1 >= len(buf) || buf[spacePos+1] != 'H' {
		return nil, false, 0, false
	}
	if spacePos+6 >= len(buf) || buf[spacePos+6] != '1' {
		return nil, false, 0, false
	}

	minorIsZero := spacePos+8 < len(buf) && buf[spacePos+8] == '0'

	if buf[0] != '/' {
		return nil, false, 0, false
	}

	if crPos+1 >= len(buf) || buf[crPos+1] != '\n' {
		return nil, false, 0, false
	}

	url = buf[0:spacePos]
	return url, minorIsZero, crPos + 2, true
}

// splitFragmentAndQuery extracts the fragment (scanned backwards from
// the end of url, per spec.md §4.D.3 — fragments are usually small) and
// the query string (scanned forwards from the start of url, since query
// strings usually outweigh the URL path in size) from url, shrinking it
// in place.
func splitFragmentAndQuery(url []byte) (path, fragment, query []byte) {
	path = url

	fragIdx := lastIndexByte(path, '#')
	if fragIdx != -1 {
		fragment = path[fragIdx+1:]
		path = path[:fragIdx]
	}

	queryIdx := indexByte(path, '?')
	if queryIdx != -1 {
		query = path[queryIdx+1:]
		path = path[:queryIdx]
	}

	return path, fragment, query
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

func lastIndexByte(b []byte, c byte) int {
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] == c {
			return i
		}
	}
	return -1
}
