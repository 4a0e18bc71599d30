package reqcore

import "sort"

// maxKeyValuePairs is the hard cap on parsed key-value pairs per list.
// It is a deliberate denial-of-service limit (spec.md §9), not an
// implementation artifact: additional pairs beyond this are silently
// dropped rather than causing an error.
const maxKeyValuePairs = 32

// KeyValue is a single parsed, NUL-absent key/value pair. Both Key and
// Value are slices that borrow the connection's request buffer; they
// remain valid only until the buffer is reused for the next request.
type KeyValue struct {
	Key   []byte
	Value []byte
}

// KeyValueList is a capacity-bounded, key-sorted list of KeyValue pairs,
// matching lwan's lwan_key_value_t array: sorted lexicographically by
// key so that lookups can binary search.
type KeyValueList struct {
	items [maxKeyValuePairs]KeyValue
	n     int
}

// Reset clears the list for reuse without releasing backing storage.
func (l *KeyValueList) Reset() {
	for i := 0; i < l.n; i++ {
		l.items[i] = KeyValue{}
	}
	l.n = 0
}

// Len returns the number of pairs collected.
func (l *KeyValueList) Len() int { return l.n }

// At returns the i'th pair in sorted order.
func (l *KeyValueList) At(i int) KeyValue { return l.items[i] }

func (l *KeyValueList) push(key, value []byte) bool {
	if l.n >= maxKeyValuePairs {
		return false
	}
	l.items[l.n] = KeyValue{Key: key, Value: value}
	l.n++
	return true
}

func (l *KeyValueList) sort() {
	sort.Slice(l.items[:l.n], func(i, j int) bool {
		return compareBytes(l.items[i].Key, l.items[j].Key) < 0
	})
}

func compareBytes(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return int(a[i]) - int(b[i])
		}
	}
	return len(a) - len(b)
}

// decodeFunc decodes a borrowed slice in place and returns its new
// length, or 0 to signal a decode failure (see urlDecode). identityDecode
// is used for values that should not be transformed (cookies).
type decodeFunc func([]byte) int

func identityDecode(b []byte) int { return len(b) }

// parseKeyValues walks src, splitting on sep, applying decode to both the
// key and the value of every pair, and returns a sorted, bounded list.
// It mutates src in place (lwan writes NUL terminators; this port slices
// instead, per spec.md §9's note that an immutable-buffer port may carry
// (offset, length) pairs rather than interior NUL writes — the sort-and-
// binary-search structure is what must be preserved, and is).
//
// Matches lwan's parse_key_values: a pair that fails to decode aborts
// collection of the *rest* of the list but keeps everything gathered so
// far (fail-soft), and collection silently stops at 32 pairs.
func parseKeyValues(src []byte, sep byte, decode decodeFunc, out *KeyValueList) {
	out.Reset()
	if len(src) == 0 {
		return
	}

	i := 0
	for i < len(src) && out.n < maxKeyValuePairs {
		for i < len(src) && (src[i] == ' ' || src[i] == sep) {
			i++
		}
		if i >= len(src) {
			break
		}

		keyStart := i
		for i < len(src) && src[i] != '=' {
			i++
		}
		if i >= len(src) {
			break
		}
		key := src[keyStart:i]
		i++ // skip '='

		valueStart := i
		for i < len(src) && src[i] != sep {
			i++
		}
		value := src[valueStart:i]
		if i < len(src) {
			i++ // skip separator
		}

		keyLen := decode(key)
		valueLen := decode(value)
		if keyLen == 0 || valueLen == 0 {
			break
		}

		if !out.push(key[:keyLen], value[:valueLen]) {
			break
		}
	}

	out.sort()
}

// Get performs the lwan-compatible *prefix* lookup: binary search
// comparing only len(key) bytes of each candidate (strncmp semantics).
// This means a list containing "foobar" may be returned for a lookup of
// "foo", depending on sort order relative to other keys — this is the
// open question in spec.md §9, resolved by matching lwan exactly rather
// than "fixing" it. Use GetExact for precise key matching.
func (l *KeyValueList) Get(key []byte) ([]byte, bool) {
	lower, upper := 0, l.n
	for lower < upper {
		idx := (lower + upper) / 2
		cmp := compareBytes(key, l.items[idx].Key[:min(len(key), len(l.items[idx].Key))])
		if cmp == 0 && len(l.items[idx].Key) < len(key) {
			// candidate key is shorter than the search key: strncmp with
			// key's length would read past the candidate, so lwan's C
			// strncmp would actually compare the NUL terminator there;
			// treat it as "candidate < key" to preserve ordering.
			cmp = 1
		}
		switch {
		case cmp == 0:
			return l.items[idx].Value, true
		case cmp > 0:
			lower = idx + 1
		default:
			upper = idx
		}
	}
	return nil, false
}

// GetExact looks up a key requiring an exact match, unlike Get's
// lwan-compatible prefix semantics.
func (l *KeyValueList) GetExact(key []byte) ([]byte, bool) {
	for i := 0; i < l.n; i++ {
		if compareBytes(l.items[i].Key, key) == 0 {
			return l.items[i].Value, true
		}
	}
	return nil, false
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
