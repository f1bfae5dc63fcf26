package query

import "strings"

// Key identifies a cached query as an ordered tuple of segments,
// e.g. K("admin-rooms") or K("lodgings", "42"). A key is also an
// invalidation pattern: invalidating a key hits every cached entry
// that shares it as a prefix.
type Key []string

// K builds a Key from its segments.
func K(segments ...string) Key {
	return Key(segments)
}

// Equal reports whether both keys have identical segments.
func (k Key) Equal(other Key) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether k starts with all segments of prefix.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

// String renders a canonical form used as the cache index. Separators
// inside a segment are escaped so K("a/b") and K("a", "b") never collide.
func (k Key) String() string {
	var b strings.Builder
	for i, seg := range k {
		if i > 0 {
			b.WriteByte('/')
		}
		for j := 0; j < len(seg); j++ {
			if seg[j] == '/' || seg[j] == '\\' {
				b.WriteByte('\\')
			}
			b.WriteByte(seg[j])
		}
	}
	return b.String()
}
