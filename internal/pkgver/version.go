// Package pkgver implements the ordered integer-tuple version scheme the
// registry snapshot exposes. Versions compare componentwise, with the
// shorter tuple padded with trailing zeros, so "1.2" and "1.2.0" are equal.
package pkgver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// ErrMalformed is returned when a version string cannot be parsed.
var ErrMalformed = errors.New("malformed version")

// Version is an ordered tuple of non-negative integers.
type Version []int

// Parse parses a dotted tuple such as "1.2.3". Every component must be a
// non-negative decimal integer.
func Parse(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", ErrMalformed)
	}
	parts := strings.Split(s, ".")
	v := make(Version, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %q", ErrMalformed, s)
		}
		v[i] = n
	}
	return v, nil
}

// FromReported parses a version string as reported by an external package
// manager. Explicitly semver-shaped strings ("v1.2.3", "1.2.3-rc.1") are
// canonicalized first, dropping pre-release and build metadata; plain
// dotted tuples pass through unchanged.
func FromReported(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "v") || strings.ContainsAny(s, "-+") {
		c := s
		if !strings.HasPrefix(c, "v") {
			c = "v" + c
		}
		if !semver.IsValid(c) {
			return nil, fmt.Errorf("%w: %q", ErrMalformed, s)
		}
		c = semver.Canonical(c)
		if i := strings.IndexAny(c, "-+"); i >= 0 {
			c = c[:i]
		}
		return Parse(strings.TrimPrefix(c, "v"))
	}
	return Parse(s)
}

func (v Version) String() string {
	if len(v) == 0 {
		return "0"
	}
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// Compare returns -1 if a < b, 0 if a == b, and 1 if a > b.
func Compare(a, b Version) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		var av, bv int
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if av < bv {
			return -1
		}
		if av > bv {
			return 1
		}
	}
	return 0
}

// Before reports whether v orders strictly before o.
func (v Version) Before(o Version) bool {
	return Compare(v, o) < 0
}
