package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is an interpreter version tuple such as (2, 7, 6).
type Version []int

// DefaultVersion is the target version used when none is configured.
var DefaultVersion = Version{2, 7, 6}

// DefaultPlatform is the target platform used when none is configured.
const DefaultPlatform = "linux"

// ParseVersion parses "3", "3.8" or "3.8.1".
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty version")
	}
	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		return nil, fmt.Errorf("invalid version %q: at most 3 components allowed", s)
	}
	v := make(Version, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid version %q", s)
		}
		v[i] = n
	}
	return v, nil
}

// Truncate returns the first n components of v (all of v when n is larger).
func (v Version) Truncate(n int) Version {
	if n >= len(v) {
		return v
	}
	return v[:n]
}

// Compare compares v and other lexicographically and returns -1, 0 or +1.
// A proper prefix orders before the longer tuple.
func (v Version) Compare(other Version) int {
	for i := 0; i < len(v) && i < len(other); i++ {
		switch {
		case v[i] < other[i]:
			return -1
		case v[i] > other[i]:
			return 1
		}
	}
	switch {
	case len(v) < len(other):
		return -1
	case len(v) > len(other):
		return 1
	}
	return 0
}

func (v Version) String() string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}
