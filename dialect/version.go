package dialect

import (
	"fmt"
	"strconv"
	"strings"
)

// Version database product version
type Version struct {
	Major, Minor, Micro int
}

// V builds a version from its components
func V(major int, rest ...int) Version {
	v := Version{Major: major}
	if len(rest) > 0 {
		v.Minor = rest[0]
	}
	if len(rest) > 1 {
		v.Micro = rest[1]
	}
	return v
}

// ParseVersion reads the first dotted number in s, so "15.2", "8.0.34-log"
// and "PostgreSQL 15.2 on x86_64-pc-linux-gnu" are all accepted
func ParseVersion(s string) (Version, error) {
	start := strings.IndexAny(s, "0123456789")
	if start < 0 {
		return Version{}, fmt.Errorf("invalid version %q", s)
	}

	var parts [3]int
	n := 0
	for i := start; n < len(parts); n++ {
		j := i
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		if j == i {
			break
		}
		value, err := strconv.Atoi(s[i:j])
		if err != nil {
			return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
		}
		parts[n] = value
		if j+1 >= len(s) || s[j] != '.' || s[j+1] < '0' || s[j+1] > '9' {
			n++
			break
		}
		i = j + 1
	}
	return Version{Major: parts[0], Minor: parts[1], Micro: parts[2]}, nil
}

// MustParseVersion like ParseVersion but panics on error
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) IsZero() bool {
	return v == Version{}
}

// Compare returns -1, 0 or 1
func (v Version) Compare(o Version) int {
	for _, d := range [...]int{v.Major - o.Major, v.Minor - o.Minor, v.Micro - o.Micro} {
		if d < 0 {
			return -1
		}
		if d > 0 {
			return 1
		}
	}
	return 0
}

// IsSameOrAfter reports v >= major.minor.micro
func (v Version) IsSameOrAfter(major int, rest ...int) bool {
	return v.Compare(V(major, rest...)) >= 0
}

func (v Version) String() string {
	if v.Micro != 0 {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Micro)
	}
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}
