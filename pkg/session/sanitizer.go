package session

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/waypoint/pkg/domain"
)

var (
	// DefaultMaxPathSize bounds requested paths, query string included.
	DefaultMaxPathSize = 2048
	// EnvMaxPathSize is the environment variable to override the default
	EnvMaxPathSize = "WAYPOINT_MAX_PATH_SIZE"
)

// SanitizePath enforces the size limit, validates UTF-8 and strips control
// characters (ANSI escapes, NUL, newlines) that would poison logs and terminals.
func SanitizePath(path string) (string, error) {
	limit := maxPathSize()
	if len(path) > limit {
		// Rejected rather than truncated: a truncated path could match another route.
		return "", fmt.Errorf("%w: size=%d limit=%d", domain.ErrInvalidPath, len(path), limit)
	}
	if !utf8.ValidString(path) {
		return "", fmt.Errorf("%w: invalid UTF-8", domain.ErrInvalidPath)
	}

	if strings.IndexFunc(path, unicode.IsControl) < 0 {
		return path, nil
	}
	var b strings.Builder
	b.Grow(len(path))
	for _, r := range path {
		if !unicode.IsControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func maxPathSize() int {
	if val := os.Getenv(EnvMaxPathSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxPathSize
}
