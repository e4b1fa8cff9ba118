package daily

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// ParseDateKey checks that s is a YYYY-MM-DD date and returns it unchanged.
func ParseDateKey(s string) (string, error) {
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return s, nil
}
