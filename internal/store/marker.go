// Package store owns the small pieces of persisted state: the last-update
// day marker and the storage layout around it.
package store

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"freshen/internal/fsutil"
)

// DayNumber returns the number of days between the Unix epoch and the civil
// date of t. Only the date matters; time of day never shifts the count.
func DayNumber(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// LoadMarker reads the persisted last-update day number. ok is false when
// the marker file is missing, unreadable, or does not hold a non-negative
// decimal integer. All three mean "never updated"; corrupt content is never
// silently treated as day zero.
func LoadMarker(path string) (day int, ok bool) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	day, err = strconv.Atoi(strings.TrimSpace(string(blob)))
	if err != nil || day < 0 {
		return 0, false
	}
	return day, true
}

// SaveMarker persists the last-update day number as plain decimal text,
// atomically replacing any previous marker.
func SaveMarker(path string, day int) error {
	if day < 0 {
		return fmt.Errorf("STA_MARKER_RANGE: negative day number %d", day)
	}
	return fsutil.AtomicWrite(path, []byte(strconv.Itoa(day)+"\n"), 0o644)
}
