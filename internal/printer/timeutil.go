package printer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/slok/critroute/internal/model"
)

var agoUnits = []struct {
	name string
	size time.Duration
}{
	{"day", 24 * time.Hour},
	{"hour", time.Hour},
	{"minute", time.Minute},
	{"second", time.Second},
}

// TimeAgo returns a human-readable relative time string in UTC.
// Examples: "5 seconds ago (UTC)", "2 minutes ago (UTC)", "3 hours ago (UTC)".
func TimeAgo(t time.Time) string {
	diff := time.Now().UTC().Sub(t.UTC())
	if diff < 0 {
		return "in the future (UTC)"
	}

	for _, u := range agoUnits {
		if diff < u.size && u.size != time.Second {
			continue
		}
		n := int(diff / u.size)
		if n == 1 {
			return fmt.Sprintf("1 %s ago (UTC)", u.name)
		}
		return fmt.Sprintf("%d %ss ago (UTC)", n, u.name)
	}

	return ""
}

// FormatTimestamp returns a formatted timestamp string in UTC.
// Format: "2006-01-02 15:04:05 UTC".
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}

// FormatDate returns the calendar date of a schedule time.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatNumber returns the shortest decimal representation of a schedule value.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatDuration returns a duration with its project time unit, e.g. "7.5 Dias".
func FormatDuration(v float64, unit model.TimeUnit) string {
	return strings.TrimSpace(FormatNumber(v) + " " + string(unit))
}

func formatNumbers(numbers []int, sep string) string {
	s := make([]string, 0, len(numbers))
	for _, n := range numbers {
		s = append(s, strconv.Itoa(n))
	}
	return strings.Join(s, sep)
}
