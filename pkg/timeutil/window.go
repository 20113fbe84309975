// Package timeutil parses the human-friendly report windows the report
// command accepts, like "3d" or "1w2d6h30m".
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultWindow is the report window used when none is given.
const DefaultWindow = "1w"

const (
	day  = 24 * time.Hour
	week = 7 * day
)

var units = map[string]time.Duration{
	"s": time.Second, "sec": time.Second, "second": time.Second, "seconds": time.Second,
	"m": time.Minute, "min": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hr": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"d": day, "day": day, "days": day,
	"w": week, "wk": week, "week": week, "weeks": week,
}

// ParseWindow reads a window as a sequence of count/unit pairs, whitespace
// ignored, and returns the total duration with its canonical compact label.
// Empty input means DefaultWindow.
func ParseWindow(input string) (time.Duration, string, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		s = DefaultWindow
	}

	var total time.Duration
	i := 0
	for i < len(s) {
		for i < len(s) && s[i] == ' ' {
			i++
		}
		if i == len(s) {
			break
		}
		j := i
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		if j == i {
			return 0, "", fmt.Errorf("timeutil: window %q: expected a count before %q", input, s[i:])
		}
		n, err := strconv.Atoi(s[i:j])
		if err != nil {
			return 0, "", fmt.Errorf("timeutil: window %q: %w", input, err)
		}
		i = j
		for i < len(s) && s[i] == ' ' {
			i++
		}
		j = i
		for j < len(s) && s[j] >= 'a' && s[j] <= 'z' {
			j++
		}
		unit, ok := units[s[i:j]]
		if !ok {
			return 0, "", fmt.Errorf("timeutil: window %q: unknown unit %q", input, s[i:j])
		}
		total += time.Duration(n) * unit
		i = j
	}
	if total <= 0 {
		return 0, "", fmt.Errorf("timeutil: window %q is not positive", input)
	}
	return total, FormatWindow(total), nil
}

// FormatWindow renders d as the compact label ParseWindow returns, largest
// units first, dropping units with a zero count.
func FormatWindow(d time.Duration) string {
	if d < time.Second {
		return "0s"
	}
	spans := []struct {
		label byte
		span  time.Duration
	}{
		{'w', week},
		{'d', day},
		{'h', time.Hour},
		{'m', time.Minute},
		{'s', time.Second},
	}
	var b strings.Builder
	for _, u := range spans {
		if d < u.span {
			continue
		}
		b.WriteString(strconv.FormatInt(int64(d/u.span), 10))
		b.WriteByte(u.label)
		d %= u.span
	}
	return b.String()
}
