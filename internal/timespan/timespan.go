// Package timespan parses time spans in the notation used by unit files,
// e.g. "90", "2min", "1h 30min" or "infinity".
package timespan

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Infinity is returned for "infinity" and, by ParseFix0, for a zero span.
const Infinity = time.Duration(math.MaxInt64)

var ErrInvalid = errors.New("invalid time span")

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = time.Duration(30.44 * float64(day))
	year  = time.Duration(365.25 * float64(day))
)

var units = map[string]time.Duration{
	"us":      time.Microsecond,
	"usec":    time.Microsecond,
	"µs":      time.Microsecond,
	"μs":      time.Microsecond,
	"ms":      time.Millisecond,
	"msec":    time.Millisecond,
	"s":       time.Second,
	"sec":     time.Second,
	"second":  time.Second,
	"seconds": time.Second,
	"m":       time.Minute,
	"min":     time.Minute,
	"minute":  time.Minute,
	"minutes": time.Minute,
	"h":       time.Hour,
	"hr":      time.Hour,
	"hour":    time.Hour,
	"hours":   time.Hour,
	"d":       day,
	"day":     day,
	"days":    day,
	"w":       week,
	"week":    week,
	"weeks":   week,
	"M":       month,
	"month":   month,
	"months":  month,
	"y":       year,
	"year":    year,
	"years":   year,
}

func isDigit(r byte) bool {
	return r >= '0' && r <= '9'
}

func isSpace(r byte) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// Parse parses s into a duration. Bare numbers are seconds. Components may
// be separated by whitespace or written back to back ("1h30min").
func Parse(s string) (time.Duration, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "infinity" {
		return Infinity, nil
	}
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalid)
	}

	var total time.Duration
	i := 0
	for i < len(trimmed) {
		for i < len(trimmed) && isSpace(trimmed[i]) {
			i++
		}
		if i == len(trimmed) {
			break
		}

		start := i
		for i < len(trimmed) && (isDigit(trimmed[i]) || trimmed[i] == '.') {
			i++
		}
		number := trimmed[start:i]
		if number == "" || number == "." {
			return 0, fmt.Errorf("%w: %q", ErrInvalid, s)
		}
		value, err := strconv.ParseFloat(number, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalid, s)
		}

		for i < len(trimmed) && isSpace(trimmed[i]) {
			i++
		}
		start = i
		for i < len(trimmed) && !isDigit(trimmed[i]) && !isSpace(trimmed[i]) {
			i++
		}
		suffix := trimmed[start:i]

		unit := time.Second
		if suffix != "" {
			var ok bool
			unit, ok = units[suffix]
			if !ok {
				return 0, fmt.Errorf("%w: unknown unit %q in %q", ErrInvalid, suffix, s)
			}
		}

		component := value * float64(unit)
		if component >= float64(Infinity) || float64(total)+component >= float64(Infinity) {
			return 0, fmt.Errorf("%w: %q is out of range", ErrInvalid, s)
		}
		total += time.Duration(component)
	}

	return total, nil
}

// ParseFix0 is like Parse but treats a zero span as Infinity, which is how
// timeouts interpret 0.
func ParseFix0(s string) (time.Duration, error) {
	d, err := Parse(s)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return Infinity, nil
	}
	return d, nil
}
