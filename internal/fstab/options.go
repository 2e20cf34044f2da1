package fstab

import (
	"errors"
	"fmt"
	"strings"

	"github.com/osbuild/hibernate-resume-generator/internal/timespan"
)

var ErrUnterminatedQuote = errors.New("unterminated quote")

// SplitOptions splits a comma separated mount option string. Commas inside
// double quotes do not separate options; the quotes are kept.
func SplitOptions(opts string) ([]string, error) {
	if opts == "" {
		return nil, nil
	}

	var result []string
	var current strings.Builder
	quoted := false
	for i := 0; i < len(opts); i++ {
		c := opts[i]
		switch {
		case c == '"':
			quoted = !quoted
			current.WriteByte(c)
		case c == ',' && !quoted:
			result = append(result, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	if quoted {
		return nil, fmt.Errorf("%w in options %q", ErrUnterminatedQuote, opts)
	}
	result = append(result, current.String())

	return result, nil
}

// FilterOptions looks for the options in names. Each name matches both the
// bare flag and name=value. The value of the last match is returned and
// filtered holds the remaining options joined again with commas.
func FilterOptions(opts string, names ...string) (value string, found bool, filtered string, err error) {
	split, err := SplitOptions(opts)
	if err != nil {
		return "", false, "", err
	}

	var rest []string
	for _, opt := range split {
		matched := false
		for _, name := range names {
			if opt == name {
				value, found, matched = "", true, true
				break
			}
			if v, ok := strings.CutPrefix(opt, name+"="); ok {
				value, found, matched = unquote(v), true, true
				break
			}
		}
		if !matched {
			rest = append(rest, opt)
		}
	}

	return value, found, strings.Join(rest, ","), nil
}

// DeviceTimeout extracts the device timeout requested in opts. It returns
// the timeout as written and true if one was given, false if there is none,
// or an error if the options or the timeout cannot be parsed.
func DeviceTimeout(opts string) (string, bool, error) {
	value, found, _, err := FilterOptions(opts, "comment=systemd.device-timeout", "x-systemd.device-timeout")
	if err != nil {
		return "", false, err
	}
	if !found {
		return "", false, nil
	}
	if value == "" {
		return "", false, fmt.Errorf("device timeout option without a value in %q", opts)
	}

	if _, err := timespan.ParseFix0(value); err != nil {
		return "", false, fmt.Errorf("failed to parse device timeout %q: %w", value, err)
	}

	return value, true, nil
}
