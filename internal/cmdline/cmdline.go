// Package cmdline reads and tokenizes the kernel command line.
package cmdline

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultPath is where the kernel exposes its command line.
	DefaultPath = "/proc/cmdline"

	// OverrideEnv replaces the kernel command line when set, mostly for
	// debugging generators outside of a real boot.
	OverrideEnv = "SYSTEMD_PROC_CMDLINE"

	initrdPrefix = "rd."
)

var ErrUnterminatedQuote = errors.New("unterminated quote")

// Param is a single key[=value] word of the command line.
type Param struct {
	Key      string
	Value    string
	HasValue bool
}

func (p Param) String() string {
	if !p.HasValue {
		return p.Key
	}
	return p.Key + "=" + p.Value
}

// HandlerFunc is called once for every parameter, in command line order.
// Returning an error stops the iteration.
type HandlerFunc func(p Param) error

// Load returns the raw command line, preferring OverrideEnv over path.
func Load(path string) (string, error) {
	if line, ok := os.LookupEnv(OverrideEnv); ok {
		return line, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cannot read kernel command line: %w", err)
	}
	return string(data), nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// words splits line at unquoted whitespace. Single and double quotes are
// removed wherever they appear in a word, backslashes are kept as is.
func words(line string) ([]string, error) {
	var result []string
	var current strings.Builder
	inWord := false
	var quote byte

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				current.WriteByte(c)
			}
		case c == '"' || c == '\'':
			quote = c
			inWord = true
		case isSpace(c):
			if inWord {
				result = append(result, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteByte(c)
			inWord = true
		}
	}

	if quote != 0 {
		return result, fmt.Errorf("%w in kernel command line", ErrUnterminatedQuote)
	}
	if inWord {
		result = append(result, current.String())
	}
	return result, nil
}

// Parse tokenizes line. On a quoting error the parameters before the
// broken word are returned together with the error.
func Parse(line string) ([]Param, error) {
	split, err := words(line)

	params := make([]Param, 0, len(split))
	for _, word := range split {
		key, value, hasValue := strings.Cut(word, "=")
		params = append(params, Param{Key: key, Value: value, HasValue: hasValue})
	}

	return params, err
}

// Flags change how Filter treats rd. prefixed keys.
type Flags uint

const (
	// StripInitrdPrefix makes rd.foo behave like foo inside the initrd.
	StripInitrdPrefix Flags = 1 << iota
)

// Filter applies the rd. prefix rules. Outside the initrd rd.foo is
// dropped. Inside it rd.foo keeps its prefix unless StripInitrdPrefix is
// set.
func Filter(params []Param, inInitrd bool, flags Flags) []Param {
	result := make([]Param, 0, len(params))
	for _, p := range params {
		if key, ok := strings.CutPrefix(p.Key, initrdPrefix); ok {
			if !inInitrd {
				continue
			}
			if flags&StripInitrdPrefix != 0 {
				p.Key = key
			}
		}
		result = append(result, p)
	}
	return result
}

// Each calls fn for each parameter and stops at the first error.
func Each(params []Param, fn HandlerFunc) error {
	for _, p := range params {
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}

// KeyEqual compares two keys treating '-' and '_' as the same character.
func KeyEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		x, y := a[i], b[i]
		if x == '-' {
			x = '_'
		}
		if y == '-' {
			y = '_'
		}
		if x != y {
			return false
		}
	}
	return true
}

// ValueMissing reports whether p lacks a value, logging a warning if so.
func ValueMissing(logger logrus.FieldLogger, p Param) bool {
	if p.HasValue {
		return false
	}
	logger.Warnf("Missing argument for %s= kernel command line switch, ignoring.", p.Key)
	return true
}

// Lookup returns the value of the last occurrence of key.
func Lookup(params []Param, key string) (string, bool) {
	var value string
	found := false
	for _, p := range params {
		if KeyEqual(p.Key, key) && p.HasValue {
			value, found = p.Value, true
		}
	}
	return value, found
}
