// Package unit writes unit configuration into a generator output
// directory.
package unit

import (
	"errors"
	"fmt"
	"path"
	"strings"

	sdunit "github.com/coreos/go-systemd/v22/unit"
)

// MaxNameLength is the longest unit name the service manager accepts.
const MaxNameLength = 255

var (
	ErrInvalidPath   = errors.New("invalid path for unit name")
	ErrInvalidSuffix = errors.New("invalid unit suffix")
	ErrNameTooLong   = errors.New("unit name too long")
)

// NameFromPath derives the unit name for path, e.g. "/dev/sda2" and
// ".device" give "dev-sda2.device". The path is simplified first, so
// "/dev//sda2" and "/dev/sda2/" give the same name as the service manager
// computes for them. ".." components are refused.
func NameFromPath(fsPath, suffix string) (string, error) {
	if len(suffix) < 2 || suffix[0] != '.' || strings.ContainsAny(suffix[1:], "./") {
		return "", fmt.Errorf("%w: %q", ErrInvalidSuffix, suffix)
	}

	clean, err := simplifyPath(fsPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}

	escaped := "-"
	if clean != "/" {
		escaped = sdunit.UnitNamePathEscape(clean)
	}
	name := escaped + suffix
	if len(name) > MaxNameLength {
		return "", fmt.Errorf("%w: %d characters for %q", ErrNameTooLong, len(name), fsPath)
	}

	return name, nil
}

// simplifyPath drops duplicate slashes, "." components and a trailing
// slash from an absolute path.
func simplifyPath(fsPath string) (string, error) {
	if fsPath == "" || fsPath[0] != '/' {
		return "", fmt.Errorf("path %q must be absolute", fsPath)
	}
	if strings.IndexByte(fsPath, 0) >= 0 {
		return "", fmt.Errorf("path %q contains a NUL byte", fsPath)
	}
	for _, c := range strings.Split(fsPath, "/") {
		if c == ".." {
			return "", fmt.Errorf("path %q must not contain \"..\"", fsPath)
		}
	}
	return path.Clean(fsPath), nil
}

func validateName(name string) error {
	dot := strings.LastIndexByte(name, '.')
	if dot <= 0 || dot == len(name)-1 || len(name) > MaxNameLength || strings.ContainsRune(name, '/') {
		return fmt.Errorf("invalid unit name %q", name)
	}
	return nil
}
