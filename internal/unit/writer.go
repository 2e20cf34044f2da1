package unit

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	sdunit "github.com/coreos/go-systemd/v22/unit"
)

// Writer places drop-ins and dependency symlinks below Dir. Every file it
// writes starts with a comment naming GeneratedBy.
type Writer struct {
	Dir         string
	GeneratedBy string
}

func NewWriter(dir, generatedBy string) *Writer {
	return &Writer{
		Dir:         dir,
		GeneratedBy: generatedBy,
	}
}

func (w *Writer) header() string {
	return fmt.Sprintf("# Automatically generated by %s\n\n", w.GeneratedBy)
}

// Render returns the drop-in content for opts including the header.
func (w *Writer) Render(opts []*sdunit.UnitOption) ([]byte, error) {
	body, err := io.ReadAll(sdunit.Serialize(opts))
	if err != nil {
		return nil, err
	}
	return append([]byte(w.header()), body...), nil
}

// WriteDropIn writes <unit>.d/<priority>-<name>.conf and returns its path
// relative to Dir. An existing file is replaced.
func (w *Writer) WriteDropIn(unitName string, priority int, name string, opts []*sdunit.UnitOption) (string, error) {
	if err := validateName(unitName); err != nil {
		return "", err
	}
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid drop-in name %q", name)
	}
	if priority < 0 || priority > 99 {
		return "", fmt.Errorf("drop-in priority %d out of range", priority)
	}

	content, err := w.Render(opts)
	if err != nil {
		return "", fmt.Errorf("failed to render drop-in %s for %s: %w", name, unitName, err)
	}

	rel := filepath.Join(unitName+".d", fmt.Sprintf("%02d-%s.conf", priority, name))
	if err := writeFileAtomic(filepath.Join(w.Dir, rel), content, 0644); err != nil {
		return "", err
	}
	return rel, nil
}

// AddSymlink makes target pull in src through a <target>.<depType>/
// directory, e.g. sysinit.target.wants/foo.service -> ../foo.service.
// It returns the link path relative to Dir.
func (w *Writer) AddSymlink(target, depType, src string) (string, error) {
	if err := validateName(target); err != nil {
		return "", err
	}
	if depType == "" || filepath.Base(depType) != depType {
		return "", fmt.Errorf("invalid dependency type %q", depType)
	}

	from := src
	if !filepath.IsAbs(src) {
		from = filepath.Join("..", src)
	}
	base := filepath.Base(src)
	if err := validateName(base); err != nil {
		return "", err
	}

	rel := filepath.Join(target+"."+depType, base)
	if err := symlinkAtomic(from, filepath.Join(w.Dir, rel)); err != nil {
		return "", err
	}
	return rel, nil
}

func writeFileAtomic(path string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	f, err := os.CreateTemp(dir, ".#"+filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", path, err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	_, err = f.Write(content)
	if err == nil {
		err = f.Chmod(perm)
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to install %s: %w", path, err)
	}
	return nil
}

func symlinkAtomic(from, to string) error {
	dir := filepath.Dir(to)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	if current, err := os.Readlink(to); err == nil && current == from {
		return nil
	}

	tmp := filepath.Join(dir, ".#"+filepath.Base(to))
	if err := os.Remove(tmp); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove stale %s: %w", tmp, err)
	}
	if err := os.Symlink(from, tmp); err != nil {
		return fmt.Errorf("failed to create symlink %s: %w", to, err)
	}
	if err := os.Rename(tmp, to); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to install symlink %s: %w", to, err)
	}
	return nil
}
