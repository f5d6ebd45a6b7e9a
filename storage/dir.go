package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Dir stores each key in its own "<key>.json" file, in a way that stays
// human-readable and friendly to version control.
type Dir struct {
	path string
}

// NewDir creates the folder if needed.
func NewDir(path string) (*Dir, error) {
	if path == "" {
		return nil, errors.New("storage folder path is empty")
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("could not create storage folder %q: %w", path, err)
	}
	return &Dir{path: path}, nil
}

func (d *Dir) filename(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(d.path, key+".json"), nil
}

func (d *Dir) Get(_ context.Context, key string) (string, bool, error) {
	filename, err := d.filename(key)
	if err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cannot read %q: %w", filename, err)
	}
	return string(data), true, nil
}

// Set writes to a temporary file first, then renames it over the target.
func (d *Dir) Set(_ context.Context, key, value string) error {
	filename, err := d.filename(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(d.path, "."+key+"-*")
	if err != nil {
		return fmt.Errorf("cannot create temporary file for %q: %w", filename, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("cannot write %q: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cannot write %q: %w", filename, err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("cannot replace %q: %w", filename, err)
	}
	return nil
}

func (d *Dir) Close() error { return nil }
