// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package picon stores PNG files under flat names in one directory. It
// backs both the normalized channel icons and the exported picons.
package picon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/ManuGH/lamesync/internal/fsutil"
	xglog "github.com/ManuGH/lamesync/internal/log"
)

// ErrInvalidName is returned for names that are not plain .png file names.
var ErrInvalidName = errors.New("invalid picon name")

// Store is a directory of PNG files.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created on first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the file path for name.
func (s *Store) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) ||
		strings.HasPrefix(name, ".") || !strings.EqualFold(filepath.Ext(name), ".png") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.dir, name), nil
}

// Exists reports whether name is present.
func (s *Store) Exists(name string) bool {
	path, err := s.Path(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Put atomically writes the content of r to name.
func (s *Store) Put(ctx context.Context, name string, r io.Reader) error {
	logger := xglog.WithComponentFromContext(ctx, "picon")

	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("create picon dir: %w", err)
	}

	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending picon %s: %w", name, err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Str(xglog.FieldPicon, name).Msg("cleanup pending picon")
		}
	}()

	if _, err := io.Copy(pendingFile, r); err != nil {
		return fmt.Errorf("write picon %s: %w", name, err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace picon %s: %w", name, err)
	}
	return nil
}

// Open opens name for reading.
func (s *Store) Open(name string) (*os.File, error) {
	if _, err := s.Path(name); err != nil {
		return nil, err
	}
	path, err := fsutil.ConfineRelPath(s.dir, name)
	if errors.Is(err, fsutil.ErrEscapesRoot) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	if err != nil {
		return nil, err
	}
	if err := fsutil.IsRegularFile(path); err != nil {
		return nil, err
	}
	// #nosec G304 -- path is confined to the store directory
	return os.Open(path)
}

// CopyFrom copies srcName from src into this store as dstName.
func (s *Store) CopyFrom(ctx context.Context, src *Store, srcName, dstName string) error {
	f, err := src.Open(srcName)
	if err != nil {
		return fmt.Errorf("open source icon: %w", err)
	}
	defer func() { _ = f.Close() }()
	return s.Put(ctx, dstName, f)
}

// List returns the sorted names of all PNG files in the store.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list picons: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
