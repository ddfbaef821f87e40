// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package fsutil keeps file access inside a store directory.
package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrEscapesRoot is returned when a path resolves outside its root.
var ErrEscapesRoot = errors.New("path escapes root")

// ConfineRelPath joins root and rel and resolves symlinks, failing when
// the result is not underneath the resolved root. rel must be relative.
// A missing root is reported as fs.ErrNotExist.
func ConfineRelPath(root, rel string) (string, error) {
	if strings.Contains(rel, `\`) {
		return "", fmt.Errorf("%w: backslash in %q", ErrEscapesRoot, rel)
	}
	clean := filepath.Clean(rel)
	if filepath.IsAbs(clean) {
		return "", fmt.Errorf("%w: %q is absolute", ErrEscapesRoot, rel)
	}
	if isOutside(clean) {
		return "", fmt.Errorf("%w: %q", ErrEscapesRoot, rel)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}
	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", err
	}

	full := filepath.Join(realRoot, clean)
	real, err := filepath.EvalSymlinks(full)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		// Only a dangling target is tolerated; the parent must resolve.
		parent, perr := filepath.EvalSymlinks(filepath.Dir(full))
		if perr != nil {
			return "", perr
		}
		if _, lerr := os.Lstat(full); lerr == nil {
			return "", fmt.Errorf("%w: dangling symlink %q", ErrEscapesRoot, rel)
		}
		real = filepath.Join(parent, filepath.Base(full))
	default:
		return "", fmt.Errorf("resolve %q: %w", rel, err)
	}

	inside, err := filepath.Rel(realRoot, real)
	if err != nil || isOutside(inside) {
		return "", fmt.Errorf("%w: %q resolves to %s", ErrEscapesRoot, rel, real)
	}
	return real, nil
}

// IsRegularFile returns an error unless path exists and is a regular file.
func IsRegularFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s", path)
	}
	return nil
}

func isOutside(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
