// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfineRelPath(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.png"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(outside, "secret.png"), []byte("x"), 0o600))
	require.NoError(t, os.Symlink(filepath.Join(outside, "secret.png"), filepath.Join(root, "link.png")))
	require.NoError(t, os.Symlink(filepath.Join(root, "a.png"), filepath.Join(root, "inner.png")))
	require.NoError(t, os.Symlink(filepath.Join(root, "gone.png"), filepath.Join(root, "dangling.png")))

	realRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)

	tests := []struct {
		name    string
		rel     string
		want    string
		wantErr error
	}{
		{name: "plain", rel: "a.png", want: filepath.Join(realRoot, "a.png")},
		{name: "missing_file", rel: "new.png", want: filepath.Join(realRoot, "new.png")},
		{name: "symlink_inside", rel: "inner.png", want: filepath.Join(realRoot, "a.png")},
		{name: "symlink_outside", rel: "link.png", wantErr: ErrEscapesRoot},
		{name: "dangling", rel: "dangling.png", wantErr: ErrEscapesRoot},
		{name: "traversal", rel: "../x.png", wantErr: ErrEscapesRoot},
		{name: "absolute", rel: "/etc/passwd", wantErr: ErrEscapesRoot},
		{name: "backslash", rel: `..\x.png`, wantErr: ErrEscapesRoot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConfineRelPath(root, tt.rel)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfineRelPath_MissingRoot(t *testing.T) {
	_, err := ConfineRelPath(filepath.Join(t.TempDir(), "nope"), "a.png")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestIsRegularFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	assert.NoError(t, IsRegularFile(file))
	assert.Error(t, IsRegularFile(dir))
	assert.ErrorIs(t, IsRegularFile(filepath.Join(dir, "missing")), os.ErrNotExist)
}
