// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package picon

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Path(t *testing.T) {
	s := NewStore("/srv/picons")

	p, err := s.Path("1_0_1_70_13_1680000_795_0_0_0.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/picons", "1_0_1_70_13_1680000_795_0_0_0.png"), p)

	for _, bad := range []string{"", "../x.png", "a/b.png", `a\b.png`, ".hidden.png", "logo.jpg", "logo"} {
		_, err := s.Path(bad)
		assert.ErrorIs(t, err, ErrInvalidName, bad)
	}
}

func TestStore_PutOpenList(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "picons")
	s := NewStore(dir)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "b.png", strings.NewReader("second")))
	require.NoError(t, s.Put(ctx, "a.png", strings.NewReader("first")))
	require.NoError(t, s.Put(ctx, "a.png", strings.NewReader("replaced")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	assert.True(t, s.Exists("a.png"))
	assert.False(t, s.Exists("c.png"))

	f, err := s.Open("a.png")
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, f.Close())
	require.NoError(t, err)
	assert.Equal(t, "replaced", string(data))

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "b.png"}, names)
}

func TestStore_ListMissingDir(t *testing.T) {
	names, err := NewStore(filepath.Join(t.TempDir(), "absent")).List()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestStore_CopyFrom(t *testing.T) {
	ctx := context.Background()
	icons := NewStore(t.TempDir())
	picons := NewStore(t.TempDir())

	require.NoError(t, icons.Put(ctx, "ntv.png", strings.NewReader("png-bytes")))
	require.NoError(t, picons.CopyFrom(ctx, icons, "ntv.png", "1_0_1_1_2_3_4_0_0_0.png"))

	got, err := os.ReadFile(filepath.Join(picons.Dir(), "1_0_1_1_2_3_4_0_0_0.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(got))

	err = picons.CopyFrom(ctx, icons, "missing.png", "x.png")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStore_OpenRejectsEscapingSymlink(t *testing.T) {
	dir := t.TempDir()
	outside := filepath.Join(t.TempDir(), "secret.png")
	require.NoError(t, os.WriteFile(outside, []byte("secret"), 0o600))
	require.NoError(t, os.Symlink(outside, filepath.Join(dir, "evil.png")))

	_, err := NewStore(dir).Open("evil.png")
	require.ErrorIs(t, err, ErrInvalidName)

	_, err = NewStore(dir).Open("missing.png")
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = NewStore(filepath.Join(dir, "absent")).Open("a.png")
	require.ErrorIs(t, err, os.ErrNotExist)
}
