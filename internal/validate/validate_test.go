// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("img"), 0o644))
}

func TestMissingImages(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "graficas", "a.png"))
	abs := filepath.Join(root, "abs.png")
	touch(t, abs)

	tests := []struct {
		name  string
		paths []string
		want  []string
	}{
		{"none referenced", nil, []string{}},
		{"all present", []string{"graficas/a.png", abs}, []string{}},
		{"one missing", []string{"graficas/a.png", "graficas/b.png"}, []string{"graficas/b.png"}},
		{"order kept", []string{"z.png", "graficas/a.png", "b.png"}, []string{"z.png", "b.png"}},
		{"directory is not checked for type", []string{"graficas"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MissingImages(root, tt.paths))
		})
	}
}

func TestImagesReportsAllMissing(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "ok.png"))

	err := Images(root, []string{"ok.png", "graficas/a.png", "graficas/b.png", "graficas/a.png"})
	require.Error(t, err)

	var missing *MissingImagesError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"graficas/a.png", "graficas/b.png"}, missing.Paths)
	assert.Contains(t, err.Error(), "2 referenced image(s) not found")
	assert.Contains(t, err.Error(), "graficas/b.png")
}

func TestImagesAllPresent(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.png"))
	assert.NoError(t, Images(root, []string{"a.png"}))
	assert.NoError(t, Images(root, nil))
}
