package xfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{"relative", "out/addrs.txt", "out/addrs.txt", nil},
		{"cleaned", "./out//addrs.txt", "out/addrs.txt", nil},
		{"dots in name", "app..2026.log", "app..2026.log", nil},
		{"absolute dotdot", "/var/log/../tmp/a.txt", "/var/tmp/a.txt", nil},
		{"empty", "", "", ErrEmptyPath},
		{"null byte", "a\x00b", "", ErrNullByte},
		{"trailing slash", "out/", "", ErrInvalidPath},
		{"trailing backslash", "out\\", "", ErrInvalidPath},
		{"traversal", "../etc/passwd", "", ErrPathTraversal},
		{"inner traversal", "out/../../x", "", ErrPathTraversal},
		{"root", "/", "", ErrInvalidPath},
		{"dot", ".", "", ErrInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizePath(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnsureDir(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a", "b", "file.log")

	require.NoError(t, EnsureDir(target))
	info, err := os.Stat(filepath.Dir(target))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.NoError(t, EnsureDir(target), "existing dir")
	require.NoError(t, EnsureDir("file.log"), "current dir")
	assert.ErrorIs(t, EnsureDir(""), ErrEmptyPath)
	assert.ErrorIs(t, EnsureDir("a\x00b/c"), ErrNullByte)
}

func TestCreate(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "addrs.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), DefaultDirPerm))
	require.NoError(t, os.WriteFile(target, []byte("old content\n"), DefaultFilePerm))

	f, err := Create(target)
	require.NoError(t, err)
	_, err = f.WriteString("10.0.0.1\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1\n", string(data))
}

func TestCreate_MakesParent(t *testing.T) {
	target := filepath.Join(t.TempDir(), "x", "y", "addrs.txt")
	f, err := Create(target)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.FileExists(t, target)
}

func TestCreate_Rejects(t *testing.T) {
	_, err := Create("../escape.txt")
	assert.ErrorIs(t, err, ErrPathTraversal)
}
