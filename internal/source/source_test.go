// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	utf8Path := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(utf8Path, []byte("héllo {\"message\":\"x\"}\n"), 0o644))

	latinPath := filepath.Join(dir, "legacy.log")
	require.NoError(t, os.WriteFile(latinPath, []byte{'c', 'a', 'f', 0xe9}, 0o644))

	tests := []struct {
		name       string
		path       string
		stdin      string
		noStdin    bool
		wantName   string
		wantText   string
		wantLatin1 bool
		errMsg     string
	}{
		{
			name:     "utf-8 file",
			path:     utf8Path,
			wantName: "app.log",
			wantText: "héllo {\"message\":\"x\"}\n",
		},
		{
			name:       "latin-1 file is decoded",
			path:       latinPath,
			wantName:   "legacy.log",
			wantText:   "café",
			wantLatin1: true,
		},
		{
			name:     "dash reads stdin",
			path:     "-",
			stdin:    "from stdin",
			wantName: "stdin",
			wantText: "from stdin",
		},
		{
			name:     "empty path reads stdin",
			stdin:    "",
			wantName: "stdin",
			wantText: "",
		},
		{
			name:    "no stdin reader",
			noStdin: true,
			errMsg:  "no input",
		},
		{
			name:   "missing file",
			path:   filepath.Join(dir, "missing.log"),
			errMsg: "opening",
		},
		{
			name:   "directory",
			path:   dir,
			errMsg: "is a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdin io.Reader
			if !tt.noStdin {
				stdin = strings.NewReader(tt.stdin)
			}

			doc, err := Load(tt.path, stdin)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, doc.Name)
			assert.Equal(t, tt.wantText, doc.Content)
			assert.Equal(t, tt.wantLatin1, doc.Latin1)
		})
	}
}

func TestLoad_NoInputSentinel(t *testing.T) {
	_, err := Load("", nil)
	require.ErrorIs(t, err, ErrNoInput)
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.txt")

	require.NoError(t, Save(path, "first"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	require.NoError(t, os.Chmod(path, 0o600))
	require.NoError(t, Save(path, "second"))

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must be cleaned up")
}

func TestLoadString(t *testing.T) {
	doc := LoadString("paste", "a\nb")
	assert.Equal(t, "paste", doc.Name)
	assert.Equal(t, int64(3), doc.Size)
	assert.False(t, doc.Latin1)
}
