// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/textfile-editor/internal/transform"
	"github.com/pdiddy/textfile-editor/pkg/types"
)

// fakeRecorder implements Recorder for testing.
type fakeRecorder struct {
	entries []types.HistoryEntry
	err     error
}

func (f *fakeRecorder) Record(_ context.Context, e types.HistoryEntry) (types.HistoryEntry, error) {
	if f.err != nil {
		return e, f.err
	}
	f.entries = append(f.entries, e)
	return e, nil
}

const logLine = `2024-01-01 INFO {"message":"hello","utc_time_stamp":"2024-01-01T00:00:00Z"}`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "logs", "a.log"), "a")
	writeFile(t, filepath.Join(dir, "logs", "sub", "b.log"), "b")
	writeFile(t, filepath.Join(dir, "logs", "notes.txt"), "c")
	writeFile(t, filepath.Join(dir, "logs", ".hidden", "d.log"), "d")
	writeFile(t, filepath.Join(dir, "single.txt"), "e")

	tests := []struct {
		name    string
		paths   []string
		include string
		want    []string
	}{
		{
			name:  "directory without filter",
			paths: []string{filepath.Join(dir, "logs")},
			want:  []string{"a.log", "notes.txt", filepath.Join("sub", "b.log")},
		},
		{
			name:    "directory with glob",
			paths:   []string{filepath.Join(dir, "logs")},
			include: "*.log",
			want:    []string{"a.log", filepath.Join("sub", "b.log")},
		},
		{
			name:    "explicit file ignores glob",
			paths:   []string{filepath.Join(dir, "single.txt")},
			include: "*.log",
			want:    []string{"single.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputs, err := Expand(tt.paths, tt.include)
			require.NoError(t, err)
			var rels []string
			for _, in := range inputs {
				rels = append(rels, in.Rel)
			}
			sort.Strings(rels)
			assert.Equal(t, tt.want, rels)
		})
	}

	_, err := Expand([]string{filepath.Join(dir, "missing")}, "")
	require.Error(t, err)

	_, err = Expand([]string{dir}, "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid include pattern")
}

func TestExpand_DuplicateOutputPaths(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a", "app.log")
	second := filepath.Join(dir, "b", "app.log")
	writeFile(t, first, "a")
	writeFile(t, second, "b")

	_, err := Expand([]string{first, second}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "same output path app.log")

	_, err = Expand([]string{filepath.Join(dir, "a"), filepath.Join(dir, "b")}, "")
	require.Error(t, err)

	inputs, err := Expand([]string{first, filepath.Join(dir, "b")}, "*.txt")
	require.NoError(t, err)
	assert.Len(t, inputs, 1)
}

func TestNew_RequiresDestination(t *testing.T) {
	_, err := New(transform.Default(), nil, Options{})
	require.Error(t, err)
}

func TestRun_OutDir(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in")
	out := filepath.Join(dir, "out")
	writeFile(t, filepath.Join(in, "app.log"), logLine+"\nplain")
	writeFile(t, filepath.Join(in, "plain.log"), "nothing to do")

	rec := &fakeRecorder{}
	p, err := New(transform.Default(), rec, Options{OutDir: out})
	require.NoError(t, err)

	inputs, err := Expand([]string{in}, "")
	require.NoError(t, err)

	var log bytes.Buffer
	result, err := p.Run(context.Background(), inputs, &log)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Transformed)
	assert.Equal(t, 1, result.Unchanged)
	assert.False(t, result.HasFailures())
	assert.Equal(t, 2, result.Total())

	assert.Equal(t, "hello\nplain", readFile(t, filepath.Join(out, "app.log")))
	assert.Equal(t, "nothing to do", readFile(t, filepath.Join(out, "plain.log")))
	assert.Equal(t, logLine+"\nplain", readFile(t, filepath.Join(in, "app.log")), "input untouched")

	assert.Contains(t, log.String(), "transformed:")
	assert.Contains(t, log.String(), "Batch summary: 1 transformed, 1 unchanged, 0 failed")

	require.Len(t, rec.entries, 2)
	for _, e := range rec.entries {
		assert.Equal(t, "extract", e.Operation)
		assert.Equal(t, types.ModeMessage, e.Mode)
		assert.Equal(t, 0, e.Fallbacks)
	}
}

func TestRun_InPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	writeFile(t, path, logLine)

	p, err := New(transform.Default(), nil, Options{InPlace: true})
	require.NoError(t, err)

	var log bytes.Buffer
	result, err := p.Run(context.Background(), []Input{{Path: path, Rel: "app.log"}}, &log)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Transformed)
	assert.Equal(t, "hello", readFile(t, path))
}

func TestRun_Failures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.log")
	writeFile(t, good, logLine)

	p, err := New(transform.Default(), &fakeRecorder{err: errors.New("db locked")}, Options{OutDir: filepath.Join(dir, "out")})
	require.NoError(t, err)

	inputs := []Input{
		{Path: filepath.Join(dir, "missing.log"), Rel: "missing.log"},
		{Path: good, Rel: "good.log"},
	}
	var log bytes.Buffer
	result, err := p.Run(context.Background(), inputs, &log)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Transformed)
	assert.True(t, result.HasFailures())
	assert.Contains(t, log.String(), "failed:")
	assert.Contains(t, log.String(), "warning:")
	assert.Contains(t, log.String(), "db locked")
}

func TestRun_Progress(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	writeFile(t, path, logLine)

	var bar bytes.Buffer
	p, err := New(transform.Default(), nil, Options{OutDir: filepath.Join(dir, "out"), Progress: true, ProgressOut: &bar})
	require.NoError(t, err)

	var log bytes.Buffer
	_, err = p.Run(context.Background(), []Input{{Path: path, Rel: "app.log"}}, &log)
	require.NoError(t, err)

	assert.NotContains(t, log.String(), "transformed:")
	assert.Contains(t, log.String(), "Batch summary")
}

func TestRun_Cancelled(t *testing.T) {
	p, err := New(transform.Default(), nil, Options{InPlace: true})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.Run(ctx, []Input{{Path: "x", Rel: "x"}}, &bytes.Buffer{})
	require.ErrorIs(t, err, context.Canceled)
}
