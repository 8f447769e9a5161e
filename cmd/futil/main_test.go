package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futil/internal/compiler"
)

func init() {
	color.NoColor = true
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Nanosecond, "500ns"},
		{1500 * time.Nanosecond, "1.5μs"},
		{2500 * time.Microsecond, "2.5ms"},
		{1500 * time.Millisecond, "1.50s"},
		{90 * time.Second, "1.50min"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d))
	}
}

func defaultOptions(t *testing.T) compiler.Options {
	t.Helper()
	opts, err := config{passList: "default", emit: "ir"}.options()
	require.NoError(t, err)
	return opts
}

func TestCompileFilesKeepsArgumentOrder(t *testing.T) {
	paths := []string{"../../examples/branches.futil", "../../examples/counter.futil"}
	results, err := compileFiles(context.Background(), paths, defaultOptions(t))
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, paths[0], results[0].Filename)
	assert.Equal(t, paths[1], results[1].Filename)
	assert.Equal(t, "max", results[0].Context.Components[0].Name)
}

func TestCompileFilesMissingFile(t *testing.T) {
	_, err := compileFiles(context.Background(), []string{"../../examples/nope.futil"}, defaultOptions(t))
	assert.ErrorContains(t, err, "failed to read file")
}

func TestRender(t *testing.T) {
	results, err := compileFiles(context.Background(), []string{"../../examples/counter.futil"}, defaultOptions(t))
	require.NoError(t, err)

	var out bytes.Buffer
	ok := render(&out, results[0], config{emit: "ir", schedule: true})
	assert.True(t, ok)
	assert.Contains(t, out.String(), "component main(go: 1) -> (done: 1) {")
	assert.Contains(t, out.String(), "schedule main:\n0: start lt\n1: done lt\n1: sample lt.out = false\n1: done")
}

func TestRenderDiagnostics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.futil")
	require.NoError(t, os.WriteFile(path, []byte(`namespace bad {
  component main() -> () {
    structure { cell r = std_reg(8); }
    control { enable ghost; }
  }
}`), 0o644))

	results, err := compileFiles(context.Background(), []string{path}, defaultOptions(t))
	require.NoError(t, err)

	var out bytes.Buffer
	assert.False(t, render(&out, results[0], config{emit: "ir"}))
	assert.Contains(t, out.String(), "error[E0201]")
	assert.NotContains(t, out.String(), "component main")
}

func TestConfigOptions(t *testing.T) {
	_, err := config{passList: "default", emit: "netlist"}.options()
	assert.ErrorContains(t, err, "unknown -emit value")

	_, err = config{passList: "bogus", emit: "ir"}.options()
	assert.ErrorContains(t, err, `unknown pass "bogus"`)

	_, err = config{passList: "default", emit: "ir", libPath: "missing.yaml"}.options()
	assert.Error(t, err)

	opts, err := config{passList: "well-formed", emit: "none", noPasses: true}.options()
	require.NoError(t, err)
	assert.True(t, opts.SkipPasses)
	assert.Len(t, opts.Pipeline.Passes(), 1)
}

func TestRelevant(t *testing.T) {
	abs, err := filepath.Abs("prog.futil")
	require.NoError(t, err)
	tracked := map[string]bool{abs: true}

	assert.True(t, relevant(fsnotify.Event{Name: "prog.futil", Op: fsnotify.Write}, tracked))
	assert.True(t, relevant(fsnotify.Event{Name: abs, Op: fsnotify.Create}, tracked))
	assert.False(t, relevant(fsnotify.Event{Name: abs, Op: fsnotify.Chmod}, tracked))
	assert.False(t, relevant(fsnotify.Event{Name: "other.futil", Op: fsnotify.Write}, tracked))
}
