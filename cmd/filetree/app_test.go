package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayeah/filetree/ignore"
)

func TestExcludePatterns(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(ignore.DefaultExcludes, excludePatterns(""))
	assert.Equal([]string{".git", "*.log"}, excludePatterns(".git, *.log"))
	assert.Equal([]string{"dist"}, excludePatterns("dist,,"))
}

func TestNewRunnerValidatesRoot(t *testing.T) {
	args := Args{TokenEstimator: "simple"}
	_, err := NewRunner(args, filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err, "a missing root is fatal before the UI starts")
}

func TestNewRunnerUnknownEstimator(t *testing.T) {
	_, err := NewRunner(Args{TokenEstimator: "magic"}, t.TempDir())
	assert.ErrorContains(t, err, "unknown token estimator")
}

// --all skips the UI entirely: everything selected, generated immediately.
func TestRunAllNonInteractive(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.go"), []byte("package hello\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))

	output := filepath.Join(t.TempDir(), "OUT.md")
	// The output path already exists; generation overwrites it.
	require.NoError(t, os.WriteFile(output, []byte("stale"), 0o644))

	args := Args{
		Output:         output,
		TokenEstimator: "simple",
		IncludeHidden:  true,
		MaxBytes:       300000,
		All:            true,
	}
	runner, err := NewRunner(args, dir)
	require.NoError(t, err)
	require.NoError(t, runner.Run())

	out, err := os.ReadFile(output)
	require.NoError(t, err)
	md := string(out)

	assert.Contains(md, "# File Tree for")
	assert.Contains(md, "hello.go")
	assert.Contains(md, "```go\npackage hello")
	assert.NotContains(md, ".git", "default excludes prune version-control internals")
	assert.NotContains(md, "stale", "existing output files are overwritten")
}
