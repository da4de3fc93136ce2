package project

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/roach88/arduhome/internal/build"
	"github.com/roach88/arduhome/internal/config"
	"github.com/roach88/arduhome/internal/testutil"
)

// pio runs as a subprocess; no copying goroutine may outlive a Run.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func compileExample(t *testing.T) *build.Result {
	t.Helper()
	cfg, err := config.Parse("config.yaml", []byte(testutil.ExampleConfig))
	require.NoError(t, err)
	res, err := build.Compile(cfg, build.Options{})
	require.NoError(t, err)
	return res
}

func TestDefaultDir(t *testing.T) {
	dir, err := DefaultDir(filepath.Join("configs", "config.yaml"), "livingroom")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("configs", "livingroom"), dir)
}

func TestDirRejectsEscapingNames(t *testing.T) {
	for _, name := range []string{"", ".", "..", "...", "a/b", "../x", `a\b`, "/abs"} {
		_, err := Dir("configs", name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestDirAllowsDottedNames(t *testing.T) {
	dir, err := Dir("configs", "node.v2")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("configs", "node.v2"), dir)
}

func TestWrite(t *testing.T) {
	res := compileExample(t)
	dir := filepath.Join(t.TempDir(), "livingroom")

	require.NoError(t, Write(dir, res))

	main, err := os.ReadFile(filepath.Join(dir, MainFile))
	require.NoError(t, err)
	assert.Equal(t, res.MainCPP, main)

	ini, err := os.ReadFile(filepath.Join(dir, PlatformIOFile))
	require.NoError(t, err)
	assert.Equal(t, res.PlatformIO, ini)

	files, err := RuntimeFiles()
	require.NoError(t, err)
	assert.Contains(t, files, "ArduHome/src/ArduHome.h")
	assert.Contains(t, files, "ArduHome/src/Automation/Automation.h")
	for _, f := range files {
		assert.FileExists(t, filepath.Join(dir, LibDir, filepath.FromSlash(f)))
	}
}

func TestWriteReplacesLib(t *testing.T) {
	res := compileExample(t)
	dir := t.TempDir()

	stale := filepath.Join(dir, LibDir, "Old", "old.h")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("//"), 0o644))
	keep := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(keep, []byte("mine"), 0o644))

	require.NoError(t, Write(dir, res))
	require.NoError(t, Write(dir, res))

	assert.NoFileExists(t, stale)
	assert.FileExists(t, keep)
	assert.FileExists(t, filepath.Join(dir, LibDir, "ArduHome", "library.json"))
}

func TestRunToolNotFound(t *testing.T) {
	err := Run(context.Background(), t.TempDir(), RunOptions{Tool: "arduhome-no-such-pio"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrToolNotFound))
}

func TestRunReportsFailure(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}
	err := Run(context.Background(), t.TempDir(), RunOptions{Tool: "false"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrToolNotFound))
}

func TestRunSucceeds(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}
	require.NoError(t, Run(context.Background(), t.TempDir(), RunOptions{Tool: "true"}))
}

func TestRunCopiesOutput(t *testing.T) {
	if _, err := exec.LookPath("echo"); err != nil {
		t.Skip("echo not available")
	}
	var out strings.Builder
	dir := t.TempDir()
	require.NoError(t, Run(context.Background(), dir, RunOptions{Tool: "echo", Stdout: &out}))
	assert.Equal(t, "run -d "+dir+"\n", out.String())
}

func TestRunCancelled(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// The command never starts.
	assert.Error(t, Run(ctx, t.TempDir(), RunOptions{Tool: "sleep"}))
}
