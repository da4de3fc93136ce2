package cli

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/arduhome/internal/testutil"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "arduhome", cmd.Use)
	assert.Contains(t, cmd.Long, "PlatformIO")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"compile", "validate", "history", "version"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestCompileCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	compileCmd, _, err := cmd.Find([]string{"compile"})
	require.NoError(t, err)

	outputFlag := compileCmd.Flags().Lookup("output-dir")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)

	pioFlag := compileCmd.Flags().Lookup("pio")
	require.NotNil(t, pioFlag)
	assert.Equal(t, "pio", pioFlag.DefValue)

	require.NotNil(t, compileCmd.Flags().Lookup("only-generate"))
	require.NotNil(t, compileCmd.Flags().Lookup("db"))
}

func TestInvalidFormat(t *testing.T) {
	out := &bytes.Buffer{}
	err := Execute([]string{"version", "--format", "yaml"}, out, out)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid format "yaml"`)
}

func TestExecuteDefaultsToCompile(t *testing.T) {
	if _, err := exec.LookPath("pio"); err == nil {
		t.Skip("pio installed; the default compile would build firmware")
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfig), []byte(testutil.MinimalConfig), 0o644))
	wd, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	out := &bytes.Buffer{}
	err := Execute(nil, out, out)

	// The project is generated before pio is looked up.
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out.String(), ErrCodePlatformIO)
	assert.FileExists(t, filepath.Join(dir, "bare", "src", "main.cpp"))
}

func TestVersion(t *testing.T) {
	out := &bytes.Buffer{}
	require.NoError(t, Execute([]string{"version"}, out, out))
	assert.Equal(t, "Version: "+Version+"\n", out.String())

	out.Reset()
	require.NoError(t, Execute([]string{"version", "--format", "json"}, out, out))
	assert.JSONEq(t, `{"status":"ok","data":{"version":"`+Version+`"}}`, out.String())
}

func TestVerboseLogsToStderr(t *testing.T) {
	path := testutil.WriteConfig(t, testutil.MinimalConfig)
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	err := Execute([]string{"compile", "-v", "--only-generate", "-o", t.TempDir(), path}, stdout, stderr)
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), "level=DEBUG")
	assert.Contains(t, stderr.String(), "msg=compiling")
	assert.NotContains(t, stdout.String(), "level=")
}
