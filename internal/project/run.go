package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
)

// DefaultTool is the PlatformIO command line binary.
const DefaultTool = "pio"

// ErrToolNotFound is returned when the PlatformIO binary is not on PATH.
var ErrToolNotFound = errors.New("platformio not found")

// RunOptions configure a PlatformIO build.
type RunOptions struct {
	// Tool is the binary to invoke. Empty means DefaultTool.
	Tool   string
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// Run builds the project at dir with `pio run -d dir`.
func Run(ctx context.Context, dir string, opts RunOptions) error {
	tool := opts.Tool
	if tool == "" {
		tool = DefaultTool
	}
	path, err := exec.LookPath(tool)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrToolNotFound, tool)
	}

	cmd := exec.CommandContext(ctx, path, "run", "-d", dir)
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	if opts.Logger != nil {
		opts.Logger.Info("building firmware", "dir", dir, "tool", path)
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s run: %w", tool, err)
	}
	return nil
}
