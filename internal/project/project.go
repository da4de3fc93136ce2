package project

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/arduhome/internal/build"
)

//go:embed lib
var runtimeLib embed.FS

// Paths inside a project directory.
const (
	MainFile       = "src/main.cpp"
	PlatformIOFile = "platformio.ini"
	LibDir         = "lib"
)

// ErrInvalidName is returned when a device name is not a single directory
// name, such as "", "." or "a/b".
var ErrInvalidName = errors.New("invalid project name")

// Dir returns the project directory for device inside parent. The result is
// always a direct child of parent.
func Dir(parent, device string) (string, error) {
	if strings.Trim(device, ".") == "" || strings.ContainsAny(device, `/\`) || filepath.IsAbs(device) {
		return "", fmt.Errorf("%w %q", ErrInvalidName, device)
	}
	return filepath.Join(parent, device), nil
}

// DefaultDir returns the project directory used when none is given: a
// directory named after the device next to its configuration file.
func DefaultDir(configPath, device string) (string, error) {
	return Dir(filepath.Dir(configPath), device)
}

// Write creates or refreshes the project at dir from res.
func Write(dir string, res *build.Result) error {
	if err := os.MkdirAll(filepath.Join(dir, filepath.Dir(MainFile)), 0o755); err != nil {
		return fmt.Errorf("creating project: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, MainFile), res.MainCPP, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", MainFile, err)
	}
	if err := os.WriteFile(filepath.Join(dir, PlatformIOFile), res.PlatformIO, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", PlatformIOFile, err)
	}

	lib := filepath.Join(dir, LibDir)
	if err := os.RemoveAll(lib); err != nil {
		return fmt.Errorf("removing %s: %w", LibDir, err)
	}
	return copyRuntime(lib)
}

// RuntimeFiles lists the embedded library files relative to lib/.
func RuntimeFiles() ([]string, error) {
	src, err := fs.Sub(runtimeLib, LibDir)
	if err != nil {
		return nil, err
	}
	var files []string
	err = fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

func copyRuntime(dst string) error {
	src, err := fs.Sub(runtimeLib, LibDir)
	if err != nil {
		return err
	}
	return fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dst, filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := fs.ReadFile(src, path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return fmt.Errorf("writing runtime %s: %w", path, err)
		}
		return nil
	})
}
