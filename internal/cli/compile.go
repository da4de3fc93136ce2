package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/arduhome/internal/build"
	"github.com/roach88/arduhome/internal/codegen"
	"github.com/roach88/arduhome/internal/config"
	"github.com/roach88/arduhome/internal/project"
	"github.com/roach88/arduhome/internal/store"
	"github.com/roach88/arduhome/internal/watch"
)

// Error codes for generation and everything after it. Load errors use the
// E0xx and E10x codes of the config package.
const (
	ErrCodeGenerate   = "E110" // A generator failed
	ErrCodeCycle      = "E111" // Insertion points include each other
	ErrCodeWrite      = "E120" // Project could not be written
	ErrCodePlatformIO = "E121" // pio run failed or is missing
	ErrCodeHistory    = "E130" // Build history unavailable
	ErrCodeWatch      = "E140" // Configurations cannot be watched
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	OutputDir    string // parent of the project directories
	OnlyGenerate bool
	DB           string // build history database, empty disables it
	PIO          string // PlatformIO binary
	Watch        bool   // recompile on change until interrupted
}

// DeviceReport describes one compiled configuration.
type DeviceReport struct {
	Config     string      `json:"config"`
	Device     string      `json:"device"`
	ProjectDir string      `json:"project_dir"`
	Digest     string      `json:"digest"`
	Libraries  []string    `json:"libraries,omitempty"`
	Stats      build.Stats `json:"stats"`
	Built      bool        `json:"built"`
	Seq        int64       `json:"seq,omitempty"`
	Unchanged  bool        `json:"unchanged,omitempty"`
}

// CompileReport is the JSON payload of a successful compile.
type CompileReport struct {
	Devices []DeviceReport `json:"devices"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile [configs...]",
		Short: "Generate and build firmware",
		Long: `Generate a PlatformIO project for each configuration and build it.

Each project is written to a directory named after the device, next to its
configuration or below --output-dir. Without arguments config.yaml is used.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{DefaultConfig}
			}
			return runCompile(cmd.Context(), opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.OnlyGenerate, "only-generate", false, "only generate source code, do not build")
	cmd.Flags().StringVarP(&opts.OutputDir, "output-dir", "o", "", "directory for generated projects")
	cmd.Flags().StringVar(&opts.DB, "db", "", "record builds in this history database")
	cmd.Flags().StringVar(&opts.PIO, "pio", project.DefaultTool, "PlatformIO binary")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "recompile whenever a configuration changes")

	return cmd
}

func runCompile(ctx context.Context, opts *CompileOptions, configs []string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	c := &compilation{opts: opts, formatter: formatter, logger: opts.logger()}
	if opts.DB != "" {
		s, err := store.Open(opts.DB)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeHistory, err.Error(), nil)
		}
		defer s.Close()
		c.history = s
	}

	if opts.Watch {
		return c.watch(ctx, configs)
	}

	report := CompileReport{}
	for _, path := range configs {
		dev, err := c.compile(ctx, path)
		if err != nil {
			return err
		}
		report.Devices = append(report.Devices, dev)
	}
	return outputCompileSuccess(formatter, report)
}

// compilation carries what every configuration of one compile run shares.
type compilation struct {
	opts      *CompileOptions
	formatter *OutputFormatter
	logger    *slog.Logger
	history   *store.Store
}

// compile turns one configuration into a project. Failures are rendered
// before being returned.
func (c *compilation) compile(ctx context.Context, path string) (DeviceReport, error) {
	opts, formatter, logger := c.opts, c.formatter, c.logger
	logger.Info("compiling", "config", path)

	cfg, err := config.Load(path)
	if err != nil {
		return DeviceReport{}, outputLoadErrors(formatter, path, err)
	}

	res, err := build.Compile(cfg, build.Options{Logger: logger})
	if err != nil {
		code := ErrCodeGenerate
		if codegen.IsCycleError(err) {
			code = ErrCodeCycle
		}
		return DeviceReport{}, formatter.Fail(ExitFailure, code, err.Error(), map[string]string{"config": path})
	}

	dir, err := project.DefaultDir(path, cfg.Device.Name)
	if opts.OutputDir != "" {
		dir, err = project.Dir(opts.OutputDir, cfg.Device.Name)
	}
	if err != nil {
		return DeviceReport{}, formatter.Fail(ExitCommandError, ErrCodeWrite, err.Error(), nil)
	}
	if err := project.Write(dir, res); err != nil {
		return DeviceReport{}, formatter.Fail(ExitCommandError, ErrCodeWrite, err.Error(), nil)
	}
	logger.Debug("project written", "dir", dir, "digest", res.Digest)

	dev := DeviceReport{
		Config:     path,
		Device:     cfg.Device.Name,
		ProjectDir: dir,
		Digest:     res.Digest,
		Libraries:  res.Libraries,
		Stats:      res.Stats,
	}

	if !opts.OnlyGenerate {
		runOpts := project.RunOptions{
			Tool:   opts.PIO,
			Stdout: formatter.GetErrWriter(),
			Stderr: formatter.GetErrWriter(),
			Logger: logger,
		}
		if !formatter.JSON() {
			runOpts.Stdout = formatter.Writer
		}
		if err := project.Run(ctx, dir, runOpts); err != nil {
			exit := ExitFailure
			if errors.Is(err, project.ErrToolNotFound) {
				exit = ExitCommandError
			}
			return DeviceReport{}, formatter.Fail(exit, ErrCodePlatformIO, err.Error(), nil)
		}
		dev.Built = true
	}

	if c.history != nil {
		if err := recordBuild(ctx, c.history, &dev); err != nil {
			return DeviceReport{}, formatter.Fail(ExitCommandError, ErrCodeHistory, err.Error(), nil)
		}
	}
	return dev, nil
}

// watch compiles every configuration, then recompiles each one whenever it
// changes until ctx is done. Failures are reported and do not stop watching.
func (c *compilation) watch(ctx context.Context, configs []string) error {
	w, err := watch.New(configs, watch.Options{Logger: c.logger})
	if err != nil {
		return c.formatter.Fail(ExitCommandError, ErrCodeWatch, err.Error(), nil)
	}
	defer w.Close()

	rebuild := func(path string) {
		dev, err := c.compile(ctx, path)
		if err != nil {
			c.logger.Warn("compile failed", "config", path, "error", err)
			return
		}
		if err := outputCompileSuccess(c.formatter, CompileReport{Devices: []DeviceReport{dev}}); err != nil {
			c.logger.Warn("writing output", "error", err)
		}
	}

	for _, path := range configs {
		rebuild(path)
	}
	c.logger.Info("watching for changes", "configs", len(configs))
	return w.Run(ctx, rebuild)
}

// recordBuild appends dev to history, noting whether the output matches the
// device's previous build.
func recordBuild(ctx context.Context, history *store.Store, dev *DeviceReport) error {
	prev, err := history.Latest(ctx, dev.Device)
	switch {
	case err == nil:
		dev.Unchanged = prev.Digest == dev.Digest
	case !errors.Is(err, store.ErrNotFound):
		return err
	}

	abs, err := filepath.Abs(dev.Config)
	if err != nil {
		abs = dev.Config
	}
	b, err := history.Record(ctx, store.Build{
		Device:     dev.Device,
		ConfigPath: abs,
		OutputDir:  dev.ProjectDir,
		Digest:     dev.Digest,
		Points:     dev.Stats.Points,
		Fragments:  dev.Stats.Fragments,
		Classes:    dev.Stats.Classes,
	})
	if err != nil {
		return err
	}
	dev.Seq = b.Seq
	return nil
}

// outputLoadErrors reports every problem found in one configuration.
func outputLoadErrors(formatter *OutputFormatter, path string, err error) error {
	errs := config.Errors(err)
	first := errs[0]

	exit := ExitFailure
	if first.Code == config.ErrCodeNotFound || first.Code == config.ErrCodeReadFailed {
		exit = ExitCommandError
	}

	if formatter.JSON() {
		return formatter.Fail(exit, first.Code, first.Message, toValidationErrors(errs))
	}

	fmt.Fprintf(formatter.Writer, "✗ %s\n", path)
	for _, e := range errs {
		fmt.Fprintf(formatter.Writer, "  %s\n", e.Error())
	}
	return NewExitError(exit, fmt.Sprintf("%s: %d error(s)", path, len(errs)))
}

func outputCompileSuccess(formatter *OutputFormatter, report CompileReport) error {
	if formatter.JSON() {
		return formatter.Success(report)
	}

	for _, dev := range report.Devices {
		var notes []string
		if dev.Built {
			notes = append(notes, "built")
		}
		if dev.Unchanged {
			notes = append(notes, "unchanged")
		}
		if dev.Seq > 0 {
			notes = append(notes, fmt.Sprintf("build #%d", dev.Seq))
		}
		suffix := ""
		if len(notes) > 0 {
			suffix = " [" + strings.Join(notes, ", ") + "]"
		}
		fmt.Fprintf(formatter.Writer, "✓ %s → %s%s\n", dev.Device, dev.ProjectDir, suffix)
		fmt.Fprintf(formatter.Writer, "  %d insertion points, %d fragments, %d automation classes, %d instances\n",
			dev.Stats.Points, dev.Stats.Fragments, dev.Stats.Classes, dev.Stats.Instances)
		if formatter.Verbose {
			fmt.Fprintf(formatter.Writer, "  digest %s\n", dev.Digest)
		}
	}
	return nil
}
