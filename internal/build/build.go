package build

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/arduhome/internal/codegen"
	"github.com/roach88/arduhome/internal/component"
	"github.com/roach88/arduhome/internal/config"
)

// Options control a compilation.
type Options struct {
	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
	// Generators overrides component.Default().
	Generators []component.Generator
	// Template overrides codegen.RootTemplate.
	Template string
}

// Stats summarizes a compilation.
type Stats struct {
	Points         int `json:"points"`
	Fragments      int `json:"fragments"`
	NamedFragments int `json:"named_fragments"`
	Classes        int `json:"classes"`
	Instances      int `json:"instances"`
}

// Result is the output of one compilation.
type Result struct {
	Device     config.Device `json:"device"`
	MainCPP    []byte        `json:"-"`
	PlatformIO []byte        `json:"-"`
	Libraries  []string      `json:"libraries"`
	Digest     string        `json:"digest"`
	Stats      Stats         `json:"stats"`
}

// Compile generates the program for cfg.
func Compile(cfg *config.Config, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	generators := opts.Generators
	if generators == nil {
		generators = component.Default()
	}
	tmpl := opts.Template
	if tmpl == "" {
		tmpl = codegen.RootTemplate
	}

	session := codegen.NewSession()
	gen := component.NewGeneration(cfg, session, logger)
	if err := gen.Run(generators); err != nil {
		return nil, fmt.Errorf("generating %s: %w", cfg.Device.Name, err)
	}

	var main bytes.Buffer
	if err := session.Resolve(strings.NewReader(tmpl), &main); err != nil {
		return nil, fmt.Errorf("resolving main.cpp: %w", err)
	}

	libs := gen.Libraries()
	ini, err := RenderPlatformIO(cfg.Device, libs)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Device:     cfg.Device,
		MainCPP:    main.Bytes(),
		PlatformIO: ini,
		Libraries:  libs,
		Digest:     codegen.OutputDigest(main.Bytes()),
		Stats: Stats{
			Points:         len(session.Insertions.Points()),
			Fragments:      session.Insertions.Len(),
			NamedFragments: session.Fragments.Len(),
			Classes:        gen.Actions.Classes(),
			Instances:      gen.Actions.Instances(),
		},
	}
	logger.Debug("compiled",
		"device", cfg.Device.Name,
		"points", res.Stats.Points,
		"fragments", res.Stats.Fragments,
		"classes", res.Stats.Classes,
	)
	return res, nil
}
