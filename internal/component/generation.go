package component

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"text/template"

	"github.com/roach88/arduhome/internal/automation"
	"github.com/roach88/arduhome/internal/codegen"
	"github.com/roach88/arduhome/internal/config"
)

// Priorities used by the generators. Lower values are emitted first.
const (
	PriorityEarly     = 900  // declarations others depend on, pin setup
	PriorityCallbacks = 910  // callback registration after pin setup
	PriorityFunctions = 1200 // generated state-changed functions
	PriorityLate      = 2000 // connection routines, network start
)

// Include directives.
const (
	IncludeArduHome = "#include <ArduHome.h>"
	IncludeSPI      = "#include <SPI.h>"
	IncludeEthernet = "#include <Ethernet.h>"
	IncludeMQTT     = "#include <MQTT.h>"
)

// PlatformIO library dependencies.
const (
	LibEthernet = "arduino-libraries/Ethernet"
	LibMQTT     = "256dpi/MQTT"
	LibBounce2  = "thomasfredericks/Bounce2"
)

// Generator contributes the code for one feature.
type Generator interface {
	Name() string
	Generate(g *Generation) error
}

// Default returns the generators in the order they must run.
func Default() []Generator {
	return []Generator{
		Ethernet{},
		SwitchGPIO{},
		BinarySensorGPIO{},
		MQTT{},
		Callbacks{},
	}
}

// Switch is a GPIO switch plus the statements other generators want to run
// when its state changes.
type Switch struct {
	Config       config.Switch
	StateChanged []string
	TurnOn       string
	TurnOff      string
}

// BinarySensor is a GPIO binary sensor plus its state-changed statements.
type BinarySensor struct {
	Config       config.BinarySensor
	StateChanged []string
	Press        string
	Release      string
}

// Generation is the state shared by the generators during one compilation.
type Generation struct {
	Config  *config.Config
	Session *codegen.Session
	Actions *automation.Compiler
	Logger  *slog.Logger

	Switches      []*Switch
	BinarySensors []*BinarySensor

	libs []string
}

// NewGeneration prepares a generation over session. A nil logger discards
// log output.
func NewGeneration(cfg *config.Config, session *codegen.Session, logger *slog.Logger) *Generation {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Generation{
		Config:  cfg,
		Session: session,
		Actions: automation.NewCompiler(session, logger),
		Logger:  logger,
	}
}

// Run executes generators in order and stops at the first failure.
func (g *Generation) Run(generators []Generator) error {
	for _, gen := range generators {
		before := g.Session.Insertions.Len()
		if err := gen.Generate(g); err != nil {
			return &GenerateError{Generator: gen.Name(), Err: err}
		}
		g.Logger.Debug("generator finished",
			"generator", gen.Name(),
			"fragments", g.Session.Insertions.Len()-before,
		)
	}
	return nil
}

// Require records a PlatformIO library dependency.
func (g *Generation) Require(lib string) {
	if !slices.Contains(g.libs, lib) {
		g.libs = append(g.libs, lib)
	}
}

// Libraries returns the recorded dependencies in order of first use.
func (g *Generation) Libraries() []string {
	return slices.Clone(g.libs)
}

// Switch returns the generated switch with the given id.
func (g *Generation) Switch(id string) (*Switch, bool) {
	for _, s := range g.Switches {
		if s.Config.ID == id {
			return s, true
		}
	}
	return nil, false
}

// GenerateError reports a failing generator.
type GenerateError struct {
	Generator string
	Err       error
}

func (e *GenerateError) Error() string {
	return fmt.Sprintf("%s: %v", e.Generator, e.Err)
}

func (e *GenerateError) Unwrap() error {
	return e.Err
}

// render executes tmpl with data.
func render(tmpl *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", tmpl.Name(), err)
	}
	return sb.String(), nil
}

// indent prefixes every non-empty line of code with prefix.
func indent(code, prefix string) string {
	lines := strings.Split(code, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}
