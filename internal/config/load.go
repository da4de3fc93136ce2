package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/roach88/arduhome/internal/automation"
)

//go:embed schema.cue
var schemaSource string

// Load reads and validates the document at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("configuration not found: %s", path), Err: err}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading configuration: %v", err), Err: err}
	}
	return Parse(path, data)
}

// Parse validates and decodes a document. filename is only used in error
// positions.
func Parse(filename string, data []byte) (*Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &LoadError{Code: ErrCodeEmpty, Message: fmt.Sprintf("configuration is empty: %s", filename)}
	}

	if err := checkSchema(filename, data); err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		code := ErrCodeDecodeFailed
		if errors.Is(err, automation.ErrUnknownAction) {
			code = ErrCodeUnknownAction
		}
		return nil, &LoadError{Code: code, Message: err.Error(), Err: err}
	}

	applyDefaults(&cfg)

	if errs := crossCheck(&cfg); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &cfg, nil
}

// checkSchema unifies the document with #Config from schema.cue.
func checkSchema(filename string, data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("compiling schema: %v", err), Err: err}
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("parsing YAML: %v", err), Err: err}
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return convertCUEError(filename, ErrCodeParseFailed, err)
	}

	v := def.Unify(doc)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return convertCUEError(filename, ErrCodeSchema, err)
	}
	return nil
}

// convertCUEError turns every CUE error into a LoadError positioned in the
// document when possible, in the schema otherwise.
func convertCUEError(filename, code string, err error) error {
	list := cueerrors.Errors(err)
	if len(list) == 0 {
		return &LoadError{Code: code, Message: err.Error(), Err: err}
	}
	out := make([]error, 0, len(list))
	for _, e := range list {
		le := &LoadError{Code: code, Message: e.Error(), Err: e}
		for i, pos := range cueerrors.Positions(e) {
			if i == 0 || pos.Filename() == filename {
				le.Pos = pos
			}
			if pos.Filename() == filename {
				break
			}
		}
		out = append(out, le)
	}
	return errors.Join(out...)
}

func applyDefaults(cfg *Config) {
	cfg.Device.Name = norm.NFC.String(cfg.Device.Name)

	if cfg.MQTT != nil && cfg.MQTT.Port == 0 {
		cfg.MQTT.Port = DefaultMQTTPort
	}
	for i := range cfg.Switches {
		if cfg.Switches[i].RestoreMode == "" {
			cfg.Switches[i].RestoreMode = DefaultRestoreMode
		}
	}
	for i := range cfg.BinarySensors {
		if cfg.BinarySensors[i].Pin.Mode == "" {
			cfg.BinarySensors[i].Pin.Mode = DefaultPinMode
		}
	}
}

// crossCheck validates references between entities.
func crossCheck(cfg *Config) []error {
	var errs []error

	ids := make(map[string]string)
	claim := func(id, kind string) {
		if reservedID(id) {
			errs = append(errs, &LoadError{
				Code:    ErrCodeReservedID,
				Message: fmt.Sprintf("%s id %q is reserved by generated code", kind, id),
			})
			return
		}
		if prev, ok := ids[id]; ok {
			errs = append(errs, &LoadError{
				Code:    ErrCodeDuplicateID,
				Message: fmt.Sprintf("%s id %q already used by a %s", kind, id, prev),
			})
			return
		}
		ids[id] = kind
	}
	for _, s := range cfg.Switches {
		claim(s.ID, "switch")
	}
	for _, b := range cfg.BinarySensors {
		claim(b.ID, "binary_sensor")
	}

	switches := make(map[string]bool)
	for _, s := range cfg.GPIOSwitches() {
		switches[s.ID] = true
	}
	check := func(owner, trigger string, seq automation.Sequence) {
		for _, target := range seq.Targets() {
			if !switches[target] {
				errs = append(errs, &LoadError{
					Code:    ErrCodeUnknownTarget,
					Message: fmt.Sprintf("%s.%s: unknown switch %q", owner, trigger, target),
				})
			}
		}
	}
	for _, s := range cfg.Switches {
		check(s.ID, "on_turn_on", s.OnTurnOn)
		check(s.ID, "on_turn_off", s.OnTurnOff)
	}
	for _, b := range cfg.BinarySensors {
		check(b.ID, "on_press", b.OnPress)
		check(b.ID, "on_release", b.OnRelease)
	}
	return errs
}
