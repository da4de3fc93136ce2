package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/roach88/arduhome/internal/automation"
)

// PlatformGPIO is the only switch and binary sensor platform with a generator.
const PlatformGPIO = "gpio"

// Switch restore modes.
const (
	RestoreAlwaysOn    = "ALWAYS_ON"
	RestoreAlwaysOff   = "ALWAYS_OFF"
	RestoreDefaultOn   = "RESTORE_DEFAULT_ON"
	RestoreDefaultOff  = "RESTORE_DEFAULT_OFF"
	RestoreInvertedOn  = "RESTORE_INVERTED_ON"
	RestoreInvertedOff = "RESTORE_INVERTED_OFF"
)

// Defaults applied to omitted keys.
const (
	DefaultRestoreMode = RestoreDefaultOff
	DefaultPinMode     = "INPUT"
	DefaultMQTTPort    = 1883
)

// Config is a decoded device document.
type Config struct {
	Device        Device         `yaml:"arduhome"`
	Ethernet      *Ethernet      `yaml:"ethernet,omitempty"`
	MQTT          *MQTT          `yaml:"mqtt,omitempty"`
	Switches      []Switch       `yaml:"switch,omitempty"`
	BinarySensors []BinarySensor `yaml:"binary_sensor,omitempty"`
}

// Device identifies the board and names the generated project.
type Device struct {
	Name     string `yaml:"name"`
	Platform string `yaml:"platform"`
	Board    string `yaml:"board"`
}

// Ethernet configures a static-IP Ethernet shield.
type Ethernet struct {
	IP  string `yaml:"ip"`
	MAC string `yaml:"mac"`
}

// MQTT configures the broker connection.
type MQTT struct {
	Broker   string `yaml:"ip"`
	Port     int    `yaml:"port,omitempty"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// Switch is an output entity.
type Switch struct {
	Platform    string              `yaml:"platform"`
	ID          string              `yaml:"id"`
	Pin         int                 `yaml:"pin"`
	Inverted    bool                `yaml:"inverted"`
	RestoreMode string              `yaml:"restore_mode"`
	OnTurnOn    automation.Sequence `yaml:"on_turn_on,omitempty"`
	OnTurnOff   automation.Sequence `yaml:"on_turn_off,omitempty"`
}

// InitialState is the state the switch is set to in setup().
func (s Switch) InitialState() bool {
	switch s.RestoreMode {
	case RestoreAlwaysOn, RestoreDefaultOn, RestoreInvertedOn:
		return true
	default:
		return false
	}
}

// BinarySensor is a debounced input entity.
type BinarySensor struct {
	Platform  string              `yaml:"platform"`
	ID        string              `yaml:"id"`
	Pin       Pin                 `yaml:"pin"`
	OnPress   automation.Sequence `yaml:"on_press,omitempty"`
	OnRelease automation.Sequence `yaml:"on_release,omitempty"`
}

// Pin is an input pin. Documents may give a bare pin number or a mapping
// with number, mode and inverted.
type Pin struct {
	Number   int    `yaml:"number"`
	Mode     string `yaml:"mode"`
	Inverted bool   `yaml:"inverted"`
}

// UnmarshalYAML accepts both pin forms.
func (p *Pin) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var n int
		if err := value.Decode(&n); err != nil {
			return fmt.Errorf("line %d: pin: %w", value.Line, err)
		}
		*p = Pin{Number: n}
		return nil
	case yaml.MappingNode:
		type plain Pin
		var out plain
		if err := value.Decode(&out); err != nil {
			return err
		}
		*p = Pin(out)
		return nil
	default:
		return fmt.Errorf("line %d: pin must be a number or a mapping", value.Line)
	}
}

// GPIOSwitches returns the switches handled by the GPIO generator.
func (c *Config) GPIOSwitches() []Switch {
	var out []Switch
	for _, s := range c.Switches {
		if s.Platform == PlatformGPIO {
			out = append(out, s)
		}
	}
	return out
}

// GPIOBinarySensors returns the binary sensors handled by the GPIO generator.
func (c *Config) GPIOBinarySensors() []BinarySensor {
	var out []BinarySensor
	for _, b := range c.BinarySensors {
		if b.Platform == PlatformGPIO {
			out = append(out, b)
		}
	}
	return out
}
