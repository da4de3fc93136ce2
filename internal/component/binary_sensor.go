package component

import (
	"fmt"

	"github.com/roach88/arduhome/internal/codegen"
	"github.com/roach88/arduhome/internal/config"
)

// BinarySensorGPIO declares every GPIO binary sensor, polls it from loop()
// and compiles its press and release automations.
type BinarySensorGPIO struct{}

func (BinarySensorGPIO) Name() string { return "binary_sensor.gpio" }

func (BinarySensorGPIO) Generate(g *Generation) error {
	for _, cfg := range g.Config.BinarySensors {
		if cfg.Platform != config.PlatformGPIO {
			g.Logger.Debug("skipping binary sensor", "id", cfg.ID, "platform", cfg.Platform)
			continue
		}

		bs := &BinarySensor{Config: cfg}
		g.BinarySensors = append(g.BinarySensors, bs)
		g.Require(LibBounce2)

		id := cfg.ID
		g.Session.AddDefault(codegen.PointIncludes, IncludeArduHome)
		g.Session.AddDefault(codegen.PointGlobals,
			fmt.Sprintf("BinarySensor_GPIO %s = BinarySensor_GPIO(%d, %q);", id, cfg.Pin.Number, id))

		if cfg.Pin.Inverted {
			g.Session.Add(codegen.PointSetup, fmt.Sprintf("  %s.set_inverted(true);", id), PriorityEarly)
		}
		if cfg.Pin.Mode != config.DefaultPinMode {
			g.Session.Add(codegen.PointSetup, fmt.Sprintf("  %s.set_pinMode(%s);", id, cfg.Pin.Mode), PriorityEarly)
		}
		g.Session.AddDefault(codegen.PointLoop, fmt.Sprintf("  %s.loop();", id))

		var err error
		if bs.Press, err = g.Actions.Compile(cfg.OnPress); err != nil {
			return fmt.Errorf("%s.on_press: %w", id, err)
		}
		if bs.Release, err = g.Actions.Compile(cfg.OnRelease); err != nil {
			return fmt.Errorf("%s.on_release: %w", id, err)
		}
	}
	return nil
}
