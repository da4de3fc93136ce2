package component

import (
	"fmt"

	"github.com/roach88/arduhome/internal/codegen"
	"github.com/roach88/arduhome/internal/config"
)

// SwitchGPIO declares every GPIO switch and compiles its turn-on and
// turn-off automations.
type SwitchGPIO struct{}

func (SwitchGPIO) Name() string { return "switch.gpio" }

func (SwitchGPIO) Generate(g *Generation) error {
	for _, cfg := range g.Config.Switches {
		if cfg.Platform != config.PlatformGPIO {
			g.Logger.Debug("skipping switch", "id", cfg.ID, "platform", cfg.Platform)
			continue
		}

		sw := &Switch{Config: cfg}
		g.Switches = append(g.Switches, sw)

		g.Session.AddDefault(codegen.PointIncludes, IncludeArduHome)
		g.Session.AddDefault(codegen.PointGlobals,
			fmt.Sprintf("Switch_GPIO %s = Switch_GPIO(%d, %q);", cfg.ID, cfg.Pin, cfg.ID))

		if cfg.Inverted {
			g.Session.Add(codegen.PointSetup,
				fmt.Sprintf("  %s.set_inverted(true);", cfg.ID), PriorityEarly)
		}
		g.Session.Add(codegen.PointSetup,
			fmt.Sprintf("  %s.set_state(%t);", cfg.ID, cfg.InitialState()), PriorityEarly)

		var err error
		if sw.TurnOn, err = g.Actions.Compile(cfg.OnTurnOn); err != nil {
			return fmt.Errorf("%s.on_turn_on: %w", cfg.ID, err)
		}
		if sw.TurnOff, err = g.Actions.Compile(cfg.OnTurnOff); err != nil {
			return fmt.Errorf("%s.on_turn_off: %w", cfg.ID, err)
		}
	}
	return nil
}
