package automation

import (
	"errors"
	"fmt"
	"time"
)

// Action kinds as written in configuration documents.
const (
	KindDelay         = "delay"
	KindSwitchTurnOn  = "switch.turn_on"
	KindSwitchTurnOff = "switch.turn_off"
	KindSwitchToggle  = "switch.toggle"
)

// ErrUnknownAction is returned when a document names an action kind that has
// no compiler support.
var ErrUnknownAction = errors.New("unknown action")

// Action is one directive of a sequence. The set of actions is closed: every
// implementation lives in this package and Compile handles each of them.
type Action interface {
	Kind() string
	action()
}

// Delay suspends the sequence for Duration without blocking the main loop.
type Delay struct {
	Duration time.Duration
}

// SwitchTurnOn sets the switch with the given id to on.
type SwitchTurnOn struct {
	Target string
}

// SwitchTurnOff sets the switch with the given id to off.
type SwitchTurnOff struct {
	Target string
}

// SwitchToggle inverts the state of the switch with the given id.
type SwitchToggle struct {
	Target string
}

func (Delay) Kind() string         { return KindDelay }
func (SwitchTurnOn) Kind() string  { return KindSwitchTurnOn }
func (SwitchTurnOff) Kind() string { return KindSwitchTurnOff }
func (SwitchToggle) Kind() string  { return KindSwitchToggle }

func (Delay) action()         {}
func (SwitchTurnOn) action()  {}
func (SwitchTurnOff) action() {}
func (SwitchToggle) action()  {}

// Milliseconds returns the delay rounded down to whole milliseconds.
func (d Delay) Milliseconds() int64 {
	return d.Duration.Milliseconds()
}

// Sequence is an ordered list of actions.
type Sequence []Action

// Targets returns the switch ids referenced by the sequence, in order of
// first reference.
func (s Sequence) Targets() []string {
	var out []string
	seen := make(map[string]bool)
	for _, a := range s {
		var id string
		switch a := a.(type) {
		case SwitchTurnOn:
			id = a.Target
		case SwitchTurnOff:
			id = a.Target
		case SwitchToggle:
			id = a.Target
		}
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// statement renders a non-delay action as a single C++ statement.
func statement(a Action) (string, error) {
	switch a := a.(type) {
	case SwitchTurnOn:
		return fmt.Sprintf("%s.set_state(true);", a.Target), nil
	case SwitchTurnOff:
		return fmt.Sprintf("%s.set_state(false);", a.Target), nil
	case SwitchToggle:
		return fmt.Sprintf("%s.set_state(!%s.get_state());", a.Target, a.Target), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}
}
