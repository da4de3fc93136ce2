package automation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// UnmarshalYAML decodes a list of single-key mappings such as
//
//	- delay: 1s
//	- switch.turn_off: relay
func (s *Sequence) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: actions must be a list", value.Line)
	}
	seq := make(Sequence, 0, len(value.Content))
	for _, item := range value.Content {
		a, err := ParseNode(item)
		if err != nil {
			return err
		}
		seq = append(seq, a)
	}
	*s = seq
	return nil
}

// ParseNode decodes one list entry of an action sequence.
func ParseNode(n *yaml.Node) (Action, error) {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return nil, fmt.Errorf("line %d: action must be a mapping with exactly one key", n.Line)
	}
	kind, arg := n.Content[0], n.Content[1]
	a, err := Parse(kind.Value, arg)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", kind.Line, err)
	}
	return a, nil
}

// Parse builds the action of the given kind from its argument node.
func Parse(kind string, arg *yaml.Node) (Action, error) {
	switch kind {
	case KindDelay:
		if arg.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%s: expected a duration", kind)
		}
		d, err := ParseDuration(arg.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		return Delay{Duration: d}, nil
	case KindSwitchTurnOn, KindSwitchTurnOff, KindSwitchToggle:
		id, err := parseTarget(arg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		switch kind {
		case KindSwitchTurnOn:
			return SwitchTurnOn{Target: id}, nil
		case KindSwitchTurnOff:
			return SwitchTurnOff{Target: id}, nil
		default:
			return SwitchToggle{Target: id}, nil
		}
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownAction, kind)
	}
}

// MaxDelay is the longest delay the generated deadline check can represent.
// millis() differences are compared as a signed 32-bit long on the target.
const MaxDelay = math.MaxInt32 * time.Millisecond

// ParseDuration accepts plain milliseconds ("1500") or a Go duration
// ("1.5s", "250ms", "1m"). Durations above MaxDelay are rejected.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("negative duration %q", s)
		}
		if ms > MaxDelay.Milliseconds() {
			return 0, fmt.Errorf("duration %q exceeds %s", s, MaxDelay)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	if d > MaxDelay {
		return 0, fmt.Errorf("duration %q exceeds %s", s, MaxDelay)
	}
	return d, nil
}

func parseTarget(arg *yaml.Node) (string, error) {
	if arg.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("expected a switch id")
	}
	if !identPattern.MatchString(arg.Value) {
		return "", fmt.Errorf("invalid switch id %q", arg.Value)
	}
	return arg.Value, nil
}
