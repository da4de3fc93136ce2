package automation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func decode(t *testing.T, src string) (Sequence, error) {
	t.Helper()
	var seq Sequence
	err := yaml.Unmarshal([]byte(src), &seq)
	return seq, err
}

func TestSequenceUnmarshal(t *testing.T) {
	seq, err := decode(t, `
- switch.turn_on: relay
- delay: 1s
- switch.turn_off: relay
- delay: 250
- switch.toggle: lamp
`)
	require.NoError(t, err)
	assert.Equal(t, Sequence{
		SwitchTurnOn{Target: "relay"},
		Delay{Duration: time.Second},
		SwitchTurnOff{Target: "relay"},
		Delay{Duration: 250 * time.Millisecond},
		SwitchToggle{Target: "lamp"},
	}, seq)
	assert.Equal(t, []string{"relay", "lamp"}, seq.Targets())
}

func TestSequenceUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"not a list", "delay: 1s", "actions must be a list"},
		{"two keys", "- {delay: 1s, switch.turn_off: x}", "exactly one key"},
		{"bad duration", "- delay: soon", `invalid duration "soon"`},
		{"negative", "- delay: -5", "negative duration"},
		{"too long", "- delay: 1000h", `duration "1000h" exceeds`},
		{"bad id", "- switch.turn_off: 1relay", `invalid switch id "1relay"`},
		{"map target", "- switch.turn_off: {id: x}", "expected a switch id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode(t, tt.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSequenceUnmarshalUnknownKind(t *testing.T) {
	_, err := decode(t, "- light.turn_on: porch\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownAction))
	assert.Contains(t, err.Error(), `"light.turn_on"`)
	assert.Contains(t, err.Error(), "line 1")
}

func TestParseDuration(t *testing.T) {
	tests := map[string]time.Duration{
		"0":     0,
		"1000":  time.Second,
		" 42 ":  42 * time.Millisecond,
		"1.5s":  1500 * time.Millisecond,
		"2m":    2 * time.Minute,
		"150ms": 150 * time.Millisecond,
		"1h30m": 90 * time.Minute,
		"2147483647": MaxDelay,
	}
	for in, want := range tests {
		got, err := ParseDuration(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseDurationRejectsWrappingDelays(t *testing.T) {
	for _, in := range []string{"2147483648", "1000h", "597h"} {
		_, err := ParseDuration(in)
		require.Error(t, err, in)
		assert.Contains(t, err.Error(), "exceeds", in)
	}
}
