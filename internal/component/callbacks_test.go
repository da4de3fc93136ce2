package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/arduhome/internal/codegen"
	"github.com/roach88/arduhome/internal/testutil"
)

func TestCallbackBody(t *testing.T) {
	tests := []struct {
		name    string
		always  []string
		onTrue  string
		onFalse string
		want    string
	}{
		{name: "empty", want: ""},
		{
			name:   "always only",
			always: []string{"publish(x);"},
			want:   "    publish(x);",
		},
		{
			name:    "guarded",
			always:  []string{"publish(x);"},
			onTrue:  "a.start();",
			onFalse: "b.set_state(false);\nb.toggle();",
			want: "    publish(x);\n" +
				"    if (state)\n    {\n        a.start();\n    }\n" +
				"    if (!state)\n    {\n        b.set_state(false);\n        b.toggle();\n    }",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, callbackBody(tt.always, tt.onTrue, tt.onFalse))
		})
	}
}

func TestCallbacksShareIdenticalBodies(t *testing.T) {
	g := newGeneration(t, testutil.MinimalConfig+`
switch:
  - platform: gpio
    id: a
    pin: 2
    on_turn_on:
      - switch.turn_off: c
  - platform: gpio
    id: b
    pin: 3
    on_turn_on:
      - switch.turn_off: c
  - platform: gpio
    id: c
    pin: 4
`)
	require.NoError(t, g.Run(Default()))

	var functions []string
	frags, _ := g.Session.Get(codegen.PointGlobals)
	for _, f := range frags {
		if f.Priority == PriorityFunctions {
			functions = append(functions, f.Text)
		}
	}
	require.Len(t, functions, 1)
	assert.Equal(t, `void switch_state_changed(Switch_Base *a_switch, bool state)
{
    if (state)
    {
        c.set_state(false);
    }
}`, functions[0])

	setup := texts(t, g, codegen.PointSetup)
	assert.Contains(t, setup, "  a.set_state_changed_cb(switch_state_changed);")
	assert.Contains(t, setup, "  b.set_state_changed_cb(switch_state_changed);")
	assert.NotContains(t, setup, "  c.set_state_changed_cb(switch_state_changed);")
}

func TestCallbacksSeparateEntityTypes(t *testing.T) {
	g := newGeneration(t, testutil.MinimalConfig+`
switch:
  - platform: gpio
    id: relay
    pin: 2
    on_turn_on:
      - switch.toggle: relay
binary_sensor:
  - platform: gpio
    id: button
    pin: 3
    on_press:
      - switch.toggle: relay
`)
	require.NoError(t, g.Run(Default()))

	setup := texts(t, g, codegen.PointSetup)
	assert.Contains(t, setup, "  relay.set_state_changed_cb(switch_state_changed);")
	assert.Contains(t, setup, "  button.set_state_changed_cb(binary_sensor_state_changed);")
	assert.Equal(t, 2, g.Session.Fragments.Len())
}
