package component

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/roach88/arduhome/internal/codegen"
)

// Name prefixes of generated state-changed functions.
const (
	SwitchCallbackPrefix       = "switch_state_changed"
	BinarySensorCallbackPrefix = "binary_sensor_state_changed"
)

var callbackTmpl = template.Must(template.New("callback").Parse(`void {{ .Name }}({{ .Param }}, bool state)
{
{{ .Body }}
}`))

// Callbacks emits one state-changed function per distinct body and attaches
// it to every entity that needs it. Runs last so that all statements
// collected from other generators are known.
type Callbacks struct{}

func (Callbacks) Name() string { return "callbacks" }

func (Callbacks) Generate(g *Generation) error {
	for _, sw := range g.Switches {
		body := callbackBody(sw.StateChanged, sw.TurnOn, sw.TurnOff)
		if err := attach(g, sw.Config.ID, SwitchCallbackPrefix, "Switch_Base *a_switch", body); err != nil {
			return err
		}
	}
	for _, bs := range g.BinarySensors {
		body := callbackBody(bs.StateChanged, bs.Press, bs.Release)
		if err := attach(g, bs.Config.ID, BinarySensorCallbackPrefix, "BinarySensor_Base *binary_sensor", body); err != nil {
			return err
		}
	}
	return nil
}

// callbackBody assembles the statements run on every change followed by the
// code guarded on the new state.
func callbackBody(always []string, onTrue, onFalse string) string {
	var parts []string
	for _, stmt := range always {
		parts = append(parts, indent(stmt, "    "))
	}
	if onTrue != "" {
		parts = append(parts, "    if (state)\n    {\n"+indent(onTrue, "        ")+"\n    }")
	}
	if onFalse != "" {
		parts = append(parts, "    if (!state)\n    {\n"+indent(onFalse, "        ")+"\n    }")
	}
	return strings.Join(parts, "\n")
}

func attach(g *Generation, id, prefix, param, body string) error {
	if body == "" {
		return nil
	}

	// The parameter is part of the key: identical bodies for different
	// entity types still need separate functions.
	name, fresh := g.Session.Intern(prefix, param+"\n"+body)
	if fresh {
		fn, err := render(callbackTmpl, map[string]string{"Name": name, "Param": param, "Body": body})
		if err != nil {
			return err
		}
		g.Session.Add(codegen.PointGlobals, fn, PriorityFunctions)
	}

	g.Session.Add(codegen.PointSetup,
		fmt.Sprintf("  %s.set_state_changed_cb(%s);", id, name), PriorityCallbacks)
	return nil
}
