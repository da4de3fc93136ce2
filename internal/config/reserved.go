package config

import (
	"regexp"
	"strings"
)

// reservedNames are identifiers declared by the generated sketch, the Arduino
// core or C++ itself. Entity ids become C++ globals and cannot reuse them.
var reservedNames = map[string]bool{
	// sketch globals, functions and parameters
	"net": true, "client": true, "connect": true, "messageReceived": true,
	"mqtt_switch_state_changed": true, "mqtt_binary_sensor_state_changed": true,
	"mac": true, "ip": true, "state": true, "setup": true, "loop": true,

	// Arduino core
	"Ethernet": true, "Serial": true, "String": true, "millis": true,
	"delay": true, "pinMode": true, "digitalRead": true, "digitalWrite": true,
	"HIGH": true, "LOW": true, "INPUT": true, "OUTPUT": true,
	"INPUT_PULLUP": true, "INPUT_PULLDOWN": true,

	// C++ keywords an entity id could plausibly collide with
	"auto": true, "bool": true, "break": true, "case": true, "char": true,
	"class": true, "const": true, "continue": true, "default": true,
	"delete": true, "do": true, "double": true, "else": true, "enum": true,
	"false": true, "float": true, "for": true, "goto": true, "if": true,
	"int": true, "long": true, "new": true, "private": true, "public": true,
	"return": true, "short": true, "static": true, "struct": true,
	"switch": true, "this": true, "true": true, "unsigned": true,
	"void": true, "while": true,
}

// generatedName matches identifiers minted by the id generator for
// step-machine classes, their instances and state callbacks.
var generatedName = regexp.MustCompile(`^(Automation|automation|switch_state_changed|binary_sensor_state_changed)(_[0-9]+)?$`)

// reservedID reports whether id would clash with a generated identifier.
func reservedID(id string) bool {
	return reservedNames[id] || generatedName.MatchString(id) || strings.HasPrefix(id, "__")
}
