package component

import (
	"errors"
	"fmt"
	"text/template"

	"github.com/roach88/arduhome/internal/codegen"
)

// ErrNoNetwork is returned when MQTT is configured without a network client.
var ErrNoNetwork = errors.New("mqtt requires an ethernet block")

var mqttFunctionsTmpl = template.Must(template.New("mqtt-functions").Parse(`void connect() {
  Serial.print("connecting...");
  while (!client.connect({{ printf "%q" .Name }}{{ if .Username }}, {{ printf "%q" .Username }}, {{ printf "%q" .Password }}{{ end }})) {
    Serial.print(".");
    delay(1000);
  }

  Serial.println("\nconnected!");

  client.publish("{{ .Prefix }}/arduino/state", String("connected: ") + String(millis()));

// ArduHome MQTT-Connected
}

void messageReceived(String &topic, String &payload) {
// ArduHome MQTT-MessageReceived
}`))

var mqttSetupTmpl = template.Must(template.New("mqtt-setup").Parse(`  client.begin({{ printf "%q" .Broker }}, {{ .Port }}, net);
  client.onMessage(messageReceived);

  connect();`))

var mqttSwitchPublishTmpl = template.Must(template.New("mqtt-switch-publish").Parse(`void mqtt_switch_state_changed(Switch_Base *a_switch, bool state)
{
    client.publish("{{ .Prefix }}/" + a_switch->get_name(), state ? "ON" : "OFF");
}`))

var mqttSensorPublishTmpl = template.Must(template.New("mqtt-sensor-publish").Parse(`void mqtt_binary_sensor_state_changed(BinarySensor_Base *binary_sensor, bool state)
{
    client.publish("{{ .Prefix }}/" + binary_sensor->get_name(), state ? "ON" : "OFF");
}`))

var mqttCommandTmpl = template.Must(template.New("mqtt-command").Parse(`  if (topic == "{{ .Prefix }}/{{ .ID }}/set")
  {
    {{ .ID }}.set_state(payload == "ON");
    return;
  }`))

// MQTT connects to the broker, publishes entity states and subscribes to
// switch command topics.
type MQTT struct{}

func (MQTT) Name() string { return "mqtt" }

// TopicPrefix is the root of every topic the device uses.
func TopicPrefix(deviceName string) string {
	return "home/" + deviceName
}

func (MQTT) Generate(g *Generation) error {
	m := g.Config.MQTT
	if m == nil {
		return nil
	}
	if g.Config.Ethernet == nil {
		return ErrNoNetwork
	}

	prefix := TopicPrefix(g.Config.Device.Name)

	g.Session.AddDefault(codegen.PointIncludes, IncludeMQTT)
	g.Session.Add(codegen.PointGlobals, "MQTTClient client;", PriorityEarly)
	g.Require(LibMQTT)

	functions, err := render(mqttFunctionsTmpl, map[string]string{
		"Name":     g.Config.Device.Name,
		"Username": m.Username,
		"Password": m.Password,
		"Prefix":   prefix,
	})
	if err != nil {
		return err
	}
	g.Session.Add(codegen.PointGlobals, functions, PriorityLate)

	setup, err := render(mqttSetupTmpl, m)
	if err != nil {
		return err
	}
	g.Session.Add(codegen.PointSetup, setup, PriorityLate)

	g.Session.AddDefault(codegen.PointLoop, `  client.loop();

  if (!client.connected()) {
    connect();
  }`)

	if err := mqttBinarySensors(g, prefix); err != nil {
		return err
	}
	return mqttSwitches(g, prefix)
}

func mqttBinarySensors(g *Generation, prefix string) error {
	if len(g.BinarySensors) == 0 {
		return nil
	}
	publish, err := render(mqttSensorPublishTmpl, map[string]string{"Prefix": prefix})
	if err != nil {
		return err
	}
	g.Session.AddDefault(codegen.PointGlobals, publish)

	for _, bs := range g.BinarySensors {
		id := bs.Config.ID
		bs.StateChanged = append(bs.StateChanged, "mqtt_binary_sensor_state_changed(binary_sensor, state);")
		g.Session.AddDefault(codegen.PointMQTTConnected,
			fmt.Sprintf("  mqtt_binary_sensor_state_changed(&%s, %s.get_state());", id, id))
	}
	return nil
}

func mqttSwitches(g *Generation, prefix string) error {
	if len(g.Switches) == 0 {
		return nil
	}
	publish, err := render(mqttSwitchPublishTmpl, map[string]string{"Prefix": prefix})
	if err != nil {
		return err
	}
	g.Session.AddDefault(codegen.PointGlobals, publish)

	for _, sw := range g.Switches {
		id := sw.Config.ID
		sw.StateChanged = append(sw.StateChanged, "mqtt_switch_state_changed(a_switch, state);")
		g.Session.AddDefault(codegen.PointMQTTConnected,
			fmt.Sprintf("  client.subscribe(\"%s/%s/set\");", prefix, id))
		g.Session.AddDefault(codegen.PointMQTTConnected,
			fmt.Sprintf("  mqtt_switch_state_changed(&%s, %s.get_state());", id, id))

		command, err := render(mqttCommandTmpl, map[string]string{"Prefix": prefix, "ID": id})
		if err != nil {
			return err
		}
		g.Session.AddDefault(codegen.PointMessageReceived, command)
	}
	return nil
}
