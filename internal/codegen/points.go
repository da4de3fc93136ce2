package codegen

// Insertion points of the root template and of the MQTT connection routines.
const (
	PointIncludes        = "Base-Includes"
	PointGlobals         = "Base-Globals"
	PointSetup           = "Base-Setup"
	PointLoop            = "Base-Loop"
	PointMQTTConnected   = "MQTT-Connected"
	PointMessageReceived = "MQTT-MessageReceived"
)

// RootTemplate is the skeleton of the generated src/main.cpp.
const RootTemplate = `// ArduHome Base-Includes

// ArduHome Base-Globals

void setup() {
  Serial.begin(115200);

// ArduHome Base-Setup
}

void loop() {
// ArduHome Base-Loop
}
`
