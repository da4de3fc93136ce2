// Package component holds the feature generators.
//
// Each generator reads its part of the device document and contributes
// fragments to the session's insertion points. Generators run in a fixed
// order (see Default) because later ones attach behavior to entities created
// by earlier ones: MQTT publishes the state of switches and binary sensors,
// and the callback generator finally folds every entity's collected
// statements into one state-changed function per distinct body.
package component
