// Package config loads ArduHome device documents.
//
// A document is YAML. Loading runs in three stages:
//  1. the raw document is checked against the embedded CUE schema
//     (schema.cue), which reports type and shape errors with positions;
//  2. the document is decoded into Config with yaml.v3, action lists
//     included, and defaults are applied;
//  3. cross-references are checked: ids are unique and every action targets a
//     declared switch.
//
// All failures are reported as *LoadError values carrying an error code.
package config
