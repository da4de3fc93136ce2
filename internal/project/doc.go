// Package project lays out a PlatformIO project for a compiled device and
// optionally builds it with the pio tool.
//
// A project directory looks like:
//
//	<dir>/platformio.ini
//	<dir>/src/main.cpp
//	<dir>/lib/ArduHome/...
//
// lib/ is owned by arduhome and replaced on every write.
package project
