// Package automation compiles declarative action sequences into C++.
//
// A sequence without delays becomes a plain statement list that callers paste
// into a callback. A sequence with delays is split at every delay into blocks
// and becomes a step machine: a class deriving from Automation_Base whose
// execute() dispatches on the persisted _step index. Delays are cooperative:
// a block starting after a delay checks its deadline and returns early until
// the deadline has passed. The loop() of the generated program polls every
// instance once per iteration.
//
// Identical class bodies are emitted once. Each compiled sequence still gets
// its own instance.
package automation
