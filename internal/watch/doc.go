// Package watch reruns work when configuration files change.
//
// Directories are watched rather than files so that editors which save by
// writing a temporary file and renaming it over the original keep
// triggering events. Bursts of events for one file are coalesced into a
// single call.
package watch
