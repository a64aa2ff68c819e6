// Package app wires application dependencies for the CLI.
//
// It builds the relay dialer, the session service, the transcript store and
// the metrics registry from Config, and runs them for the lifetime of one
// command through App.
package app
