// Package logging constructs the slog loggers used across subgen.
//
// Two output formats exist: a human console format for interactive use and
// JSON for machine consumption. Level and format come from configuration;
// the --quiet CLI flag maps to the error level so progress chatter vanishes
// without hiding failures.
package logging
