// Package logger provides console logging for devserve.
//
// Two streams share one slog handler: diagnostics (Debug to Error), filtered
// by the configured level, and access lines written with Access, which are
// always emitted and carry level=ACCESS. Text on stderr is the default; JSON
// is available for piping into tools.
package logger
