// Package logx configures tglog's structured logging.
//
// A small wrapper (logx.Logger) on top of zerolog keeps:
//   - Console output readable (short timestamp + short caller)
//   - File output JSON-structured
//   - Extra sinks (such as tglog.Writer) pluggable without logx knowing them
//
// Service.Apply swaps level and outputs at runtime; loggers derived from the
// service pick up the change on their next event.
package logx
