package buffer

import "log/slog"

// Option configures a PieceTable at construction, following the
// functional-options style the pack uses for opt-in behavior rather than
// boolean parameters.
type Option func(*PieceTable)

// WithInvariantChecks enables a Validate() pass after every mutating
// operation, panicking with a stack-traced error on the first violation.
// It is off by default: walking every piece on every edit would defeat
// the point of keeping edits sub-linear. Tests and the fuzz harness turn
// it on.
func WithInvariantChecks() Option {
	return func(pt *PieceTable) { pt.checkInvariants = true }
}

// WithLogger attaches a structured logger that receives a warning
// whenever an invariant check fails, before the panic unwinds. A nil
// logger (the default) disables this without error.
func WithLogger(l *slog.Logger) Option {
	return func(pt *PieceTable) { pt.logger = l }
}
