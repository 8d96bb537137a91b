package wave

import (
	"errors"
	"fmt"
)

// ErrCompilationFailed is the single sentinel every fatal compile error
// collapses to at the process boundary (spec §7: one fixed stderr line,
// exit status 1, no positions, no recovery, no batched diagnostics).
var ErrCompilationFailed = errors.New("compilation failed")

// Fail wraps detail under ErrCompilationFailed so callers that want the
// underlying cause (the -v trace) can unwrap it, while the CLI driver
// only ever surfaces the fixed "Error: compilation failed" line.
func Fail(detail string) error {
	return fmt.Errorf("%s: %w", detail, ErrCompilationFailed)
}
