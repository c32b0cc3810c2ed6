// Package schedule implements the dosing-schedule engine: expanding a
// user-declared timing rule into persisted timing rows, projecting timings
// into concrete dose occurrences, and assembling the per-user medication
// calendar.  All computation here is pure or read-only; persistence is owned
// by the repository layer.
package schedule

import (
	"errors"
	"fmt"
)

// ErrInvalidRule is returned when a timing rule (or an intake-log update) is
// internally inconsistent: a non-positive hour interval, an empty weekday or
// time list, an out-of-range weekday, or taken and skipped flags set
// together.  Handlers should translate this into an HTTP 400 response.
// Compare with errors.Is; the wrapped message carries the specific reason.
var ErrInvalidRule = errors.New("invalid timing rule")

// InvalidRule wraps ErrInvalidRule with a specific reason.
func InvalidRule(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRule, fmt.Sprintf(format, args...))
}
