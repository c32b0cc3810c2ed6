// Package repository contains the data access layer.  Every read path in
// this package filters out soft-deleted rows (`is_deleted = 0`) in the SQL
// itself, so deleted records are invisible to the rest of the application
// unless a repository explicitly offers a method that includes them.  The
// sentinel errors defined here let handlers distinguish failure scenarios
// without inspecting SQL error strings.
package repository

import (
	"errors"
	"strings"
)

// ErrPrescriptionNotFound is returned when a prescription does not exist or
// is soft-deleted.  Handlers should translate this into an HTTP 404.
var ErrPrescriptionNotFound = errors.New("prescription not found")

// ErrScheduleNotFound is returned when a medication schedule does not exist
// or is soft-deleted.
var ErrScheduleNotFound = errors.New("schedule not found")

// ErrTimingNotFound is returned when a schedule timing does not exist or is
// soft-deleted.
var ErrTimingNotFound = errors.New("timing not found")

// ErrMedicineNotFound is returned when a catalogue medicine does not exist.
var ErrMedicineNotFound = errors.New("medicine not found")

// ErrIntakeLogNotFound is returned when an intake log does not exist or is
// soft-deleted.
var ErrIntakeLogNotFound = errors.New("intake log not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers should translate this into an HTTP 403
// response.
var ErrForbidden = errors.New("forbidden")

// inPlaceholders renders "?,?,?" for len(ids) values and the matching args
// slice.  Callers must guard against empty input.
func inPlaceholders(ids []uint64) (string, []interface{}) {
	marks := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		marks[i] = "?"
		args[i] = id
	}
	return strings.Join(marks, ","), args
}
