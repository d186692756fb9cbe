package domain

import "errors"

// Sentinel errors shared by services and repositories. Callers wrap them with
// fmt.Errorf("...: %w", err) and match with errors.Is.
var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied is returned when the caller may not perform the
	// operation, either because of the event lifecycle state or ownership.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidInput is returned when the request is invalid (e.g. an unknown speaker ID).
	ErrInvalidInput = errors.New("invalid input")

	// ErrSlotOccupied is returned when a talk is placed into a slot that already holds one.
	ErrSlotOccupied = errors.New("slot already has a talk")

	// ErrInvalidTransition is returned when the event lifecycle cannot move to the requested state.
	ErrInvalidTransition = errors.New("invalid event state transition")
)
