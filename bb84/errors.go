package bb84

import "errors"

// Sentinel errors distinguishing the ways a caller can misuse the protocol
// surface. A QBER above threshold is not among them: eavesdrop detection is a
// normal protocol outcome, reported through Result, not an error.
var (
	// ErrInvalidTransition reports a phase-advance called out of order.
	ErrInvalidTransition = errors.New("invalid phase transition")

	// ErrInsufficientSample reports that error estimation was asked to work
	// with an empty sample.
	ErrInsufficientSample = errors.New("insufficient sample")

	// ErrKeyTooShort reports that fewer post-sample bits remain than the
	// requested final key length.
	ErrKeyTooShort = errors.New("key too short")

	// ErrLengthMismatch reports one-time-pad inputs of unequal length.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrSessionClosed reports a mutation attempted after a session reached a
	// terminal phase.
	ErrSessionClosed = errors.New("session closed")
)
