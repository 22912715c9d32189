package fxwire

import "errors"

// Caller input errors, reported before any I/O.
var (
	// ErrParamLengthMismatch indicates that the control-frame parameter slices
	// do not all have the same length as the ID slice.
	ErrParamLengthMismatch = errors.New("fxwire: all control parameter arrays must have the same length")

	// ErrEmptyControl indicates a control command without any motor frame.
	ErrEmptyControl = errors.New("fxwire: control command needs at least one motor frame")

	// ErrNonFiniteParam indicates a NaN or infinite control parameter, which
	// the firmware cannot parse.
	ErrNonFiniteParam = errors.New("fxwire: control parameters must be finite")

	// ErrNotCommand indicates a tag that has no outbound command keyword.
	ErrNotCommand = errors.New("fxwire: tag is not a command")
)

// Reply parse errors. These are never surfaced to API callers; the receive
// engine counts and drops such datagrams.
var (
	// ErrNotOK indicates a reply that does not start with "OK".
	ErrNotOK = errors.New("fxwire: reply does not start with OK")

	// ErrNoTag indicates a reply without a bracketed routing word.
	ErrNoTag = errors.New("fxwire: reply has no <TAG>")

	// ErrUnknownTag indicates a routing word outside the known tag set.
	ErrUnknownTag = errors.New("fxwire: unknown reply tag")
)
