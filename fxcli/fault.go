package fxcli

// isFatal reports whether err requires the socket to be recreated.
//
// Errors that are neither transient nor known socket faults are treated as
// fatal too: a socket returning an unexpected error is replaced rather than
// polled in a tight error loop.
func isFatal(err error) bool {
	return err != nil && !isTransient(err)
}
