// Package validation holds pure input validators. All of them reject before
// any mutation or I/O happens.
package validation

// Error is a user-correctable input problem.
type Error string

func (e Error) Error() string { return string(e) }
