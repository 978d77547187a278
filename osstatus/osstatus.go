// Package osstatus models failures reported by the platform credential
// store. The store reports failures in two shapes: a bare numeric status
// code, and a richer foreign error object carrying its own description.
// Error wraps the numeric form; UnifiedError presents both forms behind a
// single reporting surface.
package osstatus

import "fmt"

// Error is a bare platform status code.
//
// Construction performs no validation: any code is accepted, including
// Success. Callers are responsible for only wrapping actual failures.
type Error struct {
	code int32
}

// FromCode creates an Error from a status code.
func FromCode(code int32) Error {
	return Error{code: code}
}

// Code returns the numeric status code.
func (e Error) Code() int32 {
	return e.code
}

// Message resolves a human-readable message for the code via the platform
// message lookup. The second return is false when the platform offers no
// lookup, or the lookup yields nothing for this code. A missing message is
// a valid terminal outcome, not a failure; the lookup is a single attempt.
func (e Error) Message() (string, bool) {
	return resolver.resolveMessage(e.code)
}

func (e Error) Error() string {
	if msg, ok := e.Message(); ok {
		return msg
	}
	return fmt.Sprintf("error code %d", e.code)
}
