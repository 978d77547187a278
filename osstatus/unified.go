package osstatus

import "strconv"

// UnifiedError reports a credential-store failure regardless of which of
// the two underlying representations produced it: a bare status code, or a
// foreign error object that carries its own description.
//
// Both representations are kept as distinct variants rather than merged,
// because the foreign variant carries a description the numeric variant
// cannot reconstruct. Converting back to Error drops that description.
type UnifiedError struct {
	code    int32
	desc    string
	foreign bool
}

// FromError creates a UnifiedError from a bare status code error. The code
// is preserved losslessly; the description is derived by platform lookup on
// demand.
func FromError(e Error) *UnifiedError {
	return &UnifiedError{code: e.Code()}
}

// FromForeign creates a UnifiedError from a foreign error object's own
// description and mapped code.
func FromForeign(description string, code int32) *UnifiedError {
	return &UnifiedError{code: code, desc: description, foreign: true}
}

// Code returns the numeric status code, stored or mapped.
func (e *UnifiedError) Code() int32 {
	return e.code
}

// Description returns the foreign object's description when the error
// originated from one, otherwise the platform message for the code, falling
// back to the bare decimal form of the code.
func (e *UnifiedError) Description() string {
	if e.foreign {
		return e.desc
	}
	if msg, ok := FromCode(e.code).Message(); ok {
		return msg
	}
	return strconv.FormatInt(int64(e.code), 10)
}

func (e *UnifiedError) Error() string {
	if e.foreign && e.desc != "" {
		return e.desc
	}
	return FromCode(e.code).Error()
}

// OSStatus converts to the bare status code form. The conversion is lossy:
// a foreign description, if any, is discarded.
func (e *UnifiedError) OSStatus() Error {
	return FromCode(e.code)
}
