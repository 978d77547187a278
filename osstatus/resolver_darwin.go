//go:build darwin && cgo

package osstatus

/*
#cgo LDFLAGS: -framework CoreFoundation -framework Security
#include <CoreFoundation/CoreFoundation.h>
#include <Security/Security.h>
*/
import "C"
import "unsafe"

func platformResolver() messageResolver {
	return secResolver{}
}

// secResolver asks the Security framework for the message that belongs to
// a status code.
type secResolver struct{}

func (secResolver) resolveMessage(code int32) (string, bool) {
	ref := C.SecCopyErrorMessageString(C.OSStatus(code), nil)
	if ref == 0 {
		return "", false
	}
	defer C.CFRelease(C.CFTypeRef(ref))

	msg := cfStringToGo(ref)
	if msg == "" {
		return "", false
	}
	return msg, true
}

func cfStringToGo(ref C.CFStringRef) string {
	if ptr := C.CFStringGetCStringPtr(ref, C.kCFStringEncodingUTF8); ptr != nil {
		return C.GoString(ptr)
	}

	length := C.CFStringGetLength(ref)
	max := C.CFStringGetMaximumSizeForEncoding(length, C.kCFStringEncodingUTF8) + 1
	buf := make([]byte, int(max))
	if C.CFStringGetCString(ref, (*C.char)(unsafe.Pointer(&buf[0])), max, C.kCFStringEncodingUTF8) == 0 {
		return ""
	}
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}
