//go:build darwin && cgo

package native

/*
#cgo LDFLAGS: -framework CoreFoundation -framework Security
#include <stdlib.h>
#include <CoreFoundation/CoreFoundation.h>
#include <Security/Security.h>
*/
import "C"
import (
	"unsafe"

	"github.com/google/uuid"

	"github.com/vocdoni/gofirma/secstore/osstatus"
)

// Keychain is the Security-framework-backed store. Refs are CoreFoundation
// object pointers; retain and release go straight to CFRetain/CFRelease,
// so the framework's own reference counts arbitrate object lifetime.
type Keychain struct{}

func (Keychain) Retain(ref Ref) {
	C.CFRetain(C.CFTypeRef(unsafe.Pointer(uintptr(ref))))
}

func (Keychain) Release(ref Ref) {
	C.CFRelease(C.CFTypeRef(unsafe.Pointer(uintptr(ref))))
}

func (Keychain) CopyCertificate(id IdentityRef) (CertRef, int32) {
	var cert C.SecCertificateRef
	status := C.SecIdentityCopyCertificate(C.SecIdentityRef(unsafe.Pointer(uintptr(id))), &cert)
	if status != C.errSecSuccess {
		return 0, int32(status)
	}
	return CertRef(uintptr(unsafe.Pointer(cert))), osstatus.Success
}

func (Keychain) CopyPrivateKey(id IdentityRef) (KeyRef, int32) {
	var key C.SecKeyRef
	status := C.SecIdentityCopyPrivateKey(C.SecIdentityRef(unsafe.Pointer(uintptr(id))), &key)
	if status != C.errSecSuccess {
		return 0, int32(status)
	}
	return KeyRef(uintptr(unsafe.Pointer(key))), osstatus.Success
}

func (Keychain) CertificateData(c CertRef) ([]byte, int32) {
	data := C.SecCertificateCopyData(C.SecCertificateRef(unsafe.Pointer(uintptr(c))))
	if data == 0 {
		return nil, osstatus.ErrSecParam
	}
	defer C.CFRelease(C.CFTypeRef(data))

	n := C.int(C.CFDataGetLength(data))
	return C.GoBytes(unsafe.Pointer(C.CFDataGetBytePtr(data)), n), osstatus.Success
}

func (Keychain) ImportPKCS12(der []byte, passphrase string) ([]RawEntry, error) {
	cfData := bytesToCFData(der)
	defer C.CFRelease(C.CFTypeRef(cfData))
	cfPass := stringToCFString(passphrase)
	defer C.CFRelease(C.CFTypeRef(cfPass))

	options := mapToCFDictionary(map[C.CFTypeRef]C.CFTypeRef{
		C.CFTypeRef(C.kSecImportExportPassphrase): C.CFTypeRef(cfPass),
	})
	defer C.CFRelease(C.CFTypeRef(options))

	var items C.CFArrayRef
	if status := C.SecPKCS12Import(cfData, options, &items); status != C.errSecSuccess {
		return nil, osstatus.FromError(osstatus.FromCode(int32(status)))
	}
	defer C.CFRelease(C.CFTypeRef(items))

	n := int(C.CFArrayGetCount(items))
	entries := make([]RawEntry, 0, n)
	for i := 0; i < n; i++ {
		dict := C.CFDictionaryRef(C.CFArrayGetValueAtIndex(items, C.CFIndex(i)))
		entry := RawEntry{ID: uuid.NewString()}

		if v := C.CFDictionaryGetValue(dict, unsafe.Pointer(C.kSecImportItemLabel)); v != nil {
			entry.Label = cfStringGo(C.CFStringRef(v))
		}
		// Values live in the items array; retain anything handed out so the
		// entry owns a +1 reference on each ref.
		if v := C.CFDictionaryGetValue(dict, unsafe.Pointer(C.kSecImportItemIdentity)); v != nil {
			C.CFRetain(C.CFTypeRef(v))
			entry.Identity = IdentityRef(uintptr(v))
		}
		if v := C.CFDictionaryGetValue(dict, unsafe.Pointer(C.kSecImportItemCertChain)); v != nil {
			chain := C.CFArrayRef(v)
			for j := 0; j < int(C.CFArrayGetCount(chain)); j++ {
				cert := C.CFArrayGetValueAtIndex(chain, C.CFIndex(j))
				C.CFRetain(C.CFTypeRef(cert))
				entry.Chain = append(entry.Chain, CertRef(uintptr(cert)))
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func stringToCFString(s string) C.CFStringRef {
	cstr := C.CString(s)
	defer C.free(unsafe.Pointer(cstr))
	return C.CFStringCreateWithCString(C.kCFAllocatorDefault, cstr, C.kCFStringEncodingUTF8)
}

func bytesToCFData(b []byte) C.CFDataRef {
	var ptr *C.UInt8
	if len(b) > 0 {
		ptr = (*C.UInt8)(unsafe.Pointer(&b[0]))
	}
	return C.CFDataCreate(C.kCFAllocatorDefault, ptr, C.CFIndex(len(b)))
}

func mapToCFDictionary(m map[C.CFTypeRef]C.CFTypeRef) C.CFDictionaryRef {
	var (
		n      = len(m)
		keys   = make([]unsafe.Pointer, 0, n)
		values = make([]unsafe.Pointer, 0, n)
	)
	for k, v := range m {
		keys = append(keys, unsafe.Pointer(k))
		values = append(values, unsafe.Pointer(v))
	}
	return C.CFDictionaryCreate(C.kCFAllocatorDefault, &keys[0], &values[0], C.CFIndex(n),
		&C.kCFTypeDictionaryKeyCallBacks, &C.kCFTypeDictionaryValueCallBacks)
}

func cfStringGo(ref C.CFStringRef) string {
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
