package osstatus

import "testing"

var _ error = (*UnifiedError)(nil)

func TestFromErrorPreservesCode(t *testing.T) {
	codes := []int32{0, -50, ErrSecAuthFailed, ErrSecPkcs12VerifyFailure, 7}
	for _, code := range codes {
		u := FromError(FromCode(code))
		if u.Code() != code {
			t.Fatalf("Code() = %d, want %d", u.Code(), code)
		}
		if u.OSStatus().Code() != code {
			t.Fatalf("OSStatus().Code() = %d, want %d", u.OSStatus().Code(), code)
		}
	}
}

func TestForeignVariantKeepsDescription(t *testing.T) {
	u := FromForeign("handshake rejected by peer", -999)
	if u.Code() != -999 {
		t.Fatalf("Code() = %d, want -999", u.Code())
	}
	if u.Description() != "handshake rejected by peer" {
		t.Fatalf("Description() = %q", u.Description())
	}
	if u.Error() != "handshake rejected by peer" {
		t.Fatalf("Error() = %q", u.Error())
	}
}

func TestNativeVariantDescription(t *testing.T) {
	restore := setMessageResolver(noopResolver{})
	defer restore()

	u := FromError(FromCode(ErrSecDecode))
	if got, want := u.Description(), "-26275"; got != want {
		t.Fatalf("Description() = %q, want %q", got, want)
	}
	if got, want := u.Error(), "error code -26275"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}

	restore2 := setMessageResolver(tableResolver{ErrSecDecode: "Unable to decode the provided data."})
	defer restore2()
	if got, want := u.Description(), "Unable to decode the provided data."; got != want {
		t.Fatalf("Description() = %q, want %q", got, want)
	}
}

func TestOSStatusConversionDropsForeignDescription(t *testing.T) {
	restore := setMessageResolver(noopResolver{})
	defer restore()

	e := FromForeign("rich decode failure detail", ErrSecDecode).OSStatus()
	if e.Code() != ErrSecDecode {
		t.Fatalf("Code() = %d, want %d", e.Code(), ErrSecDecode)
	}
	if got, want := e.Error(), "error code -26275"; got != want {
		t.Fatalf("Error() = %q, want %q (description must not survive)", got, want)
	}
}
