package osstatus

import (
	"math"
	"testing"
)

var _ error = Error{}

// tableResolver stands in for the platform message lookup.
type tableResolver map[int32]string

func (r tableResolver) resolveMessage(code int32) (string, bool) {
	msg, ok := r[code]
	if !ok || msg == "" {
		return "", false
	}
	return msg, true
}

func TestFromCodeRoundTrip(t *testing.T) {
	codes := []int32{0, -1, 42, ErrSecAuthFailed, ErrSecDecode, math.MinInt32, math.MaxInt32}
	for _, code := range codes {
		if got := FromCode(code).Code(); got != code {
			t.Fatalf("FromCode(%d).Code() = %d", code, got)
		}
	}
}

func TestMessageWithoutResolution(t *testing.T) {
	restore := setMessageResolver(noopResolver{})
	defer restore()

	e := FromCode(ErrSecAuthFailed)
	if msg, ok := e.Message(); ok {
		t.Fatalf("expected no message, got %q", msg)
	}
	if got, want := e.Error(), "error code -25293"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestMessageWithResolution(t *testing.T) {
	restore := setMessageResolver(tableResolver{
		ErrSecAuthFailed: "The user name or passphrase you entered is not correct.",
	})
	defer restore()

	e := FromCode(ErrSecAuthFailed)
	msg, ok := e.Message()
	if !ok || msg == "" {
		t.Fatal("expected a resolved message for a known code")
	}
	if e.Error() != msg {
		t.Fatalf("Error() = %q, want the message verbatim %q", e.Error(), msg)
	}

	if _, ok := FromCode(4242).Message(); ok {
		t.Fatal("expected no message for a code the resolver does not know")
	}
}
