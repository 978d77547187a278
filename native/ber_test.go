package native

import (
	"bytes"
	"testing"
)

func TestNormalizeBERIndefiniteLength(t *testing.T) {
	// SEQUENCE (indefinite) { OCTET STRING "abc" } EOC
	in := []byte{0x30, 0x80, 0x04, 0x03, 'a', 'b', 'c', 0x00, 0x00}
	want := []byte{0x30, 0x05, 0x04, 0x03, 'a', 'b', 'c'}

	got, err := normalizeBER(in)
	if err != nil {
		t.Fatalf("normalizeBER failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("normalizeBER = %x, want %x", got, want)
	}
}

func TestNormalizeBERConstructedOctetString(t *testing.T) {
	// Constructed OCTET STRING with two primitive fragments, indefinite length.
	in := []byte{0x24, 0x80, 0x04, 0x02, 'h', 'i', 0x04, 0x01, '!', 0x00, 0x00}
	want := []byte{0x04, 0x03, 'h', 'i', '!'}

	got, err := normalizeBER(in)
	if err != nil {
		t.Fatalf("normalizeBER failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("normalizeBER = %x, want %x", got, want)
	}
}

func TestNormalizeBERPassesThroughDER(t *testing.T) {
	in := []byte{0x30, 0x05, 0x04, 0x03, 'a', 'b', 'c'}
	got, err := normalizeBER(in)
	if err != nil {
		t.Fatalf("normalizeBER failed: %v", err)
	}
	if !bytes.Equal(got, in) {
		t.Fatalf("normalizeBER changed already-DER input: %x", got)
	}
}

func TestNormalizeBERMissingEOC(t *testing.T) {
	in := []byte{0x30, 0x80, 0x04, 0x01, 'x'}
	if _, err := normalizeBER(in); err == nil {
		t.Fatal("expected error for missing EOC")
	}
}
