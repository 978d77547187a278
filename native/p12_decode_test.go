package native

import (
	"crypto/x509"
	"errors"
	"testing"

	pkcs12 "software.sslmate.com/src/go-pkcs12"

	"github.com/vocdoni/gofirma/secstore/osstatus"
)

func makeP12(t *testing.T, password string) ([]byte, *x509.Certificate) {
	t.Helper()
	cert, signer := newTestCertificate(t)
	der, err := pkcs12.Modern.Encode(signer, cert, nil, password)
	if err != nil {
		t.Fatalf("failed to encode test PKCS12: %v", err)
	}
	return der, cert
}

func TestImportPKCS12SingleIdentity(t *testing.T) {
	st := NewSoftStore()
	der, cert := makeP12(t, "password123")

	entries, err := st.ImportPKCS12(der, "password123")
	if err != nil {
		t.Fatalf("ImportPKCS12 failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}

	e := entries[0]
	if e.Identity == 0 {
		t.Fatal("entry has no identity")
	}
	if e.ID == "" {
		t.Fatal("entry has no ID")
	}
	if e.Label != cert.Subject.CommonName {
		t.Fatalf("Label = %q, want %q", e.Label, cert.Subject.CommonName)
	}

	st.Release(Ref(e.Identity))
	for _, c := range e.Chain {
		st.Release(Ref(c))
	}
	if st.ObjectCount() != 0 {
		t.Fatalf("ObjectCount = %d after releasing the import, want 0", st.ObjectCount())
	}
}

func TestImportPKCS12WrongPassword(t *testing.T) {
	st := NewSoftStore()
	der, _ := makeP12(t, "password123")

	_, err := st.ImportPKCS12(der, "not-the-password")
	if err == nil {
		t.Fatal("expected import failure for wrong password")
	}
	var unified *osstatus.UnifiedError
	if !errors.As(err, &unified) {
		t.Fatalf("error is %T, want *osstatus.UnifiedError", err)
	}
	if unified.Code() != osstatus.ErrSecPkcs12VerifyFailure {
		t.Fatalf("Code() = %d, want %d", unified.Code(), osstatus.ErrSecPkcs12VerifyFailure)
	}
	if unified.Description() == "" {
		t.Fatal("Description() is empty")
	}
	if st.ObjectCount() != 0 {
		t.Fatal("failed import leaked objects")
	}
}

func TestImportPKCS12Corrupt(t *testing.T) {
	st := NewSoftStore()

	_, err := st.ImportPKCS12([]byte("not-a-pkcs12-container"), "password123")
	if err == nil {
		t.Fatal("expected import failure for corrupt data")
	}
	var unified *osstatus.UnifiedError
	if !errors.As(err, &unified) {
		t.Fatalf("error is %T, want *osstatus.UnifiedError", err)
	}
	if unified.Code() != osstatus.ErrSecDecode {
		t.Fatalf("Code() = %d, want %d", unified.Code(), osstatus.ErrSecDecode)
	}
}

func TestImportPKCS12CertsOnly(t *testing.T) {
	st := NewSoftStore()
	cert, _ := newTestCertificate(t)
	der, err := pkcs12.Modern.EncodeTrustStore([]*x509.Certificate{cert}, "password123")
	if err != nil {
		t.Fatalf("failed to encode trust store: %v", err)
	}

	entries, err := st.ImportPKCS12(der, "password123")
	if err != nil {
		t.Fatalf("ImportPKCS12 failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Identity != 0 {
		t.Fatal("certs-only container produced an identity")
	}
	if len(e.Chain) != 1 {
		t.Fatalf("got %d chain certs, want 1", len(e.Chain))
	}
	for _, c := range e.Chain {
		st.Release(Ref(c))
	}
	if st.ObjectCount() != 0 {
		t.Fatalf("ObjectCount = %d, want 0", st.ObjectCount())
	}
}
