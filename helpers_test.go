package secstore

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"sync"
	"testing"
	"time"

	pkcs12 "software.sslmate.com/src/go-pkcs12"

	"github.com/vocdoni/gofirma/secstore/native"
)

func newTestCertificate(t *testing.T) (*x509.Certificate, crypto.Signer) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "secstore test identity"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, key.Public(), key)
	if err != nil {
		t.Fatalf("failed to create certificate: %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("failed to parse certificate: %v", err)
	}
	return cert, key
}

func makeP12(t *testing.T, password string) ([]byte, *x509.Certificate) {
	t.Helper()
	cert, signer := newTestCertificate(t)
	der, err := pkcs12.Modern.Encode(signer, cert, nil, password)
	if err != nil {
		t.Fatalf("failed to encode test PKCS12: %v", err)
	}
	return der, cert
}

// countingStore wraps a soft store and counts every retain and release so
// tests can balance the ownership books.
type countingStore struct {
	*native.SoftStore

	mu       sync.Mutex
	retains  int
	releases int
}

func newCountingStore() *countingStore {
	return &countingStore{SoftStore: native.NewSoftStore()}
}

func (c *countingStore) Retain(ref native.Ref) {
	c.mu.Lock()
	c.retains++
	c.mu.Unlock()
	c.SoftStore.Retain(ref)
}

func (c *countingStore) Release(ref native.Ref) {
	c.mu.Lock()
	c.releases++
	c.mu.Unlock()
	c.SoftStore.Release(ref)
}

func (c *countingStore) counts() (retains, releases int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.retains, c.releases
}
