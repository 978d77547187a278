package secstore

import (
	"crypto/x509"

	"github.com/vocdoni/gofirma/secstore/native"
	"github.com/vocdoni/gofirma/secstore/osstatus"
)

// Certificate is an owned handle to a native certificate object. The
// native object is immutable, so a Certificate may be used from multiple
// goroutines; Close and Clone remain single-owner operations.
type Certificate struct {
	h     handle[native.CertRef]
	store native.Store
}

// CertificateUnderCreateRule wraps a certificate ref the caller already
// owns (+1), as returned by copy/create operations.
func CertificateUnderCreateRule(store native.Store, ref native.CertRef) *Certificate {
	return &Certificate{h: wrapUnderCreateRule(store, ref), store: store}
}

// CertificateUnderGetRule wraps a borrowed certificate ref, retaining once
// so the handle owns its own reference.
func CertificateUnderGetRule(store native.Store, ref native.CertRef) *Certificate {
	return &Certificate{h: wrapUnderGetRule(store, ref), store: store}
}

// Ref returns the wrapped native ref. The handle stays the owner; callers
// must not release it.
func (c *Certificate) Ref() native.CertRef {
	return c.h.raw()
}

// Clone returns an independently releasing owner of the same certificate.
func (c *Certificate) Clone() *Certificate {
	return &Certificate{h: c.h.clone(), store: c.store}
}

// Close releases the owned reference. Releasing twice is a no-op.
func (c *Certificate) Close() {
	c.h.close()
}

// DER returns the DER encoding of the certificate.
func (c *Certificate) DER() ([]byte, error) {
	der, status := c.store.CertificateData(c.h.raw())
	if status != osstatus.Success {
		return nil, osstatus.FromError(osstatus.FromCode(status))
	}
	return der, nil
}

// X509 parses the certificate into a crypto/x509 value.
func (c *Certificate) X509() (*x509.Certificate, error) {
	der, err := c.DER()
	if err != nil {
		return nil, err
	}
	return x509.ParseCertificate(der)
}
