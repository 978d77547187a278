// Package native defines the capability surface the safe-wrapping layer
// consumes from the platform credential store: opaque reference-counted
// object refs, retain/release, the per-identity accessors, and raw PKCS#12
// import. Two backends implement it: the macOS keychain (darwin with cgo)
// and an in-process soft store everywhere else.
package native

// Ref is an opaque reference to a native reference-counted object. A zero
// Ref is never a valid object.
type Ref uintptr

// IdentityRef references a certificate paired with its private key.
type IdentityRef Ref

// CertRef references a certificate object.
type CertRef Ref

// KeyRef references a private key object.
type KeyRef Ref

// Shareable marks ref kinds whose native objects are immutable once
// created, and therefore safe to use from multiple goroutines without
// locking. This is a static, type-level declaration, not a runtime check.
type Shareable interface {
	shareable()
}

func (IdentityRef) shareable() {}
func (CertRef) shareable()     {}
func (KeyRef) shareable()      {}

// RefCounter is the native reference-counting capability.
//
// Retain and Release must only be called with refs that are currently
// alive; handing either a dead or unknown ref is a programmer error and
// backends are free to crash on it.
type RefCounter interface {
	Retain(ref Ref)
	Release(ref Ref)
}

// RawEntry is one entry produced by a raw PKCS#12 import. Identity is zero
// for entries that carry no identity (for example a certs-only container).
// Every non-zero ref in the entry is owned (+1) by the caller, who must
// release each exactly once.
type RawEntry struct {
	ID       string
	Label    string
	Identity IdentityRef
	Chain    []CertRef
}

// Store is the full capability surface of a credential-store backend.
//
// The accessor methods follow the create rule: on success the returned ref
// carries a +1 reference owned by the caller. The int32 returns are
// platform status codes; zero is success.
type Store interface {
	RefCounter

	// CopyCertificate returns the certificate of an identity.
	CopyCertificate(id IdentityRef) (CertRef, int32)

	// CopyPrivateKey returns the private key of an identity.
	CopyPrivateKey(id IdentityRef) (KeyRef, int32)

	// CertificateData returns the DER encoding of a certificate.
	CertificateData(c CertRef) ([]byte, int32)

	// ImportPKCS12 decodes a passphrase-protected PKCS#12 container into
	// zero or more entries. A non-nil error is a *osstatus.UnifiedError;
	// a total import failure never yields a partial entry list.
	ImportPKCS12(der []byte, passphrase string) ([]RawEntry, error)
}
