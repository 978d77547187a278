package secstore

import (
	"github.com/vocdoni/gofirma/secstore/native"
	"github.com/vocdoni/gofirma/secstore/osstatus"
)

// Identity is an owned handle to a native identity: a certificate paired
// with its private key. The two parts are fetched independently and on
// demand; nothing is cached, so repeated accessor calls are safe but each
// one re-enters the native store.
//
// The native identity object is immutable after creation, so an Identity
// may be shared across goroutines.
type Identity struct {
	h     handle[native.IdentityRef]
	store native.Store
}

// IdentityUnderCreateRule wraps an identity ref the caller already owns
// (+1), as returned by copy/create operations.
func IdentityUnderCreateRule(store native.Store, ref native.IdentityRef) *Identity {
	return &Identity{h: wrapUnderCreateRule(store, ref), store: store}
}

// IdentityUnderGetRule wraps a borrowed identity ref, retaining once.
func IdentityUnderGetRule(store native.Store, ref native.IdentityRef) *Identity {
	return &Identity{h: wrapUnderGetRule(store, ref), store: store}
}

// Ref returns the wrapped native ref. The handle stays the owner.
func (i *Identity) Ref() native.IdentityRef {
	return i.h.raw()
}

// Clone returns an independently releasing owner of the same identity.
func (i *Identity) Clone() *Identity {
	return &Identity{h: i.h.clone(), store: i.store}
}

// Close releases the owned reference. Releasing twice is a no-op.
func (i *Identity) Close() {
	i.h.close()
}

// Certificate returns the certificate of this identity as a new owned
// handle. The caller must Close it.
func (i *Identity) Certificate() (*Certificate, error) {
	ref, status := i.store.CopyCertificate(i.h.raw())
	if status != osstatus.Success {
		return nil, osstatus.FromError(osstatus.FromCode(status))
	}
	return CertificateUnderCreateRule(i.store, ref), nil
}

// PrivateKey returns the private key of this identity as a new owned
// handle. The caller must Close it. Independent of Certificate: a failure
// in one does not affect the other.
func (i *Identity) PrivateKey() (*Key, error) {
	ref, status := i.store.CopyPrivateKey(i.h.raw())
	if status != osstatus.Success {
		return nil, osstatus.FromError(osstatus.FromCode(status))
	}
	return KeyUnderCreateRule(i.store, ref), nil
}

// FromPKCS12 imports identities from a PKCS#12 container. Entries that
// carry no identity are dropped; all other data from the container is
// discarded. This is a shortcut for the most common import operation.
func FromPKCS12(der []byte, passphrase string) ([]*Identity, error) {
	return NewPkcs12ImportOptions().Passphrase(passphrase).ImportIdentities(der)
}
