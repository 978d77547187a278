package secstore

import (
	"crypto"

	"github.com/vocdoni/gofirma/secstore/native"
	"github.com/vocdoni/gofirma/secstore/osstatus"
)

// Key is an owned handle to a native private key object. The key material
// itself never crosses this boundary on a real keychain; the handle only
// controls the native object's lifetime.
type Key struct {
	h     handle[native.KeyRef]
	store native.Store
}

// KeyUnderCreateRule wraps a key ref the caller already owns (+1).
func KeyUnderCreateRule(store native.Store, ref native.KeyRef) *Key {
	return &Key{h: wrapUnderCreateRule(store, ref), store: store}
}

// KeyUnderGetRule wraps a borrowed key ref, retaining once.
func KeyUnderGetRule(store native.Store, ref native.KeyRef) *Key {
	return &Key{h: wrapUnderGetRule(store, ref), store: store}
}

// Ref returns the wrapped native ref. The handle stays the owner.
func (k *Key) Ref() native.KeyRef {
	return k.h.raw()
}

// Clone returns an independently releasing owner of the same key.
func (k *Key) Clone() *Key {
	return &Key{h: k.h.clone(), store: k.store}
}

// Close releases the owned reference. Releasing twice is a no-op.
func (k *Key) Close() {
	k.h.close()
}

// Signer exposes the private key for signing. Only backends that hold key
// material in-process support this; the keychain backend reports
// ErrSecUnimplemented.
func (k *Key) Signer() (crypto.Signer, error) {
	backend, ok := k.store.(interface {
		Signer(native.KeyRef) (crypto.Signer, int32)
	})
	if !ok {
		return nil, osstatus.FromError(osstatus.FromCode(osstatus.ErrSecUnimplemented))
	}
	signer, status := backend.Signer(k.h.raw())
	if status != osstatus.Success {
		return nil, osstatus.FromError(osstatus.FromCode(status))
	}
	return signer, nil
}
