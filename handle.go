// Package secstore exposes cryptographic identities from a platform
// credential store behind memory-safe owned handles. Each handle owns
// exactly one reference to a native reference-counted object and releases
// it exactly once; failures surface as osstatus errors regardless of which
// of the two native error representations produced them.
package secstore

import (
	"github.com/vocdoni/gofirma/secstore/native"
)

type refKind interface {
	~uintptr
}

// handle owns exactly one retained reference to a native object. The
// acquisition convention (create rule or get rule) is consumed entirely at
// construction; afterwards every handle behaves identically and must be
// released exactly once via close.
type handle[R refKind] struct {
	ref    R
	rc     native.RefCounter
	closed bool
}

// wrapUnderCreateRule takes over a +1 reference the caller already owns,
// as handed out by "create"/"copy" operations. No additional retain.
func wrapUnderCreateRule[R refKind](rc native.RefCounter, ref R) handle[R] {
	if ref == 0 {
		panic("secstore: wrap of null native reference")
	}
	return handle[R]{ref: ref, rc: rc}
}

// wrapUnderGetRule wraps a borrowed reference from a non-owning "get"
// operation. It retains once immediately so the handle owns a reference
// independent of the lender's lifetime.
func wrapUnderGetRule[R refKind](rc native.RefCounter, ref R) handle[R] {
	if ref == 0 {
		panic("secstore: wrap of null native reference")
	}
	rc.Retain(native.Ref(ref))
	return handle[R]{ref: ref, rc: rc}
}

// clone retains once and returns a second, independently releasing owner
// of the same native object.
func (h *handle[R]) clone() handle[R] {
	if h.closed {
		panic("secstore: clone of closed handle")
	}
	h.rc.Retain(native.Ref(h.ref))
	return handle[R]{ref: h.ref, rc: h.rc}
}

// close releases the owned reference. Safe to call more than once; only
// the first call releases.
func (h *handle[R]) close() {
	if h.closed {
		return
	}
	h.rc.Release(native.Ref(h.ref))
	h.closed = true
}

// raw returns the wrapped ref for passing back into native calls.
func (h *handle[R]) raw() R {
	if h.closed {
		panic("secstore: use of closed handle")
	}
	return h.ref
}
