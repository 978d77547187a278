package native

import (
	"crypto"
	"crypto/x509"
	"fmt"
	"sync"

	"github.com/vocdoni/gofirma/secstore/osstatus"
)

type softKind int

const (
	softCert softKind = iota + 1
	softKey
	softIdentity
)

type softObject struct {
	kind softKind
	refs int

	der    []byte        // softCert
	signer crypto.Signer // softKey
	cert   CertRef       // softIdentity
	key    KeyRef        // softIdentity
}

// SoftStore is the portable credential-store backend: an in-process table
// of reference-counted objects. It is the process default on platforms
// without a native keychain and the backend unit tests run against.
//
// Object immutability matches the native store: certificates, keys and
// identities never change after creation, so their refs remain valid for
// concurrent use. The table itself is mutex-guarded since retain and
// release may race.
type SoftStore struct {
	mu      sync.Mutex
	next    Ref
	objects map[Ref]*softObject
}

func NewSoftStore() *SoftStore {
	return &SoftStore{objects: make(map[Ref]*softObject)}
}

// add inserts an object with one reference and returns its ref.
// Caller holds s.mu.
func (s *SoftStore) add(o *softObject) Ref {
	s.next++
	o.refs = 1
	s.objects[s.next] = o
	return s.next
}

func (s *SoftStore) Retain(ref Ref) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.objects[ref]
	if !ok {
		panic(fmt.Sprintf("native: retain of dead ref %#x", uintptr(ref)))
	}
	o.refs++
}

func (s *SoftStore) Release(ref Ref) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked(ref)
}

func (s *SoftStore) releaseLocked(ref Ref) {
	o, ok := s.objects[ref]
	if !ok {
		panic(fmt.Sprintf("native: release of dead ref %#x", uintptr(ref)))
	}
	o.refs--
	if o.refs > 0 {
		return
	}

	delete(s.objects, ref)
	if o.kind == softIdentity {
		// The identity held one reference on each of its parts.
		s.releaseLocked(Ref(o.cert))
		s.releaseLocked(Ref(o.key))
	}
}

// ObjectCount reports how many objects are currently alive. Zero after all
// handles are released means no leaks.
func (s *SoftStore) ObjectCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// AddCertificate creates a certificate object from DER bytes. The returned
// ref is owned by the caller.
func (s *SoftStore) AddCertificate(der []byte) CertRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CertRef(s.add(&softObject{kind: softCert, der: append([]byte(nil), der...)}))
}

// AddIdentity creates a private key object, a certificate object and an
// identity linking the two. The returned identity ref is owned by the
// caller; the part objects are owned by the identity.
func (s *SoftStore) AddIdentity(cert *x509.Certificate, signer crypto.Signer) IdentityRef {
	s.mu.Lock()
	defer s.mu.Unlock()

	certRef := CertRef(s.add(&softObject{kind: softCert, der: append([]byte(nil), cert.Raw...)}))
	keyRef := KeyRef(s.add(&softObject{kind: softKey, signer: signer}))
	return IdentityRef(s.add(&softObject{kind: softIdentity, cert: certRef, key: keyRef}))
}

func (s *SoftStore) CopyCertificate(id IdentityRef) (CertRef, int32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.objects[Ref(id)]
	if !ok || o.kind != softIdentity {
		return 0, osstatus.ErrSecParam
	}
	s.objects[Ref(o.cert)].refs++
	return o.cert, osstatus.Success
}

func (s *SoftStore) CopyPrivateKey(id IdentityRef) (KeyRef, int32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.objects[Ref(id)]
	if !ok || o.kind != softIdentity {
		return 0, osstatus.ErrSecParam
	}
	s.objects[Ref(o.key)].refs++
	return o.key, osstatus.Success
}

func (s *SoftStore) CertificateData(c CertRef) ([]byte, int32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.objects[Ref(c)]
	if !ok || o.kind != softCert {
		return nil, osstatus.ErrSecParam
	}
	return append([]byte(nil), o.der...), osstatus.Success
}

// Signer exposes the private key behind a key ref. Only the soft store
// offers this; native keys never leave the keychain.
func (s *SoftStore) Signer(k KeyRef) (crypto.Signer, int32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.objects[Ref(k)]
	if !ok || o.kind != softKey {
		return nil, osstatus.ErrSecParam
	}
	return o.signer, osstatus.Success
}
