package secstore

import (
	"log"

	"github.com/vocdoni/gofirma/secstore/native"
)

// ImportedEntry is one entry of a PKCS#12 import. Identity is nil for
// entries that carry no identity (certs-only containers). Entries are
// transient: extract what you need and Close the rest.
type ImportedEntry struct {
	ID       string
	Label    string
	Identity *Identity
	Chain    []*Certificate
}

// Close releases every handle still held by the entry. Fields already
// taken by the caller must be set to nil first.
func (e *ImportedEntry) Close() {
	if e.Identity != nil {
		e.Identity.Close()
		e.Identity = nil
	}
	for _, c := range e.Chain {
		c.Close()
	}
	e.Chain = nil
}

// Pkcs12ImportOptions configures a PKCS#12 import. Zero value is unusable;
// start from NewPkcs12ImportOptions.
type Pkcs12ImportOptions struct {
	passphrase string
	store      native.Store
}

// NewPkcs12ImportOptions returns import options bound to the default
// native store.
func NewPkcs12ImportOptions() *Pkcs12ImportOptions {
	return &Pkcs12ImportOptions{store: native.Default()}
}

// Passphrase sets the container passphrase.
func (o *Pkcs12ImportOptions) Passphrase(passphrase string) *Pkcs12ImportOptions {
	o.passphrase = passphrase
	return o
}

// Store overrides the native store backing the import.
func (o *Pkcs12ImportOptions) Store(store native.Store) *Pkcs12ImportOptions {
	o.store = store
	return o
}

// Import decodes the container and returns one entry per item found, in
// the backend's order. A total failure (bad passphrase, corrupt container)
// is a single error, never a partial list. Every handle in the returned
// entries is owned by the caller.
func (o *Pkcs12ImportOptions) Import(der []byte) ([]ImportedEntry, error) {
	raw, err := o.store.ImportPKCS12(der, o.passphrase)
	if err != nil {
		log.Printf("DEBUG: PKCS12 import failed: %v", err)
		return nil, err
	}

	entries := make([]ImportedEntry, 0, len(raw))
	for _, r := range raw {
		entry := ImportedEntry{ID: r.ID, Label: r.Label}
		if r.Identity != 0 {
			entry.Identity = IdentityUnderCreateRule(o.store, r.Identity)
		}
		for _, c := range r.Chain {
			entry.Chain = append(entry.Chain, CertificateUnderCreateRule(o.store, c))
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ImportIdentities imports the container and keeps only the identities,
// preserving entry order. Handles for everything else are released here;
// entries without an identity are dropped silently.
func (o *Pkcs12ImportOptions) ImportIdentities(der []byte) ([]*Identity, error) {
	entries, err := o.Import(der)
	if err != nil {
		return nil, err
	}

	identities := make([]*Identity, 0, len(entries))
	for idx := range entries {
		e := &entries[idx]
		if e.Identity != nil {
			identities = append(identities, e.Identity)
			e.Identity = nil
		}
		e.Close()
	}
	return identities, nil
}
