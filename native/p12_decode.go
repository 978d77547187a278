package native

import (
	"crypto"
	"crypto/sha256"
	"crypto/x509"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	xpkcs12 "golang.org/x/crypto/pkcs12"
	pkcs12 "software.sslmate.com/src/go-pkcs12"

	"github.com/vocdoni/gofirma/secstore/osstatus"
)

// ImportPKCS12 decodes a PKCS#12 container and registers its contents as
// soft-store objects. One entry is produced per decoded identity or, for
// certs-only containers, one identity-less entry carrying the certificates.
func (s *SoftStore) ImportPKCS12(der []byte, passphrase string) ([]RawEntry, error) {
	decoded, err := decodePKCS12(der, passphrase)
	if err != nil {
		return nil, err
	}

	entries := make([]RawEntry, 0, len(decoded))
	for _, d := range decoded {
		e := RawEntry{ID: uuid.NewString(), Label: entryLabel(d)}
		if d.cert != nil && d.signer != nil {
			e.Identity = s.AddIdentity(d.cert, d.signer)
		}
		for _, c := range d.chain {
			e.Chain = append(e.Chain, s.AddCertificate(c.Raw))
		}
		entries = append(entries, e)
	}
	return entries, nil
}

type decodedEntry struct {
	cert   *x509.Certificate
	chain  []*x509.Certificate
	signer crypto.Signer
}

func entryLabel(d decodedEntry) string {
	cert := d.cert
	if cert == nil && len(d.chain) > 0 {
		cert = d.chain[0]
	}
	if cert == nil {
		return ""
	}
	if cn := cert.Subject.CommonName; cn != "" {
		return cn
	}
	return cert.Subject.String()
}

type decodeAttempt struct {
	data []byte
	pass string
}

// buildDecodeAttempts builds a small, deterministic list of decode
// attempts: raw bytes first, then BER-normalized bytes, then BER-normalized
// bytes with a recomputed MAC. Each payload is tried with the passphrase
// and with the empty-passphrase fallback used by passwordless exports.
func buildDecodeAttempts(data []byte, passphrase string) []decodeAttempt {
	passwords := []string{passphrase}
	if passphrase != "" {
		passwords = append(passwords, "")
	}

	var attempts []decodeAttempt
	seen := make(map[string]struct{})
	add := func(payload []byte, pass string) {
		sum := sha256.Sum256(payload)
		key := fmt.Sprintf("%x:%s", sum, pass)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		attempts = append(attempts, decodeAttempt{data: payload, pass: pass})
	}

	for _, pass := range passwords {
		add(data, pass)
	}

	normalized, err := normalizeBER(data)
	if err != nil {
		return attempts
	}
	for _, pass := range passwords {
		add(normalized, pass)
	}

	// BER normalization can invalidate MAC bytes, so retry with recomputed MAC.
	for _, pass := range passwords {
		if rewritten, err := recomputePFXMAC(normalized, pass); err == nil {
			add(rewritten, pass)
		}
	}

	return attempts
}

func decodePKCS12(data []byte, passphrase string) ([]decodedEntry, error) {
	attempts := buildDecodeAttempts(data, passphrase)

	var hasIncorrectPassword bool
	var firstNonPasswordErr error
	record := func(err error) {
		if isIncorrectPasswordError(err) {
			hasIncorrectPassword = true
		} else if firstNonPasswordErr == nil {
			firstNonPasswordErr = err
		}
	}

	for _, a := range attempts {
		priv, cert, chain, err := pkcs12.DecodeChain(a.data, a.pass)
		if err != nil {
			record(err)
			continue
		}
		signer, ok := priv.(crypto.Signer)
		if !ok {
			record(fmt.Errorf("parsed private key does not support signing"))
			continue
		}
		return []decodedEntry{{cert: cert, chain: chain, signer: signer}}, nil
	}

	// Certs-only container: no identity, just a certificate bag.
	for _, a := range attempts {
		certs, err := pkcs12.DecodeTrustStore(a.data, a.pass)
		if err == nil && len(certs) > 0 {
			return []decodedEntry{{chain: certs}}, nil
		}
	}

	// Legacy single key+cert containers that DecodeChain rejects.
	for _, a := range attempts {
		priv, cert, err := xpkcs12.Decode(a.data, a.pass)
		if err != nil || cert == nil {
			continue
		}
		if signer, ok := priv.(crypto.Signer); ok {
			return []decodedEntry{{cert: cert, signer: signer}}, nil
		}
	}

	if hasIncorrectPassword && firstNonPasswordErr == nil {
		return nil, osstatus.FromForeign(
			"MAC verification failed during PKCS12 import (wrong password?)",
			osstatus.ErrSecPkcs12VerifyFailure)
	}
	if firstNonPasswordErr != nil {
		return nil, osstatus.FromForeign(firstNonPasswordErr.Error(), osstatus.ErrSecDecode)
	}
	return nil, osstatus.FromForeign("unable to decode PKCS12 container", osstatus.ErrSecDecode)
}

func isIncorrectPasswordError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, pkcs12.ErrIncorrectPassword) || errors.Is(err, pkcs12.ErrDecryption) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "decryption password incorrect") ||
		strings.Contains(msg, "incorrect padding")
}
