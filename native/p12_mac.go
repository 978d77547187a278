package native

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/x509/pkix"
	"encoding/asn1"
	"errors"
	"unicode/utf16"
)

// PKCS#12 MAC rewriting after BER-to-DER normalization.
//
// The container MAC covers the original AuthSafe bytes, so normalizing BER
// input invalidates it. Instead of teaching the decoders to skip MAC
// verification, the import pipeline rewrites the MacData over the
// normalized bytes using the RFC 7292 key derivation with HMAC-SHA1.

var oidHMACWithSHA1 = asn1.ObjectIdentifier{1, 3, 14, 3, 2, 26}

// pfxShell mirrors the outer PFX structure just deep enough to reach the
// MacData; the AuthSafe content stays an opaque RawValue so re-marshaling
// preserves it byte for byte.
type pfxShell struct {
	Version  int
	AuthSafe pfxContentInfo
	MacData  pfxMACData `asn1:"optional"`
}

type pfxContentInfo struct {
	ContentType asn1.ObjectIdentifier
	Content     asn1.RawValue `asn1:"tag:0,explicit,optional"`
}

type pfxMACData struct {
	Mac        pfxDigestInfo
	MacSalt    []byte
	Iterations int `asn1:"optional,default:1"`
}

type pfxDigestInfo struct {
	Algorithm pkix.AlgorithmIdentifier
	Digest    []byte
}

// recomputePFXMAC replaces the container's MAC digest with one computed
// over the current AuthSafe bytes under the given password. Only the
// SHA-1 MAC algorithm is handled; anything else is left to fail decoding
// with its original MAC.
func recomputePFXMAC(der []byte, password string) ([]byte, error) {
	var shell pfxShell
	if _, err := asn1.Unmarshal(der, &shell); err != nil {
		return nil, err
	}
	switch {
	case len(shell.MacData.Mac.Algorithm.Algorithm) == 0:
		return nil, errors.New("container carries no MAC")
	case !shell.MacData.Mac.Algorithm.Algorithm.Equal(oidHMACWithSHA1):
		return nil, errors.New("unsupported MAC algorithm")
	}

	// The MAC input is the AuthSafe's inner OCTET STRING content, not its
	// outer encoding.
	var authSafe []byte
	if _, err := asn1.Unmarshal(shell.AuthSafe.Content.Bytes, &authSafe); err != nil {
		return nil, err
	}

	bmpPassword, err := encodeBMPPassword(password)
	if err != nil {
		return nil, err
	}
	iterations := shell.MacData.Iterations
	if iterations < 1 {
		iterations = 1
	}

	key := pfxDeriveKey(shell.MacData.MacSalt, bmpPassword, iterations, pfxIDMACKey, sha1.Size)
	mac := hmac.New(sha1.New, key)
	mac.Write(authSafe)
	shell.MacData.Mac.Digest = mac.Sum(nil)

	return asn1.Marshal(shell)
}

// RFC 7292 appendix B diversifier IDs.
const (
	pfxIDMACKey = 3

	pfxBlockLen = 64
)

// pfxDeriveKey implements the RFC 7292 appendix B key derivation with
// SHA-1 as the hash.
func pfxDeriveKey(salt, password []byte, iterations int, id byte, size int) []byte {
	diversifier := make([]byte, pfxBlockLen)
	for i := range diversifier {
		diversifier[i] = id
	}

	// S and P: salt and password, each tiled up to a whole number of
	// hash-input blocks, then concatenated.
	combined := append(tileToBlocks(salt), tileToBlocks(password)...)

	derived := make([]byte, 0, size)
	for len(derived) < size {
		digest := sha1.Sum(append(diversifier, combined...))
		for i := 1; i < iterations; i++ {
			digest = sha1.Sum(digest[:])
		}
		derived = append(derived, digest[:]...)

		if len(derived) >= size {
			break
		}
		addend := tileToBlocks(digest[:])[:pfxBlockLen]
		for off := 0; off < len(combined); off += pfxBlockLen {
			addBlockPlusOne(combined[off:off+pfxBlockLen], addend)
		}
	}
	return derived[:size]
}

// tileToBlocks repeats src until it fills a whole number of derivation
// blocks. An empty src yields nil, matching the RFC's empty-component rule.
func tileToBlocks(src []byte) []byte {
	if len(src) == 0 {
		return nil
	}
	blocks := (len(src) + pfxBlockLen - 1) / pfxBlockLen
	out := make([]byte, blocks*pfxBlockLen)
	for i := range out {
		out[i] = src[i%len(src)]
	}
	return out
}

// addBlockPlusOne sets block = block + addend + 1, treating both as
// big-endian integers of pfxBlockLen bytes and discarding the final carry.
func addBlockPlusOne(block, addend []byte) {
	carry := uint16(1)
	for i := pfxBlockLen - 1; i >= 0; i-- {
		sum := uint16(block[i]) + uint16(addend[i]) + carry
		block[i] = byte(sum)
		carry = sum >> 8
	}
}

// encodeBMPPassword encodes a password as the NUL-terminated big-endian
// UCS-2 string PKCS#12 key derivation operates on.
func encodeBMPPassword(s string) ([]byte, error) {
	for _, r := range s {
		if r > 0xFFFF {
			return nil, errors.New("password contains characters outside the basic multilingual plane")
		}
	}
	units := utf16.Encode([]rune(s))
	out := make([]byte, 0, 2*len(units)+2)
	for _, u := range units {
		out = append(out, byte(u>>8), byte(u))
	}
	return append(out, 0x00, 0x00), nil
}
