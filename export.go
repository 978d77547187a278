package secstore

import (
	"errors"

	"github.com/smallstep/pkcs7"
)

// ExportCertificates bundles certificates into a degenerate, certs-only
// PKCS#7 SignedData structure, the usual interchange form for certificate
// chains without keys.
func ExportCertificates(certs ...*Certificate) ([]byte, error) {
	if len(certs) == 0 {
		return nil, errors.New("secstore: no certificates to export")
	}

	var der []byte
	for _, c := range certs {
		raw, err := c.DER()
		if err != nil {
			return nil, err
		}
		der = append(der, raw...)
	}
	return pkcs7.DegenerateCertificate(der)
}

// ParseCertificateBundle extracts the certificates of a certs-only PKCS#7
// bundle as plain DER blobs.
func ParseCertificateBundle(data []byte) ([][]byte, error) {
	p7, err := pkcs7.Parse(data)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, 0, len(p7.Certificates))
	for _, c := range p7.Certificates {
		out = append(out, c.Raw)
	}
	return out, nil
}
