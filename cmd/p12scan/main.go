// Command p12scan imports a PKCS#12 container and prints the identities it
// contains.
package main

import (
	"crypto/sha256"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/vocdoni/gofirma/secstore"
	"github.com/vocdoni/gofirma/secstore/osstatus"
)

func main() {
	pass := flag.String("pass", "", "container passphrase")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: p12scan [-pass passphrase] file.p12")
		os.Exit(2)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to read container: %v", err)
	}

	identities, err := secstore.FromPKCS12(data, *pass)
	if err != nil {
		var unified *osstatus.UnifiedError
		if errors.As(err, &unified) {
			log.Fatalf("Import failed (status %d): %s", unified.Code(), unified.Description())
		}
		log.Fatalf("Import failed: %v", err)
	}
	if len(identities) == 0 {
		log.Fatalf("No identities found in %s", flag.Arg(0))
	}

	for i, id := range identities {
		printIdentity(i, id)
		id.Close()
	}
}

func printIdentity(i int, id *secstore.Identity) {
	cert, err := id.Certificate()
	if err != nil {
		log.Fatalf("Failed to fetch certificate of identity %d: %v", i, err)
	}
	defer cert.Close()

	x, err := cert.X509()
	if err != nil {
		log.Fatalf("Failed to parse certificate of identity %d: %v", i, err)
	}

	fp := sha256.Sum256(x.Raw)
	fmt.Printf("identity %d\n", i)
	fmt.Printf("  subject:     %s\n", x.Subject)
	fmt.Printf("  issuer:      %s\n", x.Issuer)
	fmt.Printf("  not after:   %s\n", x.NotAfter.Format("2006-01-02"))
	fmt.Printf("  sha256:      %x\n", fp)

	key, err := id.PrivateKey()
	if err != nil {
		fmt.Printf("  private key: unavailable (%v)\n", err)
		return
	}
	key.Close()
	fmt.Printf("  private key: present\n")
}
