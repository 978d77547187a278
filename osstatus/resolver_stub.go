//go:build !darwin || !cgo

package osstatus

// Message lookup is only available through the Security framework on macOS.
func platformResolver() messageResolver {
	return noopResolver{}
}
