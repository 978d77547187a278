//go:build darwin && cgo

package native

var defaultStore Store = Keychain{}

// Default returns the process-wide store: the macOS keychain.
func Default() Store {
	return defaultStore
}
