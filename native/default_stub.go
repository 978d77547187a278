//go:build !darwin || !cgo

package native

var defaultStore Store = NewSoftStore()

// Default returns the process-wide store. Only macOS builds with cgo talk
// to a real keychain; everywhere else the soft store serves as the backend.
func Default() Store {
	return defaultStore
}
