package osstatus

// messageResolver looks up the human-readable message for a status code.
//
// There are exactly two strategies, picked at build time: the
// Security-framework-backed resolver on darwin with cgo, and the noop
// resolver everywhere else. Call sites never branch on the platform.
type messageResolver interface {
	resolveMessage(code int32) (string, bool)
}

var resolver messageResolver = platformResolver()

// setMessageResolver swaps the resolver and returns a restore func.
// Only tests use it.
func setMessageResolver(r messageResolver) func() {
	prev := resolver
	resolver = r
	return func() { resolver = prev }
}

type noopResolver struct{}

func (noopResolver) resolveMessage(int32) (string, bool) {
	return "", false
}
