package native

// All wrapped kinds reference natively immutable objects, so every kind
// must carry the static shareability declaration.
var (
	_ Shareable = IdentityRef(0)
	_ Shareable = CertRef(0)
	_ Shareable = KeyRef(0)

	_ Store = (*SoftStore)(nil)
)
