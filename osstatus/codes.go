package osstatus

// Status codes used by the credential store, following the platform
// convention: zero is success, failures are negative.
const (
	Success int32 = 0

	ErrSecUnimplemented       int32 = -4
	ErrSecIO                  int32 = -36
	ErrSecParam               int32 = -50
	ErrSecAuthFailed          int32 = -25293
	ErrSecItemNotFound        int32 = -25300
	ErrSecDecode              int32 = -26275
	ErrSecPkcs12VerifyFailure int32 = -25264
)
