// Package issuer implements the credential-issuing authority: it owns the
// signing key, knows each subject's attribute value, and issues credentials
// binding the two together.
package issuer

import "errors"

var (
	// ErrSubjectNotFound is returned when the requested subject id is
	// not in the registry. No partial credential is ever issued.
	ErrSubjectNotFound = errors.New("issuer: subject not found")

	// ErrKeyInit is returned when key material is missing or corrupt at
	// startup. It is fatal: the issuer process must halt rather than
	// issue credentials under an undefined key.
	ErrKeyInit = errors.New("issuer: key initialization failed")
)
