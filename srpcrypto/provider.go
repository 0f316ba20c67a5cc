// Package srpcrypto plugs concrete hash, password-KDF, MAC, randomness
// and constant-time comparison implementations into the SRP engine. It
// ships two providers, OpenSSL-style (srpcrypto/openssl.go) and NaCl-style
// (srpcrypto/nacl.go); callers may supply their own by implementing Crypto.
package srpcrypto

import (
	"fmt"

	"github.com/vaultwire/esrp/value"
)

// NotApplicable is returned when a provider's configuration names an
// option value the provider does not implement.
type NotApplicable struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *NotApplicable) Error() string {
	return fmt.Sprintf("srpcrypto: %q is not a supported value for %q (allowed: %v)", e.Value, e.Field, e.Allowed)
}

func notApplicable(field, val string, allowed ...string) error {
	return &NotApplicable{Field: field, Value: val, Allowed: allowed}
}

// Crypto is the capability interface the SRP engine depends on. Every
// operation is deterministic given its inputs except Salt and Random,
// which draw on a cryptographically secure random source.
type Crypto interface {
	// H hashes the concatenation of the chosen representation of each
	// non-nil value.
	H(values ...*value.Value) *value.Value

	// PasswordHash derives a value from a salt and a UTF-8 password
	// using the configured KDF.
	PasswordHash(salt *value.Value, password string) (*value.Value, error)

	// KeyedHash computes a MAC of msg keyed by key.
	KeyedHash(key, msg *value.Value) *value.Value

	// Salt returns fresh cryptographically random bytes sized to the
	// provider's hash digest.
	Salt() (*value.Value, error)

	// Random returns n cryptographically random bytes.
	Random(n int) (*value.Value, error)

	// SecureCompare reports whether a and b have identical hex or byte
	// views (as the provider chooses), in time independent of where
	// they first differ. Values equal as integers but carrying
	// different leading zero bytes compare unequal.
	SecureCompare(a, b *value.Value) bool
}

func contains(allowed []string, s string) bool {
	for _, a := range allowed {
		if a == s {
			return true
		}
	}
	return false
}
