// Package session implements the two-round SRP-6a handshake described
// by the registration, server and client protocol calls: choosing
// ephemerals, deriving the shared premaster secret and session key, and
// exchanging confirmation proofs. It is built entirely on
// github.com/vaultwire/esrp/engine and adds no cryptography of its own.
package session

import (
	"fmt"

	"github.com/vaultwire/esrp/value"
)

// ProtocolAbort is returned when a handshake step observes a condition
// that must terminate the session rather than continue: a public
// ephemeral congruent to 0 mod N, a scrambling parameter of 0, or a
// confirmation proof that fails to verify.
type ProtocolAbort struct {
	Reason string
}

func (e *ProtocolAbort) Error() string {
	return fmt.Sprintf("session: protocol abort: %s", e.Reason)
}

func abort(reason string) error {
	return &ProtocolAbort{Reason: reason}
}

// Credentials is the persisted-state layout produced by Register and
// consumed by NewServerSession: a per-user salt and password verifier.
// The core mandates no particular serialization of this record.
type Credentials struct {
	Salt     *value.Value
	Verifier *value.Value
}
