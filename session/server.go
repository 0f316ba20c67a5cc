package session

import (
	"math/big"

	"github.com/vaultwire/esrp/engine"
	"github.com/vaultwire/esrp/value"

	"github.com/golang/glog"
)

// ServerSession is a server-side handshake in progress. It holds the
// user's persisted salt and verifier plus, once Start has run, the
// server's ephemeral keypair and the client's public key.
type ServerSession struct {
	eng      *engine.Engine
	username string
	salt     *value.Value
	v        *value.Value

	b, B, A   *value.Value
	premaster *value.Value
	K         *value.Value
}

// NewServerSession begins a server-side handshake for username, using
// the salt and verifier produced at registration time.
func NewServerSession(e *engine.Engine, username string, cred *Credentials) *ServerSession {
	return &ServerSession{eng: e, username: username, salt: cred.Salt, v: cred.Verifier}
}

// Start receives the client's public ephemeral A, rejects it if
// congruent to 0 mod N, and returns the server's public ephemeral B
// alongside the user's salt.
func (s *ServerSession) Start(A *value.Value) (B, salt *value.Value, err error) {
	if new(big.Int).Mod(A.Int(), s.eng.Group.N.Int()).Sign() == 0 {
		glog.Errorf("session: %q: A mod N == 0", s.username)
		return nil, nil, abort("A mod N == 0")
	}
	s.A = A
	b, err := s.eng.Crypto.Random(s.eng.Group.Size())
	if err != nil {
		return nil, nil, err
	}
	s.b = b
	s.B = s.eng.CalcB(b, s.v)
	glog.Infof("session: %q: start, B=%s", s.username, s.B)
	return s.B, s.salt, nil
}

// Verify checks the client's confirmation proof M against the server's
// own derivation of the premaster secret, and if it matches returns the
// server's confirmation proof M2. Callers must not treat the session as
// authenticated, nor use SessionKey, until Verify succeeds.
func (s *ServerSession) Verify(M *value.Value) (M2 *value.Value, err error) {
	u := s.eng.CalcU(s.A, s.B)
	if u.IsZero() {
		glog.Errorf("session: %q: u == 0", s.username)
		return nil, abort("u == 0")
	}
	S := s.eng.CalcServerS(s.A, s.b, s.v, u)
	K := s.eng.CalcK(S)
	expected, err := s.eng.CalcM(K, s.A, s.B, S, s.salt, s.username)
	if err != nil {
		return nil, err
	}
	if !s.eng.Crypto.SecureCompare(M, expected) {
		glog.Errorf("session: %q: client proof mismatch", s.username)
		return nil, abort("proof mismatch")
	}
	s.premaster, s.K = S, K
	m2, err := s.eng.CalcM2(K, s.A, M, S)
	if err != nil {
		return nil, err
	}
	glog.Infof("session: %q: verified", s.username)
	return m2, nil
}

// SessionKey returns the shared key K, valid only after a successful
// Verify.
func (s *ServerSession) SessionKey() *value.Value {
	return s.K
}
