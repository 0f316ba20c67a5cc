package session

import (
	"math/big"

	"github.com/vaultwire/esrp/engine"
	"github.com/vaultwire/esrp/value"

	"github.com/golang/glog"
)

// ClientSession is a client-side handshake in progress. Its ephemeral
// keypair is generated at construction so PublicKey is available before
// the server's salt and B are known.
type ClientSession struct {
	eng  *engine.Engine
	a, A *value.Value

	premaster, K *value.Value
}

// NewClientSession generates a fresh ephemeral keypair (a, A) for a new
// client-side handshake.
func NewClientSession(e *engine.Engine) (*ClientSession, error) {
	a, err := e.Crypto.Random(e.Group.Size())
	if err != nil {
		return nil, err
	}
	return &ClientSession{eng: e, a: a, A: e.CalcA(a)}, nil
}

// PublicKey returns the client's ephemeral public key A.
func (c *ClientSession) PublicKey() *value.Value {
	return c.A
}

// Step receives the server's salt and public ephemeral B, rejects B if
// congruent to 0 mod N or if the resulting scrambling parameter u is 0,
// and returns the client's confirmation proof M.
func (c *ClientSession) Step(username, password string, salt, B *value.Value) (M *value.Value, err error) {
	if new(big.Int).Mod(B.Int(), c.eng.Group.N.Int()).Sign() == 0 {
		glog.Errorf("session: %q: B mod N == 0", username)
		return nil, abort("B mod N == 0")
	}
	x, err := c.eng.CalcX(password, salt, username)
	if err != nil {
		return nil, err
	}
	u := c.eng.CalcU(c.A, B)
	if u.IsZero() {
		glog.Errorf("session: %q: u == 0", username)
		return nil, abort("u == 0")
	}
	S := c.eng.CalcClientS(B, c.a, x, u)
	K := c.eng.CalcK(S)
	m, err := c.eng.CalcM(K, c.A, B, S, salt, username)
	if err != nil {
		return nil, err
	}
	c.premaster, c.K = S, K
	glog.Infof("session: %q: step", username)
	return m, nil
}

// VerifyServer checks the server's confirmation proof M2 against the
// client's own derivation. It must be called after a successful Step.
func (c *ClientSession) VerifyServer(M, M2 *value.Value) error {
	expected, err := c.eng.CalcM2(c.K, c.A, M, c.premaster)
	if err != nil {
		return err
	}
	if !c.eng.Crypto.SecureCompare(M2, expected) {
		return abort("proof mismatch")
	}
	return nil
}

// SessionKey returns the shared key K, valid only after a successful
// Step and VerifyServer.
func (c *ClientSession) SessionKey() *value.Value {
	return c.K
}
