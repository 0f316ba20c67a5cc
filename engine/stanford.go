package engine

import (
	"math/big"

	"github.com/vaultwire/esrp/value"
)

// Stanford is the original SRP-6a paper's variant: x mixes the
// username into the password hash, and M binds in H(N) xor H(g) and
// H(I) directly instead of routing through a keyed hash. Kept for
// interoperability with implementations that hardcode this formula;
// not the library default.
type Stanford struct{}

// CalcX derives x = H(salt || H(username || ':' || password)).
func (Stanford) CalcX(e *Engine, password string, salt *value.Value, username string) (*value.Value, error) {
	up := e.Crypto.H(value.FromBytes([]byte(username + ":" + password)))
	return e.Crypto.H(salt, up), nil
}

// CalcM computes M = H(H(N) xor H(g) || H(I) || s || A || B || K).
func (Stanford) CalcM(e *Engine, K, A, B, _S, salt *value.Value, username string) *value.Value {
	hn := e.Crypto.H(e.Group.N).Int()
	hg := e.Crypto.H(e.Group.G).Int()
	hng := value.FromBytes(new(big.Int).Xor(hn, hg).Bytes())
	hi := e.Crypto.H(value.FromBytes([]byte(username)))
	return e.Crypto.H(hng, hi, salt, A, B, K)
}

// CalcM2 computes M2 = H(A || M || K), the Stanford paper's server
// confirmation formula.
func (Stanford) CalcM2(e *Engine, K, A, M, _S *value.Value) *value.Value {
	return e.Crypto.H(A, M, K)
}
