package engine

import "github.com/vaultwire/esrp/value"

// Standard is the default Variant: x is the provider's password_hash
// of (salt, password) with the username ignored; M and M2 are keyed
// hashes chaining A, B, salt and K.
type Standard struct{}

// CalcX derives x = password_hash(salt, password); username is
// ignored.
func (Standard) CalcX(e *Engine, password string, salt *value.Value, _ string) (*value.Value, error) {
	return e.Crypto.PasswordHash(salt, password)
}

// CalcM computes M = keyed_hash(K, A || salt || B).
func (Standard) CalcM(e *Engine, K, A, B, _S, salt *value.Value, _ string) *value.Value {
	msg := value.FromBytes(concat(A.Bin(), salt.Bin(), B.Bin()))
	return e.Crypto.KeyedHash(K, msg)
}

// CalcM2 computes M2 = keyed_hash(K, A || M).
func (Standard) CalcM2(e *Engine, K, A, M, _S *value.Value) *value.Value {
	msg := value.FromBytes(concat(A.Bin(), M.Bin()))
	return e.Crypto.KeyedHash(K, msg)
}

func concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
