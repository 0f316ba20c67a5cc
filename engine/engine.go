// Package engine implements the SRP-6a arithmetic engine: modular
// exponentiation over a safe-prime group, and the protocol-defined
// derivations of k, v, A, B, u, S and K. The engine delegates hashing
// and password hashing to a github.com/vaultwire/esrp/srpcrypto.Crypto,
// and the choice of x/M/M2 formulas to a Variant.
package engine

import (
	"errors"
	"math/big"
	"sync"

	"github.com/vaultwire/esrp/group"
	"github.com/vaultwire/esrp/srpcrypto"
	"github.com/vaultwire/esrp/value"
)

// ErrUnimplemented is returned when an Engine is constructed without a
// Variant, i.e. an abstract engine operation was invoked on the base
// engine.
var ErrUnimplemented = errors.New("engine: no variant configured")

// Variant supplies the engine-variant-specific derivations: the
// private key x, and the two confirmation messages M and M2.
// Different variants (Standard, Stanford, ...) choose different
// formulas for the same three quantities; everything else in the
// handshake is variant-independent.
type Variant interface {
	// CalcX derives the private key from a password, salt and
	// (variant-dependent) username.
	CalcX(e *Engine, password string, salt *value.Value, username string) (*value.Value, error)
	// CalcM computes the client's confirmation proof.
	CalcM(e *Engine, K, A, B, S, salt *value.Value, username string) *value.Value
	// CalcM2 computes the server's confirmation proof (HAMK).
	CalcM2(e *Engine, K, A, M, S *value.Value) *value.Value
}

// Engine is a fully-parameterized SRP-6a engine: a Crypto provider, a
// Group and a Variant. It is logically immutable after construction;
// its only mutable state is a write-once memoized k.
type Engine struct {
	Crypto  srpcrypto.Crypto
	Group   *group.Group
	Variant Variant

	kOnce sync.Once
	kVal  *value.Value
}

// New returns an Engine over the given crypto provider, group and
// variant.
func New(c srpcrypto.Crypto, g *group.Group, v Variant) *Engine {
	return &Engine{Crypto: c, Group: g, Variant: v}
}

// Pad left-pads v's byte representation with zero bytes to the byte
// length of N.
func (e *Engine) Pad(v *value.Value) *value.Value {
	n := e.Group.Size()
	b := v.Bin()
	if len(b) >= n {
		return v
	}
	out := make([]byte, n)
	copy(out[n-len(b):], b)
	return value.FromBytes(out)
}

// K returns the multiplier parameter k = H(N || PAD(g)), computed once
// and memoized for the lifetime of the engine.
func (e *Engine) K() *value.Value {
	e.kOnce.Do(func() {
		e.kVal = e.Crypto.H(e.Group.N, e.Pad(e.Group.G))
	})
	return e.kVal
}

// modExp computes base^exp mod N, reducing base modulo N first so that
// negative or over-wide bases (as calc_client_S's B - k*g^x can
// produce) are handled the same way a peer using unsigned bignums
// would see them.
func (e *Engine) modExp(base, exp *big.Int) *big.Int {
	n := e.Group.N.Int()
	b := new(big.Int).Mod(base, n)
	return new(big.Int).Exp(b, exp, n)
}

func (e *Engine) fromInt(n *big.Int) *value.Value {
	v, err := value.FromInt(n)
	if err != nil {
		// n is always the result of Exp/Mod against a positive modulus.
		panic(err)
	}
	return v
}

// CalcV computes the password verifier v = g^x mod N.
func (e *Engine) CalcV(x *value.Value) *value.Value {
	return e.fromInt(e.modExp(e.Group.G.Int(), x.Int()))
}

// CalcA computes the client's ephemeral public key A = g^a mod N.
func (e *Engine) CalcA(a *value.Value) *value.Value {
	return e.fromInt(e.modExp(e.Group.G.Int(), a.Int()))
}

// CalcB computes the server's ephemeral public key
// B = (k*v + g^b) mod N. The addition is reduced modulo N exactly
// once; skipping this reduction is a known SRP implementation flaw
// that lets a passive observer recover information about b.
func (e *Engine) CalcB(b, v *value.Value) *value.Value {
	n := e.Group.N.Int()
	kv := new(big.Int).Mul(e.K().Int(), v.Int())
	gb := e.modExp(e.Group.G.Int(), b.Int())
	sum := new(big.Int).Add(kv, gb)
	return e.fromInt(sum.Mod(sum, n))
}

// CalcU computes the scrambling parameter u = H(PAD(A) || PAD(B)).
func (e *Engine) CalcU(A, B *value.Value) *value.Value {
	return e.Crypto.H(e.Pad(A), e.Pad(B))
}

// CalcClientS computes the client-side premaster secret
// S = (B - k*g^x) ^ (a + u*x) mod N. The intermediate base and
// exponent are left un-reduced; modExp performs the reduction.
func (e *Engine) CalcClientS(B, a, x, u *value.Value) *value.Value {
	gx := e.modExp(e.Group.G.Int(), x.Int())
	kgx := new(big.Int).Mul(e.K().Int(), gx)
	base := new(big.Int).Sub(B.Int(), kgx)

	ux := new(big.Int).Mul(u.Int(), x.Int())
	exp := new(big.Int).Add(a.Int(), ux)

	return e.fromInt(e.modExp(base, exp))
}

// CalcServerS computes the server-side premaster secret
// S = (A * v^u) ^ b mod N.
func (e *Engine) CalcServerS(A, b, v, u *value.Value) *value.Value {
	vu := e.modExp(v.Int(), u.Int())
	base := new(big.Int).Mul(A.Int(), vu)
	return e.fromInt(e.modExp(base, b.Int()))
}

// CalcK computes the session key K = H(S).
func (e *Engine) CalcK(S *value.Value) *value.Value {
	return e.Crypto.H(S)
}

// CalcX derives the private key x from the configured Variant.
func (e *Engine) CalcX(password string, salt *value.Value, username string) (*value.Value, error) {
	if e.Variant == nil {
		return nil, ErrUnimplemented
	}
	return e.Variant.CalcX(e, password, salt, username)
}

// CalcM computes the client's confirmation proof from the configured
// Variant.
func (e *Engine) CalcM(K, A, B, S, salt *value.Value, username string) (*value.Value, error) {
	if e.Variant == nil {
		return nil, ErrUnimplemented
	}
	return e.Variant.CalcM(e, K, A, B, S, salt, username), nil
}

// CalcM2 computes the server's confirmation proof from the configured
// Variant.
func (e *Engine) CalcM2(K, A, M, S *value.Value) (*value.Value, error) {
	if e.Variant == nil {
		return nil, ErrUnimplemented
	}
	return e.Variant.CalcM2(e, K, A, M, S), nil
}
