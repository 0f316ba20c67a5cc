// Package value implements the representation-agnostic integer holder
// used throughout the SRP engine: every protocol quantity (N, g, A, B,
// S, K, ...) is a Value, convertible losslessly between an unsigned
// big integer, a big-endian byte string and a lowercase hex string.
package value

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ErrMalformedValue is returned when a hex string cannot be decoded.
var ErrMalformedValue = errors.New("value: malformed hex string")

// ErrNegativeValue is returned when a construction is given a negative
// integer.
var ErrNegativeValue = errors.New("value: negative integer")

// view records which representation was supplied at construction; the
// others are derived lazily and cached.
type view uint8

const (
	viewInt view = iota
	viewBin
	viewHex
)

// Value holds one non-negative integer, accessible as an integer, a
// big-endian byte string or a lowercase hex string. It is immutable
// after construction: derived views are computed once and memoized.
type Value struct {
	authoritative view

	i *big.Int
	b []byte
	h string
}

// FromInt returns a Value for n. n must be non-negative.
func FromInt(n *big.Int) (*Value, error) {
	if n.Sign() < 0 {
		return nil, ErrNegativeValue
	}
	return &Value{authoritative: viewInt, i: new(big.Int).Set(n)}, nil
}

// FromUint64 returns a Value for n.
func FromUint64(n uint64) *Value {
	v, _ := FromInt(new(big.Int).SetUint64(n))
	return v
}

// FromBytes returns a Value for the big-endian unsigned integer encoded
// by b.
func FromBytes(b []byte) *Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return &Value{authoritative: viewBin, b: cp}
}

// FromHex returns a Value for the hex string h. h may have odd length;
// it is treated as if left-padded with a single '0'. Upper-case digits
// are accepted and stored lowercase.
func FromHex(h string) (*Value, error) {
	h = strings.ToLower(h)
	if len(h)%2 != 0 {
		h = "0" + h
	}
	if _, err := hex.DecodeString(h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedValue, err)
	}
	return &Value{authoritative: viewHex, h: h}, nil
}

// MustFromHex is FromHex, panicking on error. Intended for constant
// vectors known at compile time (group parameters, test vectors).
func MustFromHex(h string) *Value {
	v, err := FromHex(h)
	if err != nil {
		panic(err)
	}
	return v
}

// Int returns the integer view.
func (v *Value) Int() *big.Int {
	if v.i == nil {
		switch v.authoritative {
		case viewBin:
			v.i = new(big.Int).SetBytes(v.b)
		case viewHex:
			// h is always even-length and hex-valid by construction.
			v.i, _ = new(big.Int).SetString(v.h, 16)
		}
	}
	return new(big.Int).Set(v.i)
}

// Bin returns the big-endian byte string view. For a Value built from
// an integer this is the shortest encoding of Int(), with no leading
// zero byte (the zero value encodes as an empty slice); a Value built
// from bytes or hex returns those bytes, leading zero bytes included.
func (v *Value) Bin() []byte {
	if v.b == nil {
		switch v.authoritative {
		case viewInt:
			v.b = v.i.Bytes()
		case viewHex:
			// Literal decode: unlike the int->bin direction, this does
			// not canonicalize away extra leading zero bytes the
			// caller's hex string may carry (e.g. a PAD-width hex
			// string passed in directly).
			v.b, _ = hex.DecodeString(v.h)
		}
		if v.b == nil {
			v.b = []byte{}
		}
	}
	cp := make([]byte, len(v.b))
	copy(cp, v.b)
	return cp
}

// Hex returns the lowercase, even-length hex string view.
func (v *Value) Hex() string {
	if v.h == "" {
		switch v.authoritative {
		case viewInt:
			v.h = intToHex(v.i)
		case viewBin:
			v.h = hex.EncodeToString(v.b)
			if v.h == "" {
				v.h = "00"
			}
		}
		if v.h == "" {
			v.h = "00"
		}
	}
	return v.h
}

// intToHex renders n in lowercase hex, left-padding with a single '0'
// when the natural length is odd.
func intToHex(n *big.Int) string {
	h := n.Text(16)
	if len(h)%2 != 0 {
		h = "0" + h
	}
	return h
}

// IsZero reports whether v encodes the integer 0.
func (v *Value) IsZero() bool {
	return v.Int().Sign() == 0
}

// Equal reports whether v and o encode the same integer.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == o
	}
	return v.Int().Cmp(o.Int()) == 0
}

// String implements fmt.Stringer by returning the hex view, matching
// the convention that Values print the same way they travel on the
// wire.
func (v *Value) String() string {
	return v.Hex()
}
