// Package group provides the named safe-prime groups (N, g) used by the
// SRP engine, keyed by the decimal bit-length of N, per RFC 5054
// Appendix A (1024-3072) and RFC 3526 (4096-8192, as adopted by
// RFC 5054-style deployments for the larger groups).
package group

import (
	"errors"
	"fmt"

	"github.com/vaultwire/esrp/value"
)

// ErrUnknownGroup is returned when the requested bit-length has no
// registered group.
var ErrUnknownGroup = errors.New("group: unknown bit-length")

// DefaultBits is the bit-length used when a caller has no specific
// interoperability requirement.
const DefaultBits = 2048

// Group is a named pair (N, g): N is a safe prime, g a generator mod N.
// Groups are process-constant; the same *Group is returned by every
// call to Lookup for a given bit-length.
type Group struct {
	Bits int
	N    *value.Value
	G    *value.Value
}

func newGroup(bits int, nHex string, g uint64) *Group {
	return &Group{
		Bits: bits,
		N:    value.MustFromHex(nHex),
		G:    value.FromUint64(g),
	}
}

// Size returns the byte length of N, the width used for PAD.
func (g *Group) Size() int {
	return len(g.N.Bin())
}

// registered groups, RFC 5054 Appendix A (1024-3072) plus RFC 3526's
// 4096/6144/8192-bit MODP groups adopted for the larger SRP sizes.
var registry = map[int]*Group{
	1024: newGroup(1024, hex1024, 2),
	1536: newGroup(1536, hex1536, 2),
	2048: newGroup(2048, hex2048, 2),
	3072: newGroup(3072, hex3072, 5),
	4096: newGroup(4096, hex4096, 5),
	6144: newGroup(6144, hex6144, 5),
	8192: newGroup(8192, hex8192, 19),
}

// Lookup returns the group for the given decimal bit-length of N, or
// ErrUnknownGroup if none is registered.
func Lookup(bits int) (*Group, error) {
	g, ok := registry[bits]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownGroup, bits)
	}
	return g, nil
}

// Default returns the group used when the caller has no specific
// interoperability requirement (2048-bit).
func Default() *Group {
	g, err := Lookup(DefaultBits)
	if err != nil {
		panic(err)
	}
	return g
}

// Bitlengths returns every registered bit-length, ascending.
func Bitlengths() []int {
	return []int{1024, 1536, 2048, 3072, 4096, 6144, 8192}
}
