package srpcrypto

import (
	"testing"

	"github.com/vaultwire/esrp/value"
)

func TestNaClDefaults(t *testing.T) {
	if _, err := NewNaCl(NaClConfig{}); err != nil {
		t.Fatalf("NewNaCl(defaults): %v", err)
	}
}

func TestNaClUnsupportedBlakeSize(t *testing.T) {
	if _, err := NewNaCl(NaClConfig{Hash: "blake2b", BlakeDigestSize: 48}); err == nil {
		t.Error("expected NotApplicable for blake_digest_size=48")
	}
}

func TestNaClBlake2bVector(t *testing.T) {
	n, err := NewNaCl(NaClConfig{Hash: "blake2b", BlakeDigestSize: 64})
	if err != nil {
		t.Fatal(err)
	}
	v, _ := value.FromHex("07c0")
	got := n.H(v).Hex()
	want := "924bb7d1885981f00d721ace8e92406ff2d411d66f366c2273141f78fb4fca7a1f44ed8fa53e7433d4ea0b4d61cc24a2c8c388e5010a38dec869015c392d71bd"
	if got != want {
		t.Errorf("H(07c0) blake2b-512 = %s, want %s", got, want)
	}
}

func TestNaClKeyedHashDecoupledFromH(t *testing.T) {
	// blake_digest_size=32 selects HMAC-SHA-256 for keyed_hash even
	// though H itself is BLAKE2b.
	n, err := NewNaCl(NaClConfig{Hash: "blake2b", BlakeDigestSize: 32})
	if err != nil {
		t.Fatal(err)
	}
	if n.macHash().Size() != 32 {
		t.Errorf("macHash size = %d, want 32 (HMAC-SHA-256)", n.macHash().Size())
	}
}

func TestNaClPasswordHashDeterministic(t *testing.T) {
	n, err := NewNaCl(NaClConfig{KDF: NaClKDFScrypt})
	if err != nil {
		t.Fatal(err)
	}
	salt := value.FromBytes([]byte("0123456789abcdef"))
	a, err := n.PasswordHash(salt, "verysecure")
	if err != nil {
		t.Fatal(err)
	}
	b, err := n.PasswordHash(salt, "verysecure")
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Error("PasswordHash(scrypt) is not deterministic")
	}
	if len(a.Bin()) != scryptDefaults.DigestSize {
		t.Errorf("PasswordHash(scrypt) digest length = %d, want %d", len(a.Bin()), scryptDefaults.DigestSize)
	}
}

func TestNaClPasswordHashArgon2Deterministic(t *testing.T) {
	n, err := NewNaCl(NaClConfig{KDF: NaClKDFArgon2})
	if err != nil {
		t.Fatal(err)
	}
	salt := value.FromBytes([]byte("0123456789abcdef"))
	a, err := n.PasswordHash(salt, "verysecure")
	if err != nil {
		t.Fatal(err)
	}
	b, err := n.PasswordHash(salt, "verysecure")
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Error("PasswordHash(argon2) is not deterministic")
	}
}

func TestNaClSecureCompareFixedLength(t *testing.T) {
	n, _ := NewNaCl(NaClConfig{})
	a := value.FromBytes([]byte("short"))
	b := value.FromBytes([]byte("a much longer value entirely"))
	if n.SecureCompare(a, b) {
		t.Error("SecureCompare of unequal values = true")
	}
	if !n.SecureCompare(a, a) {
		t.Error("SecureCompare(a, a) = false")
	}
}
