package srpcrypto

import (
	"testing"

	"github.com/vaultwire/esrp/value"
)

func TestOpenSSLDefaults(t *testing.T) {
	if _, err := NewOpenSSL(OpenSSLConfig{}); err != nil {
		t.Fatalf("NewOpenSSL(defaults): %v", err)
	}
}

func TestOpenSSLUnsupportedHash(t *testing.T) {
	if _, err := NewOpenSSL(OpenSSLConfig{Hash: "md5"}); err == nil {
		t.Error("expected NotApplicable error for hash=md5")
	} else if _, ok := err.(*NotApplicable); !ok {
		t.Errorf("err type = %T, want *NotApplicable", err)
	}
}

func TestOpenSSLHSHA256Vector(t *testing.T) {
	o, err := NewOpenSSL(OpenSSLConfig{Hash: "sha256"})
	if err != nil {
		t.Fatal(err)
	}
	v, _ := value.FromHex("07c0")
	got := o.H(v).Hex()
	want := "34b902c818ebdb547c4aa8d161dd701bd5f78ac3df6b5ab7fac3c35dae795e56"
	if got != want {
		t.Errorf("H(07c0) sha256 = %s, want %s", got, want)
	}
}

func TestOpenSSLHSHA1Vector(t *testing.T) {
	o, err := NewOpenSSL(OpenSSLConfig{Hash: "sha1"})
	if err != nil {
		t.Fatal(err)
	}
	v, _ := value.FromHex("07c0")
	got := o.H(v).Hex()
	want := "00ff3b16b0f555d3feb62f988fb3aab81c1c50ea"
	if got != want {
		t.Errorf("H(07c0) sha1 = %s, want %s", got, want)
	}
}

func TestOpenSSLKeyedHashHMACVector(t *testing.T) {
	o, err := NewOpenSSL(OpenSSLConfig{Hash: "sha256", MAC: OpenSSLMACHMAC})
	if err != nil {
		t.Fatal(err)
	}
	key, _ := value.FromHex("f4ffd830b255f778b9d88966e87ae1d72702227cfcbeae4bd1e4b39fff136060")
	msg, _ := value.FromHex("07c0")
	got := o.KeyedHash(key, msg).Hex()
	want := "ecfa17f317164259824287aa9feabeda9c784e7d672b118965ebff33f5373abe"
	if got != want {
		t.Errorf("KeyedHash(hmac,sha256) = %s, want %s", got, want)
	}
}

func TestOpenSSLKeyedHashLegacyVector(t *testing.T) {
	o, err := NewOpenSSL(OpenSSLConfig{Hash: "sha1", MAC: OpenSSLMACLegacy})
	if err != nil {
		t.Fatal(err)
	}
	key, _ := value.FromHex("abcd")
	msg, _ := value.FromHex("07c0")
	got := o.KeyedHash(key, msg).Hex()
	want := "a19b96e98cae5ba7b41a8a389bdb61cebe2d0a17"
	if got != want {
		t.Errorf("KeyedHash(legacy,sha1) = %s, want %s", got, want)
	}
}

func TestOpenSSLPasswordHashDeterministic(t *testing.T) {
	o, err := NewOpenSSL(OpenSSLConfig{})
	if err != nil {
		t.Fatal(err)
	}
	salt, _ := value.FromHex("1117")
	a, err := o.PasswordHash(salt, "verysecure")
	if err != nil {
		t.Fatal(err)
	}
	b, err := o.PasswordHash(salt, "verysecure")
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Error("PasswordHash is not deterministic")
	}
}

func TestOpenSSLSecureCompare(t *testing.T) {
	o, _ := NewOpenSSL(OpenSSLConfig{})
	a := value.FromUint64(42)
	b := value.FromUint64(42)
	c := value.FromUint64(43)
	if !o.SecureCompare(a, b) {
		t.Error("SecureCompare(42, 42) = false")
	}
	if o.SecureCompare(a, c) {
		t.Error("SecureCompare(42, 43) = true")
	}
}
