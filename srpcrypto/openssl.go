package srpcrypto

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"fmt"
	"hash"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/vaultwire/esrp/value"
)

// OpenSSLKDFPBKDF2 selects PBKDF2-HMAC for password_hash.
const OpenSSLKDFPBKDF2 = "pbkdf2"

// OpenSSLKDFLegacy selects the H(salt.hex || password) private-key
// derivation historically used before PBKDF2 was adopted. Preserved
// bit-exactly for interop with existing deployments that still expect
// this construction.
const OpenSSLKDFLegacy = "legacy"

// OpenSSLMACHMAC selects HMAC for keyed_hash.
const OpenSSLMACHMAC = "hmac"

// OpenSSLMACLegacy selects the H(msg || key) construction used before
// HMAC was adopted.
const OpenSSLMACLegacy = "legacy"

const defaultKDFIter = 20000

var openSSLHashes = map[string]func() hash.Hash{
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha384": sha512.New384,
	"sha512": sha512.New,
}

// OpenSSLConfig configures an OpenSSL-style provider. Zero values take
// sha256/pbkdf2/hmac defaults.
type OpenSSLConfig struct {
	// Hash selects the digest: sha1, sha256, sha384 or sha512
	// (case-insensitive, dashes stripped). Default sha256.
	Hash string
	// KDF selects the password_hash construction: pbkdf2 or legacy.
	// Default pbkdf2.
	KDF string
	// KDFIter is the PBKDF2 iteration count. Default 20000.
	KDFIter int
	// MAC selects the keyed_hash construction: hmac or legacy.
	// Default hmac.
	MAC string
	// Hex, when true, makes H concatenate the hex-string view of its
	// inputs instead of the raw byte view.
	Hex bool
}

// OpenSSL is an OpenSSL-style Crypto provider: SHA family digests,
// PBKDF2 password hashing and HMAC keyed hashing (with legacy
// fallbacks for each).
type OpenSSL struct {
	newHash    func() hash.Hash
	digestSize int
	kdf        string
	kdfIter    int
	mac        string
	hexInputs  bool
}

// NewOpenSSL validates cfg and returns a ready OpenSSL provider.
func NewOpenSSL(cfg OpenSSLConfig) (*OpenSSL, error) {
	hashName := normalizeHashName(cfg.Hash)
	if hashName == "" {
		hashName = "sha256"
	}
	newHash, ok := openSSLHashes[hashName]
	if !ok {
		return nil, notApplicable("hash", cfg.Hash, "sha1", "sha256", "sha384", "sha512")
	}

	kdf := cfg.KDF
	if kdf == "" {
		kdf = OpenSSLKDFPBKDF2
	}
	if kdf != OpenSSLKDFPBKDF2 && kdf != OpenSSLKDFLegacy {
		return nil, notApplicable("kdf", kdf, OpenSSLKDFPBKDF2, OpenSSLKDFLegacy)
	}

	kdfIter := cfg.KDFIter
	if kdfIter == 0 {
		kdfIter = defaultKDFIter
	}
	if kdfIter < 0 {
		return nil, notApplicable("kdf_iter", fmt.Sprint(cfg.KDFIter), "positive integer")
	}

	mac := cfg.MAC
	if mac == "" {
		mac = OpenSSLMACHMAC
	}
	if mac != OpenSSLMACHMAC && mac != OpenSSLMACLegacy {
		return nil, notApplicable("mac", mac, OpenSSLMACHMAC, OpenSSLMACLegacy)
	}

	return &OpenSSL{
		newHash:    newHash,
		digestSize: newHash().Size(),
		kdf:        kdf,
		kdfIter:    kdfIter,
		mac:        mac,
		hexInputs:  cfg.Hex,
	}, nil
}

func normalizeHashName(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "-", "")
}

// H concatenates the chosen representation (hex if Hex is set, raw
// bytes otherwise) of each non-nil value and returns the digest.
func (o *OpenSSL) H(values ...*value.Value) *value.Value {
	h := o.newHash()
	for _, v := range values {
		if v == nil {
			continue
		}
		if o.hexInputs {
			h.Write([]byte(v.Hex()))
		} else {
			h.Write(v.Bin())
		}
	}
	return value.FromBytes(h.Sum(nil))
}

// PasswordHash derives the private-key material for password under
// salt, using the configured KDF.
func (o *OpenSSL) PasswordHash(salt *value.Value, password string) (*value.Value, error) {
	switch o.kdf {
	case OpenSSLKDFLegacy:
		// x = H(salt.hex || password); salt always uses its hex view
		// here, regardless of the Hex configuration flag.
		h := o.newHash()
		h.Write([]byte(salt.Hex()))
		h.Write([]byte(password))
		return value.FromBytes(h.Sum(nil)), nil
	default:
		derived := pbkdf2.Key([]byte(password), salt.Bin(), o.kdfIter, o.digestSize, o.newHash)
		return value.FromBytes(derived), nil
	}
}

// KeyedHash computes a MAC of msg keyed by key, using the configured
// construction.
func (o *OpenSSL) KeyedHash(key, msg *value.Value) *value.Value {
	switch o.mac {
	case OpenSSLMACLegacy:
		// H(msg || key), each operand using the hex view iff Hex is set.
		h := o.newHash()
		if o.hexInputs {
			h.Write([]byte(msg.Hex()))
			h.Write([]byte(key.Hex()))
		} else {
			h.Write(msg.Bin())
			h.Write(key.Bin())
		}
		return value.FromBytes(h.Sum(nil))
	default:
		mac := hmac.New(o.newHash, key.Bin())
		mac.Write(msg.Bin())
		return value.FromBytes(mac.Sum(nil))
	}
}

// Salt returns digest-size cryptographically random bytes.
func (o *OpenSSL) Salt() (*value.Value, error) {
	return o.Random(o.digestSize)
}

// Random returns n cryptographically random bytes.
func (o *OpenSSL) Random(n int) (*value.Value, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, fmt.Errorf("srpcrypto: reading random bytes: %w", err)
	}
	return value.FromBytes(buf), nil
}

// SecureCompare compares the hex views of a and b in time independent
// of where they first differ, once their lengths are known equal.
func (o *OpenSSL) SecureCompare(a, b *value.Value) bool {
	ah, bh := a.Hex(), b.Hex()
	if len(ah) != len(bh) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(ah), []byte(bh)) == 1
}
