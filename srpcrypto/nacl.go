package srpcrypto

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"fmt"
	"hash"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/scrypt"

	"github.com/vaultwire/esrp/value"
)

// NaClKDFScrypt and NaClKDFArgon2 select the password_hash KDF.
const (
	NaClKDFScrypt = "scrypt"
	NaClKDFArgon2 = "argon2"
)

// scryptDefaults and argon2Defaults are the per-KDF defaults that
// NaClConfig.KDFOptions is merged over.
var scryptDefaults = KDFOptions{OpsLimit: 1 << 20, MemLimit: 1 << 24, DigestSize: 64}
var argon2Defaults = KDFOptions{OpsLimit: 5, MemLimit: 1 << 24, DigestSize: 64}

// KDFOptions overrides the per-KDF defaults. Zero fields fall back to
// the KDF's default.
type KDFOptions struct {
	OpsLimit   uint32
	MemLimit   uint32
	DigestSize int
}

func (o KDFOptions) mergedOver(def KDFOptions) KDFOptions {
	if o.OpsLimit == 0 {
		o.OpsLimit = def.OpsLimit
	}
	if o.MemLimit == 0 {
		o.MemLimit = def.MemLimit
	}
	if o.DigestSize == 0 {
		o.DigestSize = def.DigestSize
	}
	return o
}

// NaClConfig configures a NaCl-style provider. Zero values take
// sha256/scrypt defaults.
type NaClConfig struct {
	// Hash selects the digest: sha256, sha512 or blake2b. Default
	// sha256.
	Hash string
	// BlakeDigestSize selects the BLAKE2b digest size in bytes: 32 or
	// 64. Only meaningful when Hash is blake2b. Default 32.
	BlakeDigestSize int
	// KDF selects the password_hash construction: scrypt or argon2.
	// Default scrypt.
	KDF string
	// KDFOptions overrides the selected KDF's defaults.
	KDFOptions KDFOptions
}

// NaCl is a NaCl-style Crypto provider: SHA-256, SHA-512 or BLAKE2b
// digests, scrypt or argon2 password hashing, and HMAC keyed hashing
// decoupled from H's hash choice (keyed_hash always uses HMAC-SHA,
// never a native BLAKE2b MAC).
type NaCl struct {
	newHash    func() hash.Hash
	digestSize int
	kdf        string
	kdfOpts    KDFOptions
	macHash    func() hash.Hash
}

// NewNaCl validates cfg and returns a ready NaCl provider.
func NewNaCl(cfg NaClConfig) (*NaCl, error) {
	hashName := normalizeHashName(cfg.Hash)
	if hashName == "" {
		hashName = "sha256"
	}

	var newHash func() hash.Hash
	var digestSize int
	switch hashName {
	case "sha256":
		newHash, digestSize = sha256.New, sha256.Size
	case "sha512":
		newHash, digestSize = sha512.New, sha512.Size
	case "blake2b":
		size := cfg.BlakeDigestSize
		if size == 0 {
			size = 32
		}
		if size != 32 && size != 64 {
			return nil, notApplicable("blake_digest_size", fmt.Sprint(cfg.BlakeDigestSize), "32", "64")
		}
		newHash = func() hash.Hash {
			h, err := blake2b.New(size, nil)
			if err != nil {
				panic(err)
			}
			return h
		}
		digestSize = size
	default:
		return nil, notApplicable("hash", cfg.Hash, "sha256", "sha512", "blake2b")
	}

	kdf := cfg.KDF
	if kdf == "" {
		kdf = NaClKDFScrypt
	}
	var kdfOpts KDFOptions
	switch kdf {
	case NaClKDFScrypt:
		kdfOpts = cfg.KDFOptions.mergedOver(scryptDefaults)
	case NaClKDFArgon2:
		kdfOpts = cfg.KDFOptions.mergedOver(argon2Defaults)
	default:
		return nil, notApplicable("kdf", kdf, NaClKDFScrypt, NaClKDFArgon2)
	}

	// keyed_hash's MAC is decoupled from H's hash choice: HMAC-SHA-512
	// when the configured digest is 64 bytes wide, HMAC-SHA-256
	// otherwise.
	macHash := sha256.New
	if digestSize == 64 {
		macHash = sha512.New
	}

	return &NaCl{
		newHash:    newHash,
		digestSize: digestSize,
		kdf:        kdf,
		kdfOpts:    kdfOpts,
		macHash:    macHash,
	}, nil
}

// H hashes the concatenation of the byte view of each non-nil value.
func (n *NaCl) H(values ...*value.Value) *value.Value {
	h := n.newHash()
	for _, v := range values {
		if v == nil {
			continue
		}
		h.Write(v.Bin())
	}
	return value.FromBytes(h.Sum(nil))
}

// PasswordHash derives password material under salt using the
// configured KDF (scrypt or argon2).
func (n *NaCl) PasswordHash(salt *value.Value, password string) (*value.Value, error) {
	switch n.kdf {
	case NaClKDFArgon2:
		derived := argon2.IDKey([]byte(password), salt.Bin(), n.kdfOpts.OpsLimit, n.kdfOpts.MemLimit/1024, 1, uint32(n.kdfOpts.DigestSize))
		return value.FromBytes(derived), nil
	default:
		const r, p = 8, 1
		// Derive scrypt's N from MemLimit (memory ~= 128*N*r*p bytes),
		// the closest fit to libsodium's opslimit/memlimit pair
		// expressible through the classic N/r/p scrypt parameters.
		maxN := n.kdfOpts.MemLimit / (128 * r * p)
		N := 1 << log2Floor(uint64(maxN))
		if N < 2 {
			N = 2
		}
		derived, err := scrypt.Key([]byte(password), salt.Bin(), N, r, p, n.kdfOpts.DigestSize)
		if err != nil {
			return nil, fmt.Errorf("srpcrypto: scrypt: %w", err)
		}
		return value.FromBytes(derived), nil
	}
}

func log2Floor(n uint64) uint {
	var b uint
	for n > 1 {
		n >>= 1
		b++
	}
	return b
}

// KeyedHash computes an HMAC of msg keyed by key, right-padding key
// with NUL bytes to the MAC's block size when it is shorter.
func (n *NaCl) KeyedHash(key, msg *value.Value) *value.Value {
	kb := key.Bin()
	h := n.macHash()
	if bs := h.BlockSize(); len(kb) < bs {
		padded := make([]byte, bs)
		copy(padded, kb)
		kb = padded
	}
	mac := hmac.New(n.macHash, kb)
	mac.Write(msg.Bin())
	return value.FromBytes(mac.Sum(nil))
}

// Salt returns digest-size cryptographically random bytes.
func (n *NaCl) Salt() (*value.Value, error) {
	return n.Random(n.digestSize)
}

// Random returns sz cryptographically random bytes.
func (n *NaCl) Random(sz int) (*value.Value, error) {
	buf := make([]byte, sz)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, fmt.Errorf("srpcrypto: reading random bytes: %w", err)
	}
	return value.FromBytes(buf), nil
}

// SecureCompare hashes each side with SHA-256, then compares the
// 32-byte digests in constant time; this keeps the comparison
// fixed-length regardless of the operands' own lengths.
func (n *NaCl) SecureCompare(a, b *value.Value) bool {
	ah := sha256.Sum256(a.Bin())
	bh := sha256.Sum256(b.Bin())
	return subtle.ConstantTimeCompare(ah[:], bh[:]) == 1
}
