// Package transport frames a net.Conn with a ChaCha20-Poly1305 AEAD
// keyed by the shared secret an session handshake produces. It has no
// knowledge of SRP itself: HKDF accepts a secret of any length, so any
// shared secret drives it.
package transport

import (
	"crypto/sha512"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"github.com/vaultwire/esrp/value"
)

// deriveKey expands secret into a 32-byte AEAD key using HKDF-SHA-512
// with the given salt and info labels, matching the KDF construction a
// post-handshake key schedule needs: cheap, one call per direction, no
// secret material reused directly as an AEAD key.
func deriveKey(secret *value.Value, salt, info string) []byte {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha512.New, secret.Bin(), []byte(salt), []byte(info)), key); err != nil {
		panic(err)
	}
	return key
}

const transportSalt = "esrp-transport-salt"

const (
	infoClientToServer = "esrp-transport-client-to-server"
	infoServerToClient = "esrp-transport-server-to-client"
)

// Role identifies which side of a Conn a caller is on, so the two
// direction-specific keys derived from K are assigned consistently.
type Role int

const (
	RoleClient Role = iota
	RoleServer
)

func directionKeys(K *value.Value, role Role) (writeKey, readKey []byte) {
	c2s := deriveKey(K, transportSalt, infoClientToServer)
	s2c := deriveKey(K, transportSalt, infoServerToClient)
	if role == RoleClient {
		return c2s, s2c
	}
	return s2c, c2s
}
