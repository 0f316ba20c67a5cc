package transport

import (
	"bytes"
	"net"
	"testing"

	"github.com/vaultwire/esrp/value"
)

func TestConnRoundTrip(t *testing.T) {
	K := value.FromBytes([]byte("a shared secret from a completed handshake"))

	clientRaw, serverRaw := net.Pipe()
	defer clientRaw.Close()
	defer serverRaw.Close()

	client := New(clientRaw, K, RoleClient)
	server := New(serverRaw, K, RoleServer)

	msg := []byte("hello over the wire")
	errc := make(chan error, 1)
	go func() {
		_, err := client.Write(msg)
		errc <- err
	}()

	buf := make([]byte, len(msg))
	if _, err := readFull(server, buf); err != nil {
		t.Fatalf("server read: %v", err)
	}
	if err := <-errc; err != nil {
		t.Fatalf("client write: %v", err)
	}
	if !bytes.Equal(buf, msg) {
		t.Errorf("server received %q, want %q", buf, msg)
	}
}

func TestConnRejectsWrongKey(t *testing.T) {
	K1 := value.FromBytes([]byte("secret one"))
	K2 := value.FromBytes([]byte("secret two"))

	clientRaw, serverRaw := net.Pipe()
	defer clientRaw.Close()
	defer serverRaw.Close()

	client := New(clientRaw, K1, RoleClient)
	server := New(serverRaw, K2, RoleServer)

	go client.Write([]byte("hello"))

	buf := make([]byte, 5)
	if _, err := readFull(server, buf); err == nil {
		t.Error("expected decryption failure with mismatched keys, got nil error")
	}
}

func readFull(c net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := c.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
