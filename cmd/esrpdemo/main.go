// Command esrpdemo runs one complete registration, handshake and
// encrypted-transport round trip in a single process, so every package
// in this module is reachable from something runnable.
package main

import (
	"flag"
	"net"

	"github.com/vaultwire/esrp/engine"
	"github.com/vaultwire/esrp/group"
	"github.com/vaultwire/esrp/session"
	"github.com/vaultwire/esrp/srpcrypto"
	"github.com/vaultwire/esrp/transport"
	"github.com/vaultwire/esrp/value"

	"github.com/golang/glog"
)

var (
	username = flag.String("username", "alice", "username to register and authenticate")
	password = flag.String("password", "verysecure", "password to register and authenticate")
	bits     = flag.Int("bits", group.DefaultBits, "safe-prime group bit-length")
	hash     = flag.String("hash", "sha256", "digest for the OpenSSL-style provider")
)

func main() {
	flag.Parse()

	crypto, err := srpcrypto.NewOpenSSL(srpcrypto.OpenSSLConfig{Hash: *hash})
	if err != nil {
		glog.Exitf("configuring crypto provider: %v", err)
	}
	g, err := group.Lookup(*bits)
	if err != nil {
		glog.Exitf("looking up group: %v", err)
	}
	e := engine.New(crypto, g, engine.Standard{})

	cred, err := session.Register(e, *username, *password)
	if err != nil {
		glog.Exitf("registering %q: %v", *username, err)
	}
	glog.Infof("registered %q: salt=%s verifier=%s", *username, cred.Salt, cred.Verifier)

	client, server, err := runHandshake(e, *username, *password, cred)
	if err != nil {
		glog.Exitf("handshake: %v", err)
	}
	glog.Infof("handshake complete: session key=%s", client.SessionKey())

	if err := runTransport(client.SessionKey(), server.SessionKey()); err != nil {
		glog.Exitf("transport: %v", err)
	}
	glog.Infof("transport round trip ok")
}

func runHandshake(e *engine.Engine, username, password string, cred *session.Credentials) (*session.ClientSession, *session.ServerSession, error) {
	client, err := session.NewClientSession(e)
	if err != nil {
		return nil, nil, err
	}
	server := session.NewServerSession(e, username, cred)

	B, salt, err := server.Start(client.PublicKey())
	if err != nil {
		return nil, nil, err
	}
	M, err := client.Step(username, password, salt, B)
	if err != nil {
		return nil, nil, err
	}
	M2, err := server.Verify(M)
	if err != nil {
		return nil, nil, err
	}
	if err := client.VerifyServer(M, M2); err != nil {
		return nil, nil, err
	}
	return client, server, nil
}

func runTransport(clientKey, serverKey *value.Value) error {
	clientRaw, serverRaw := net.Pipe()
	defer clientRaw.Close()
	defer serverRaw.Close()

	clientConn := transport.New(clientRaw, clientKey, transport.RoleClient)
	serverConn := transport.New(serverRaw, serverKey, transport.RoleServer)

	msg := []byte("hello over an encrypted transport")
	errc := make(chan error, 1)
	go func() {
		_, err := clientConn.Write(msg)
		errc <- err
	}()

	buf := make([]byte, len(msg))
	if _, err := readFull(serverConn, buf); err != nil {
		return err
	}
	return <-errc
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
