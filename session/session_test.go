package session

import (
	"errors"
	"testing"

	"github.com/vaultwire/esrp/engine"
	"github.com/vaultwire/esrp/group"
	"github.com/vaultwire/esrp/srpcrypto"
	"github.com/vaultwire/esrp/value"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	c, err := srpcrypto.NewOpenSSL(srpcrypto.OpenSSLConfig{Hash: "sha256"})
	if err != nil {
		t.Fatal(err)
	}
	g, err := group.Lookup(2048)
	if err != nil {
		t.Fatal(err)
	}
	return engine.New(c, g, engine.Standard{})
}

func TestFullHandshake(t *testing.T) {
	e := newTestEngine(t)
	const username, password = "alice", "verysecure"

	cred, err := Register(e, username, password)
	if err != nil {
		t.Fatal(err)
	}

	client, err := NewClientSession(e)
	if err != nil {
		t.Fatal(err)
	}
	server := NewServerSession(e, username, cred)

	B, salt, err := server.Start(client.PublicKey())
	if err != nil {
		t.Fatal(err)
	}
	if !salt.Equal(cred.Salt) {
		t.Error("server.Start returned a different salt than registration produced")
	}

	M, err := client.Step(username, password, salt, B)
	if err != nil {
		t.Fatal(err)
	}

	M2, err := server.Verify(M)
	if err != nil {
		t.Fatalf("server.Verify: %v", err)
	}

	if err := client.VerifyServer(M, M2); err != nil {
		t.Fatalf("client.VerifyServer: %v", err)
	}

	if !client.SessionKey().Equal(server.SessionKey()) {
		t.Error("client and server session keys differ after a successful handshake")
	}
}

func TestWrongPasswordFailsVerify(t *testing.T) {
	e := newTestEngine(t)
	const username = "alice"

	cred, err := Register(e, username, "verysecure")
	if err != nil {
		t.Fatal(err)
	}

	client, err := NewClientSession(e)
	if err != nil {
		t.Fatal(err)
	}
	server := NewServerSession(e, username, cred)

	B, salt, err := server.Start(client.PublicKey())
	if err != nil {
		t.Fatal(err)
	}

	M, err := client.Step(username, "totallywrong", salt, B)
	if err != nil {
		t.Fatal(err)
	}

	_, err = server.Verify(M)
	var pa *ProtocolAbort
	if !errors.As(err, &pa) {
		t.Fatalf("server.Verify err = %v, want *ProtocolAbort", err)
	}
	if pa.Reason != "proof mismatch" {
		t.Errorf("abort reason = %q, want %q", pa.Reason, "proof mismatch")
	}
}

func TestServerStartRejectsAZero(t *testing.T) {
	e := newTestEngine(t)
	cred, err := Register(e, "alice", "verysecure")
	if err != nil {
		t.Fatal(err)
	}
	server := NewServerSession(e, "alice", cred)

	// A congruent to 0 mod N: N itself.
	_, _, err = server.Start(e.Group.N)
	var pa *ProtocolAbort
	if !errors.As(err, &pa) || pa.Reason != "A mod N == 0" {
		t.Fatalf("err = %v, want ProtocolAbort(A mod N == 0)", err)
	}
}

func TestClientStepRejectsBZero(t *testing.T) {
	e := newTestEngine(t)
	client, err := NewClientSession(e)
	if err != nil {
		t.Fatal(err)
	}
	salt, _ := value.FromHex("1117")
	_, err = client.Step("alice", "verysecure", salt, e.Group.N)
	var pa *ProtocolAbort
	if !errors.As(err, &pa) || pa.Reason != "B mod N == 0" {
		t.Fatalf("err = %v, want ProtocolAbort(B mod N == 0)", err)
	}
}

func TestRegisterProducesVerifiableCredentials(t *testing.T) {
	e := newTestEngine(t)
	cred, err := Register(e, "alice", "verysecure")
	if err != nil {
		t.Fatal(err)
	}
	x, err := e.CalcX("verysecure", cred.Salt, "alice")
	if err != nil {
		t.Fatal(err)
	}
	v := e.CalcV(x)
	if !v.Equal(cred.Verifier) {
		t.Error("Register's verifier does not match calc_v(calc_x(...))")
	}
}
