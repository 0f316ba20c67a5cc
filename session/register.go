package session

import (
	"fmt"

	"github.com/vaultwire/esrp/engine"

	"github.com/golang/glog"
)

// Register derives the salt and verifier for a new (username, password)
// pair: a fresh random salt, x = engine.CalcX(password, salt, username)
// and v = engine.CalcV(x). The returned Credentials are what a caller
// persists; the password and x are not retained here.
func Register(e *engine.Engine, username, password string) (*Credentials, error) {
	salt, err := e.Crypto.Salt()
	if err != nil {
		return nil, fmt.Errorf("session: register %q: %w", username, err)
	}
	x, err := e.CalcX(password, salt, username)
	if err != nil {
		return nil, fmt.Errorf("session: register %q: %w", username, err)
	}
	v := e.CalcV(x)
	glog.Infof("session: registered %q, salt=%s", username, salt)
	return &Credentials{Salt: salt, Verifier: v}, nil
}
