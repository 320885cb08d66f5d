package transport

import (
	"fmt"
	"net/http"
	"time"

	"github.com/fbcorp/gleo/internal/config"
	"github.com/fbcorp/gleo/internal/nats"
	"github.com/fbcorp/gleo/internal/wizard"
)

// Closer releases a transport's resources. The HTTP and dry-run transports
// hold none and get a no-op.
type Closer func()

// FromConfig builds the transport selected by cfg.Transport.
func FromConfig(cfg *config.Config) (wizard.Transport, Closer, error) {
	timeout := time.Duration(cfg.Timeout) * time.Second

	switch cfg.Transport {
	case config.TransportHTTP, "":
		var auth Authenticator = BearerToken(cfg.Token)
		if cfg.JWTSecret != "" {
			auth = JWTSigner{Secret: []byte(cfg.JWTSecret), Operator: cfg.Operator}
		}
		client := &http.Client{Timeout: timeout}
		return NewHTTP(cfg.Endpoint, WithClient(client), WithAuth(auth)), func() {}, nil

	case config.TransportNATS:
		conn, err := nats.Connect(cfg.NatsURL, timeout)
		if err != nil {
			return nil, nil, err
		}
		t := NewNATS(conn, cfg.NatsSubject)
		return t, t.Close, nil

	case config.TransportDryRun:
		return NewDryRun(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}
