// Package nats wraps the NATS pieces gleo uses: an embedded JetStream
// server for the local submission journal and client connections for the
// request/reply transport.
package nats

import (
	"errors"
	"fmt"
	"time"

	"github.com/fbcorp/gleo/internal/logger"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

var log = logger.Default.With("nats")

// ReadyTimeout bounds how long StartEmbedded waits for the server.
const ReadyTimeout = 4 * time.Second

// StartEmbedded starts an in-process NATS server with JetStream file storage
// under storeDir. The server opens no network ports.
func StartEmbedded(storeDir string) (*server.Server, error) {
	log.Debug("starting embedded server, store=%s", storeDir)

	ns, err := server.NewServer(&server.Options{
		JetStream:  true,
		StoreDir:   storeDir,
		DontListen: true,
		NoSigs:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("create nats server: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(ReadyTimeout) {
		ns.Shutdown()
		log.Error("server not ready after %s", ReadyTimeout)
		return nil, errors.New("nats server failed to start within timeout")
	}
	return ns, nil
}

// ConnectInProcess opens a connection to an embedded server without sockets.
func ConnectInProcess(ns *server.Server) (*nats.Conn, error) {
	conn, err := nats.Connect("", nats.InProcessServer(ns), nats.Name("gleo-journal"))
	if err != nil {
		return nil, fmt.Errorf("connect in-process: %w", err)
	}
	return conn, nil
}

// Connect dials a remote NATS server for request/reply submission.
func Connect(url string, timeout time.Duration) (*nats.Conn, error) {
	opts := []nats.Option{nats.Name("gleo")}
	if timeout > 0 {
		opts = append(opts, nats.Timeout(timeout))
	}
	log.Debug("connecting to %s", url)
	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", url, err)
	}
	return conn, nil
}

// NewJetStream returns a JetStream handle for the connection.
func NewJetStream(nc *nats.Conn) (jetstream.JetStream, error) {
	return jetstream.New(nc)
}

// Shutdown drains the connection and stops the server. Both steps are
// bounded so a wedged server cannot hang the CLI on exit.
func Shutdown(nc *nats.Conn, ns *server.Server) error {
	if nc != nil {
		drained := make(chan error, 1)
		go func() { drained <- nc.Drain() }()

		select {
		case err := <-drained:
			if err != nil {
				log.Warn("drain failed, closing: %v", err)
				nc.Close()
			}
		case <-time.After(2 * time.Second):
			log.Warn("drain timed out, closing")
			nc.Close()
		}
	}

	if ns == nil {
		return nil
	}
	ns.Shutdown()

	stopped := make(chan struct{})
	go func() {
		ns.WaitForShutdown()
		close(stopped)
	}()
	select {
	case <-stopped:
		log.Debug("server stopped")
		return nil
	case <-time.After(5 * time.Second):
		log.Error("server shutdown timed out")
		return errors.New("nats server shutdown timed out")
	}
}
