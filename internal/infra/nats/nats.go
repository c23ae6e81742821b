package natsclient

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sifan077/linkdash/config"
)

const defaultConnectTimeout = 5 * time.Second

// Connect creates a NATS connection with JetStream enabled.
func Connect(cfg config.NATSConfig) (*nats.Conn, nats.JetStreamContext, error) {
	opts := []nats.Option{
		nats.Timeout(defaultConnectTimeout),
		nats.Name("linkdash"),
	}

	if cfg.User != "" {
		opts = append(opts, nats.UserInfo(cfg.User, cfg.Password))
	}

	conn, err := nats.Connect(URL(cfg), opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("nats: connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("nats: init jetstream: %w", err)
	}

	return conn, js, nil
}

// EnsureStream creates the stream unless it already exists.
func EnsureStream(js nats.JetStreamContext, stream nats.StreamConfig) error {
	if _, err := js.StreamInfo(stream.Name); err == nil {
		return nil
	}
	if _, err := js.AddStream(&stream); err != nil {
		return fmt.Errorf("nats: add stream %s: %w", stream.Name, err)
	}
	return nil
}

// URL returns the nats:// address for cfg.
func URL(cfg config.NATSConfig) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 4222
	}
	return fmt.Sprintf("nats://%s:%d", host, port)
}
