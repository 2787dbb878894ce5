// Package natspub publishes parsed events to NATS subjects.
package natspub

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/il2log/il2log-go/pkg/il2log/event"
)

// DefaultPrefix is the subject prefix used when none is configured.
const DefaultPrefix = "il2log.events"

// Conn is the part of *nats.Conn a Publisher uses.
type Conn interface {
	Publish(subj string, data []byte) error
	Flush() error
	Drain() error
}

var _ Conn = (*nats.Conn)(nil)

// Publisher sends events as JSON to "<prefix>.<kind>".
type Publisher struct {
	conn   Conn
	prefix string
	log    *slog.Logger
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithPrefix sets the subject prefix. Default: DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(p *Publisher) {
		if prefix = strings.Trim(prefix, "."); prefix != "" {
			p.prefix = prefix
		}
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.log = logger
		}
	}
}

// New wraps an established connection.
func New(conn Conn, opts ...Option) *Publisher {
	p := &Publisher{
		conn:   conn,
		prefix: DefaultPrefix,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Connect dials the NATS server at url and returns a Publisher on it.
func Connect(url string, opts ...Option) (*Publisher, error) {
	p := New(nil, opts...)
	nc, err := nats.Connect(url,
		nats.Name("il2log"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			p.log.Debug("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			p.log.Debug("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	p.conn = nc
	return p, nil
}

// Subject returns the subject an event of kind is published on.
func Subject(prefix string, kind event.Kind) string {
	return prefix + "." + string(kind)
}

// Publish sends ev.
func (p *Publisher) Publish(ev *event.Event) error {
	data, err := json.Marshal(event.ToMap(ev))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	subj := Subject(p.prefix, ev.Kind)
	if err := p.conn.Publish(subj, data); err != nil {
		return fmt.Errorf("publish %s: %w", subj, err)
	}
	p.log.Debug("published", "subject", subj, "bytes", len(data))
	return nil
}

// Flush waits until the server has processed everything published so far.
func (p *Publisher) Flush() error {
	return p.conn.Flush()
}

// Close drains the connection: pending messages are sent before it closes.
func (p *Publisher) Close() error {
	return p.conn.Drain()
}
