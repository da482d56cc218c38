// Package client is the public contract of the conversational core: one
// facade per authenticated session, owning one transport connection and one
// conversation state machine.
package client

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/liminalcash/nimchat/internal/auth"
	"github.com/liminalcash/nimchat/internal/core"
	"github.com/liminalcash/nimchat/internal/eventbus"
	"github.com/liminalcash/nimchat/internal/models"
	"github.com/liminalcash/nimchat/internal/transport"
)

// Options configures a Client.
type Options struct {
	// URL is the websocket endpoint of the assistant backend.
	URL string
	// Tokens supplies the access token at connect time. Read-only to the
	// core.
	Tokens auth.TokenProvider
	// Logger defaults to a no-op logger.
	Logger *zerolog.Logger
	// OnError receives terminal transport errors and protocol violations.
	// Optional.
	OnError func(error)

	// Reconnection tuning; zero values pick the transport defaults.
	HandshakeTimeout time.Duration
	InitialBackoff   time.Duration
	MaxBackoff       time.Duration
	MaxAttempts      int
}

// Client is the facade consumed by presentation layers. Create one on login,
// Close it on logout; no background work outlives it.
type Client struct {
	conn     *transport.Conn
	service  *core.Service
	eventBus *eventbus.EventBus
}

// New builds a client. Call Connect to open the channel.
func New(opts Options) *Client {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	conn := transport.New(transport.Options{
		URL:              opts.URL,
		Tokens:           opts.Tokens,
		Logger:           logger,
		HandshakeTimeout: opts.HandshakeTimeout,
		InitialBackoff:   opts.InitialBackoff,
		MaxBackoff:       opts.MaxBackoff,
		MaxAttempts:      opts.MaxAttempts,
	})

	onError := opts.OnError
	if onError == nil {
		onError = func(error) {}
	}

	eb := eventbus.NewEventBus()
	eb.SetErrorCallback(func(busErr eventbus.EventBusError) { onError(busErr) })
	service := core.NewService(conn, eb, logger, onError)

	return &Client{
		conn:     conn,
		service:  service,
		eventBus: eb,
	}
}

// Connect opens the channel and starts the conversation loop. Fails with
// transport.ErrAuthRequired when no token is available.
func (c *Client) Connect(ctx context.Context) error {
	c.service.Start()
	return c.conn.Connect(ctx)
}

// Close tears down the transport, stops the conversation loop and closes the
// event bus. The in-memory transcript is discarded with the client.
func (c *Client) Close() error {
	err := c.conn.Close()
	c.service.Stop()
	c.eventBus.Close()
	return err
}

// View returns the current read snapshot: transcript, streaming flag,
// connection state and pending confirmation.
func (c *Client) View() models.ClientView {
	return c.service.View()
}

// SendMessage submits one user message to the assistant.
func (c *Client) SendMessage(content string) error {
	return c.service.SendMessage(content)
}

// Confirm resolves the pending confirmation with the given decision.
func (c *Client) Confirm(d models.Decision) error {
	return c.service.Confirm(d)
}

// Cancel rejects the pending confirmation.
func (c *Client) Cancel() error {
	return c.service.Cancel()
}

// Bus exposes the event bus for push-style consumers (the terminal UI).
func (c *Client) Bus() *eventbus.EventBus {
	return c.eventBus
}
