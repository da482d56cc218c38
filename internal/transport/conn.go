// Package transport owns the live websocket channel to the assistant backend:
// connect, send, receive, close, and automatic reconnection with backoff.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/liminalcash/nimchat/internal/auth"
	"github.com/liminalcash/nimchat/internal/models"
	"github.com/liminalcash/nimchat/internal/protocol"
)

var (
	// ErrAuthRequired means no access token was available at dial time. The
	// channel is never opened without one.
	ErrAuthRequired = errors.New("auth required: no access token")

	// ErrNotConnected means a frame was handed to Send while the channel was
	// not in the connected state. Frames are not queued across reconnects.
	ErrNotConnected = errors.New("not connected")

	// ErrReconnectExhausted is the terminal error delivered on the event
	// channel after the bounded reconnect attempts all failed.
	ErrReconnectExhausted = errors.New("reconnect attempts exhausted")
)

// EventKind discriminates the values delivered on the connection's single
// ordered event channel.
type EventKind int

const (
	// EventState is a connection-state transition.
	EventState EventKind = iota
	// EventServer is a decoded inbound server event.
	EventServer
	// EventFailure carries a terminal transport error.
	EventFailure
)

// Event is one item on the ordered stream a Conn delivers to its consumer.
// Epoch identifies the underlying channel instance the event belongs to;
// consumers discard server events tagged with a stale epoch.
type Event struct {
	Kind   EventKind
	Epoch  uint64
	State  models.ConnectionState
	Server protocol.ServerEvent
	Err    error
}

// Options configures a Conn.
type Options struct {
	URL              string
	Tokens           auth.TokenProvider
	Logger           zerolog.Logger
	HandshakeTimeout time.Duration
	InitialBackoff   time.Duration
	MaxBackoff       time.Duration
	MaxAttempts      int
}

func (o *Options) fill() {
	if o.HandshakeTimeout == 0 {
		o.HandshakeTimeout = 10 * time.Second
	}
	if o.InitialBackoff == 0 {
		o.InitialBackoff = time.Second
	}
	if o.MaxBackoff == 0 {
		o.MaxBackoff = 30 * time.Second
	}
	if o.MaxAttempts == 0 {
		o.MaxAttempts = 5
	}
}

// Conn is a persistent websocket connection to the assistant backend. It is
// the only component that touches the socket; everyone else observes it
// through Events and State.
type Conn struct {
	opts   Options
	logger zerolog.Logger

	mu    sync.Mutex
	ws    *websocket.Conn
	state models.ConnectionState
	epoch uint64

	events    chan Event
	closed    chan struct{}
	closeOnce sync.Once
}

// New creates a Conn. It does not dial; call Connect.
func New(opts Options) *Conn {
	opts.fill()
	return &Conn{
		opts:   opts,
		logger: opts.Logger.With().Str("component", "transport").Logger(),
		state:  models.Disconnected,
		events: make(chan Event, 256),
		closed: make(chan struct{}),
	}
}

// Events returns the ordered stream of state transitions and decoded server
// events. A single consumer drains it.
func (c *Conn) Events() <-chan Event {
	return c.events
}

// State reports the current connection state.
func (c *Conn) State() models.ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect opens the channel, suspending until the handshake completes or
// fails. Fails with ErrAuthRequired when no token is available.
func (c *Conn) Connect(ctx context.Context) error {
	token := c.opts.Tokens.Token()
	if token == "" {
		return ErrAuthRequired
	}

	c.setState(models.Connecting)
	ws, err := c.dial(ctx, token)
	if err != nil {
		c.setState(models.Disconnected)
		return fmt.Errorf("dial %s: %w", c.opts.URL, err)
	}

	epoch := c.adopt(ws)
	c.setState(models.Connected)
	go c.readLoop(ws, epoch)

	c.logger.Info().Str("url", c.opts.URL).Uint64("epoch", epoch).Msg("connected")
	return nil
}

func (c *Conn) dial(ctx context.Context, token string) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: c.opts.HandshakeTimeout}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	ws, resp, err := dialer.DialContext(ctx, c.opts.URL, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	return ws, err
}

// adopt installs a freshly dialed socket and starts a new epoch.
func (c *Conn) adopt(ws *websocket.Conn) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws = ws
	c.epoch++
	return c.epoch
}

// Send transmits one frame. It does not wait for acknowledgement.
func (c *Conn) Send(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != models.Connected || c.ws == nil {
		return ErrNotConnected
	}
	if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Close tears the channel down. It never reconnects and always releases the
// socket, transitioning to disconnected.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		c.mu.Lock()
		ws := c.ws
		c.ws = nil
		c.mu.Unlock()
		if ws != nil {
			_ = ws.WriteMessage(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			)
			err = ws.Close()
		}
		c.setState(models.Disconnected)
	})
	return err
}

func (c *Conn) readLoop(ws *websocket.Conn, epoch uint64) {
	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			select {
			case <-c.closed:
				return
			default:
			}
			c.logger.Warn().Err(err).Uint64("epoch", epoch).Msg("connection lost")
			ws.Close()
			c.reconnect(epoch)
			return
		}

		ev, derr := protocol.Decode(raw)
		if derr != nil {
			// Drop the single bad frame; the epoch survives.
			c.logger.Warn().Err(derr).Msg("dropping malformed frame")
			continue
		}
		c.emit(Event{Kind: EventServer, Epoch: epoch, Server: ev})
	}
}

// reconnect retries the dial on an exponential schedule after an unexpected
// closure. Gives up after MaxAttempts, surfacing ErrReconnectExhausted.
func (c *Conn) reconnect(lostEpoch uint64) {
	c.mu.Lock()
	if c.epoch != lostEpoch {
		// A newer epoch already took over.
		c.mu.Unlock()
		return
	}
	c.ws = nil
	c.mu.Unlock()

	c.setState(models.Reconnecting)

	schedule := backoff.NewExponentialBackOff()
	schedule.InitialInterval = c.opts.InitialBackoff
	schedule.MaxInterval = c.opts.MaxBackoff
	schedule.RandomizationFactor = 0
	schedule.MaxElapsedTime = 0
	schedule.Reset()

	for attempt := 1; attempt <= c.opts.MaxAttempts; attempt++ {
		wait := schedule.NextBackOff()
		select {
		case <-c.closed:
			return
		case <-time.After(wait):
		}

		token := c.opts.Tokens.Token()
		if token == "" {
			c.logger.Warn().Int("attempt", attempt).Msg("no token for reconnect")
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), c.opts.HandshakeTimeout)
		ws, err := c.dial(ctx, token)
		cancel()
		if err != nil {
			c.logger.Warn().Err(err).Int("attempt", attempt).Msg("reconnect failed")
			continue
		}

		epoch := c.adopt(ws)
		c.setState(models.Connected)
		go c.readLoop(ws, epoch)
		c.logger.Info().Uint64("epoch", epoch).Int("attempt", attempt).Msg("reconnected")
		return
	}

	c.logger.Error().Int("attempts", c.opts.MaxAttempts).Msg("reconnect exhausted")
	c.emit(Event{Kind: EventFailure, Epoch: lostEpoch, Err: ErrReconnectExhausted})
	c.setState(models.Disconnected)
}

// setState records a transition and emits it exactly once, in order.
func (c *Conn) setState(next models.ConnectionState) {
	c.mu.Lock()
	if c.state == next {
		c.mu.Unlock()
		return
	}
	c.state = next
	epoch := c.epoch
	c.mu.Unlock()

	c.emit(Event{Kind: EventState, Epoch: epoch, State: next})
}

func (c *Conn) emit(ev Event) {
	select {
	case c.events <- ev:
	case <-c.closed:
	}
}
