package core

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/liminalcash/nimchat/internal/eventbus"
	"github.com/liminalcash/nimchat/internal/models"
	"github.com/liminalcash/nimchat/internal/protocol"
	"github.com/liminalcash/nimchat/internal/transport"
)

// Transport is what the conversation service needs from the connection
// layer. *transport.Conn satisfies it; tests substitute fakes.
type Transport interface {
	Send(frame []byte) error
	Events() <-chan transport.Event
	State() models.ConnectionState
}

// command funnels a caller-originated mutation into the serialized loop and
// carries its result back.
type command struct {
	apply func() error
	reply chan error
}

// Service is the conversation state machine. It drains one serialized loop
// over transport events, UI events and facade commands, so no two events are
// ever applied concurrently.
type Service struct {
	state    *ChatState
	tr       Transport
	eventBus *eventbus.EventBus
	logger   zerolog.Logger
	onError  func(error)

	cmds    chan command
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	started bool

	epoch uint64 // highest connection epoch observed
}

// NewService wires the state machine to a transport and an event bus. The
// onError callback receives protocol violations and terminal transport
// errors; it may be nil.
func NewService(tr Transport, eb *eventbus.EventBus, logger zerolog.Logger, onError func(error)) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	if onError == nil {
		onError = func(error) {}
	}
	return &Service{
		state:    NewChatState(),
		tr:       tr,
		eventBus: eb,
		logger:   logger.With().Str("component", "core").Logger(),
		onError:  onError,
		cmds:     make(chan command),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start runs the serialized event loop in a goroutine.
func (s *Service) Start() {
	s.started = true
	s.pushStateToUI(nil)
	go s.eventLoop()
}

// Stop halts the loop. No goroutine outlives the call's completion.
func (s *Service) Stop() {
	s.cancel()
	if s.started {
		<-s.done
	}
}

// View returns the current read-only snapshot of the conversation.
func (s *Service) View() models.ClientView {
	return s.state.View()
}

// SendMessage appends a user message and transmits it. The error is observed
// from the caller's perspective synchronously.
func (s *Service) SendMessage(content string) error {
	return s.do(func() error { return s.sendMessage(content) })
}

// Confirm records the user's verdict on the pending confirmation and
// transmits the decision frame exactly once.
func (s *Service) Confirm(d models.Decision) error {
	return s.do(func() error { return s.resolveConfirmation(d) })
}

// Cancel rejects the pending confirmation. Always permitted; if currently
// disconnected the decision is transmitted after reconnect.
func (s *Service) Cancel() error {
	return s.do(func() error { return s.resolveConfirmation(models.Reject) })
}

func (s *Service) do(apply func() error) error {
	cmd := command{apply: apply, reply: make(chan error, 1)}
	select {
	case s.cmds <- cmd:
	case <-s.ctx.Done():
		return ErrStopped
	}
	select {
	case err := <-cmd.reply:
		return err
	case <-s.ctx.Done():
		return ErrStopped
	}
}

func (s *Service) eventLoop() {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case ev := <-s.tr.Events():
			s.handleTransportEvent(ev)
		case uiEvent, ok := <-s.eventBus.UIToCore():
			if !ok {
				return
			}
			s.handleUIEvent(uiEvent)
		case cmd := <-s.cmds:
			cmd.reply <- cmd.apply()
		}
	}
}

func (s *Service) handleUIEvent(event eventbus.UIEvent) {
	var err error
	switch e := event.(type) {
	case eventbus.SendMessageEvent:
		err = s.sendMessage(e.Message)
	case eventbus.ConfirmationDecisionEvent:
		err = s.resolveConfirmation(e.Decision)
	case eventbus.CancelConfirmationEvent:
		err = s.resolveConfirmation(models.Reject)
	}
	if err != nil {
		s.state.SetError(err)
		s.pushStateToUI(err)
	}
}

func (s *Service) handleTransportEvent(ev transport.Event) {
	switch ev.Kind {
	case transport.EventState:
		if ev.Epoch > s.epoch {
			s.epoch = ev.Epoch
		}
		s.applyConnState(ev.State)
	case transport.EventServer:
		if ev.Epoch < s.epoch {
			// Stale frame from a dead connection epoch.
			s.logger.Debug().Uint64("epoch", ev.Epoch).Msg("discarding stale event")
			return
		}
		s.applyServerEvent(ev.Server)
	case transport.EventFailure:
		s.logger.Error().Err(ev.Err).Msg("transport failure")
		s.state.InterruptStreaming(ev.Err)
		s.onError(ev.Err)
		s.pushStateToUI(ev.Err)
	}
}

func (s *Service) applyConnState(state models.ConnectionState) {
	s.state.SetConnState(state)

	switch state {
	case models.Connected:
		// A decision sent but unacknowledged before the disconnect must go
		// out again on the new epoch.
		if dec := s.state.UnackedDecision(); dec != nil {
			s.transmitDecision(*dec)
		}
	case models.Reconnecting, models.Disconnected:
		// The pending confirmation survives the epoch; the half-assembled
		// message does not.
		s.state.InterruptStreaming(nil)
	}
	s.pushStateToUI(nil)
}

func (s *Service) applyServerEvent(event protocol.ServerEvent) {
	switch e := event.(type) {
	case protocol.Chunk:
		s.state.ApplyChunk(e.MessageID, e.Delta)
	case protocol.Complete:
		s.state.FinalizeMessage(e.MessageID)
	case protocol.Text:
		s.state.AppendAssistantText(e.Content)
	case protocol.ConfirmationRequest:
		req := models.ConfirmationRequest{
			ID:       e.ID,
			Action:   e.Action,
			Params:   e.Params,
			IssuedAt: time.Now(),
		}
		if err := s.state.SetPendingConfirmation(req); err != nil {
			s.logger.Warn().Str("request", e.ID).Msg("duplicate confirmation request")
			s.onError(fmt.Errorf("%w: request %s", err, e.ID))
			s.pushStateToUI(err)
			return
		}
	case protocol.ConfirmationResult:
		if !s.state.ClearConfirmation(e.RequestID) {
			s.logger.Warn().Str("request", e.RequestID).Msg("result for unknown confirmation")
			return
		}
		s.state.AppendProgramMessage(formatOutcome(e))
	case protocol.ServerError:
		err := fmt.Errorf("assistant error %s: %s", e.Code, e.Message)
		s.logger.Warn().Str("code", e.Code).Str("message", e.Message).Msg("server error")
		s.state.InterruptStreaming(err)
	case protocol.Ack:
		s.logger.Debug().Msg("session acknowledged")
		return
	case protocol.Unknown:
		s.logger.Info().Str("kind", e.Kind).Msg("ignoring unknown event kind")
		return
	}
	s.pushStateToUI(nil)
}

func (s *Service) sendMessage(content string) error {
	if err := s.state.BeginSend(); err != nil {
		return err
	}
	if s.tr.State() != models.Connected {
		return transport.ErrNotConnected
	}

	frame, err := protocol.EncodeMessage(content)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	if err := s.tr.Send(frame); err != nil {
		return err
	}

	s.state.AppendUserMessage(content)
	s.pushStateToUI(nil)
	return nil
}

func (s *Service) resolveConfirmation(d models.Decision) error {
	dec, err := s.state.ResolveConfirmation(d)
	if err != nil {
		return err
	}
	// A failed send leaves the decision unacked; it is retransmitted on the
	// next connected transition.
	s.transmitDecision(dec)
	s.pushStateToUI(nil)
	return nil
}

func (s *Service) transmitDecision(dec models.ConfirmationDecision) {
	frame, err := protocol.EncodeDecision(dec.RequestID, dec.Decision.String())
	if err != nil {
		s.logger.Error().Err(err).Msg("encode decision")
		return
	}
	if err := s.tr.Send(frame); err != nil {
		s.logger.Warn().Err(err).Str("request", dec.RequestID).Msg("decision not sent, will retry on reconnect")
	}
}

func (s *Service) pushStateToUI(err error) {
	if s.eventBus == nil {
		return
	}
	update := eventbus.StateUpdateEvent{View: s.state.View(), Err: err}
	if update.Err == nil {
		update.Err = s.state.LastError()
	}
	if busErr := s.eventBus.SendToUI(update); busErr != nil {
		s.logger.Warn().Err(busErr).Msg("state update dropped")
	}
}

func formatOutcome(res protocol.ConfirmationResult) string {
	if res.Detail != "" {
		return fmt.Sprintf("Action %s: %s", res.Outcome, res.Detail)
	}
	return fmt.Sprintf("Action %s", res.Outcome)
}
