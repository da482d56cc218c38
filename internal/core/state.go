package core

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/liminalcash/nimchat/internal/models"
)

// interruptedNote is appended to a streaming message that was cut off by
// connection loss or a server error.
const interruptedNote = " [interrupted]"

// ChatState owns the conversation transcript, the streaming-assembly buffer
// and the pending-confirmation slot. All mutation happens through these
// methods, and only the service loop calls the mutating ones; the lock exists
// so snapshots can be read from other goroutines.
type ChatState struct {
	mu         sync.RWMutex
	transcript []models.Message
	openID     string // ID of the assistant message currently streaming
	awaiting   bool   // a reply has been requested and not yet completed
	connState  models.ConnectionState
	confirm    *gate
	lastError  error
}

func NewChatState() *ChatState {
	return &ChatState{
		transcript: make([]models.Message, 0),
		connState:  models.Disconnected,
	}
}

// View returns a deep-copied snapshot of the conversation.
func (cs *ChatState) View() models.ClientView {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	transcript := make([]models.Message, len(cs.transcript))
	copy(transcript, cs.transcript)

	var pending *models.ConfirmationRequest
	if cs.confirm != nil {
		req := cs.confirm.request
		pending = &req
	}

	return models.ClientView{
		Transcript:          transcript,
		IsStreaming:         cs.openID != "" || cs.awaiting,
		ConnectionState:     cs.connState,
		PendingConfirmation: pending,
	}
}

func (cs *ChatState) LastError() error {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.lastError
}

// BeginSend validates that a new user message may be sent right now.
func (cs *ChatState) BeginSend() error {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	if cs.confirm != nil {
		return ErrBusy
	}
	// awaiting covers replies we asked for; openID covers unsolicited
	// streams, like proposal text ahead of a confirmation_request.
	if cs.awaiting || cs.openID != "" {
		return ErrConcurrentSendRejected
	}
	return nil
}

// AppendUserMessage records the outbound user message and arms the
// awaiting-assistant flag.
func (cs *ChatState) AppendUserMessage(content string) models.Message {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	msg := models.Message{
		ID:        uuid.NewString(),
		Role:      models.User,
		Content:   content,
		CreatedAt: time.Now(),
	}
	cs.transcript = append(cs.transcript, msg)
	cs.awaiting = true
	cs.lastError = nil
	return msg
}

// AppendProgramMessage adds an informational line to the transcript.
func (cs *ChatState) AppendProgramMessage(content string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.transcript = append(cs.transcript, models.Message{
		ID:        uuid.NewString(),
		Role:      models.Program,
		Content:   content,
		CreatedAt: time.Now(),
	})
}

// ApplyChunk appends a delta to the open assistant message. A chunk for a
// different messageId finalizes the open message and starts a new one, even
// mid-stream.
func (cs *ChatState) ApplyChunk(messageID, delta string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.openID != "" && cs.openID != messageID {
		cs.finalizeLocked(cs.openID)
	}
	if cs.openID == "" {
		cs.transcript = append(cs.transcript, models.Message{
			ID:        messageID,
			Role:      models.Assistant,
			CreatedAt: time.Now(),
			Streaming: true,
		})
		cs.openID = messageID
	}
	if open := cs.openLocked(); open != nil {
		open.Content += delta
	}
}

// openLocked finds the streaming message. It is usually the last entry, but
// a program line can land mid-stream.
func (cs *ChatState) openLocked() *models.Message {
	for i := len(cs.transcript) - 1; i >= 0; i-- {
		if cs.transcript[i].ID == cs.openID {
			return &cs.transcript[i]
		}
	}
	return nil
}

// FinalizeMessage handles a complete event. Completing a message that is not
// open is a no-op.
func (cs *ChatState) FinalizeMessage(messageID string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.openID != messageID {
		return
	}
	cs.finalizeLocked(messageID)
	cs.awaiting = false
}

// AppendAssistantText records a whole-text assistant reply (legacy backend
// mode): created and finalized in one step.
func (cs *ChatState) AppendAssistantText(content string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.transcript = append(cs.transcript, models.Message{
		ID:        uuid.NewString(),
		Role:      models.Assistant,
		Content:   content,
		CreatedAt: time.Now(),
	})
	cs.awaiting = false
}

// InterruptStreaming finalizes the open message after a server error or
// connection loss, annotating it as cut off.
func (cs *ChatState) InterruptStreaming(err error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.openID != "" {
		if open := cs.openLocked(); open != nil {
			open.Content += interruptedNote
		}
		cs.finalizeLocked(cs.openID)
	}
	cs.awaiting = false
	if err != nil {
		cs.lastError = err
	}
}

func (cs *ChatState) finalizeLocked(messageID string) {
	for i := len(cs.transcript) - 1; i >= 0; i-- {
		if cs.transcript[i].ID == messageID {
			cs.transcript[i].Streaming = false
			break
		}
	}
	cs.openID = ""
}

// SetPendingConfirmation installs a confirmation request. A second request
// while one is pending is a protocol violation; the original stays pending.
func (cs *ChatState) SetPendingConfirmation(req models.ConfirmationRequest) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.confirm != nil {
		return ErrDuplicateConfirmation
	}
	cs.confirm = newGate(req)
	return nil
}

// ResolveConfirmation records the user's verdict on the pending request and
// returns the decision to transmit. The slot stays occupied until the
// backend's confirmation_result clears it.
func (cs *ChatState) ResolveConfirmation(d models.Decision) (models.ConfirmationDecision, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.confirm == nil {
		return models.ConfirmationDecision{}, ErrNoPendingConfirmation
	}
	return cs.confirm.resolve(d)
}

// ClearConfirmation releases the slot for the given request. Returns false
// when no matching request is pending (stale or unknown result).
func (cs *ChatState) ClearConfirmation(requestID string) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.confirm == nil || cs.confirm.request.ID != requestID {
		return false
	}
	cs.confirm = nil
	return true
}

// UnackedDecision returns the decision awaiting a confirmation_result, if
// any. Used to resend exactly once after a reconnect.
func (cs *ChatState) UnackedDecision() *models.ConfirmationDecision {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	if cs.confirm == nil {
		return nil
	}
	if d := cs.confirm.unacked(); d != nil {
		dec := *d
		return &dec
	}
	return nil
}

func (cs *ChatState) SetConnState(s models.ConnectionState) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.connState = s
}

func (cs *ChatState) ConnState() models.ConnectionState {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.connState
}

func (cs *ChatState) SetError(err error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.lastError = err
}
