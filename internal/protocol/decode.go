package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrMalformedFrame reports a frame that could not be decoded into any event.
// Callers log and drop the single bad frame; the connection stays up.
var ErrMalformedFrame = errors.New("malformed frame")

// ServerEvent is one typed inbound event decoded from a raw frame.
type ServerEvent interface {
	serverEvent()
}

// Chunk is an incremental fragment of an assistant reply.
type Chunk struct {
	MessageID string
	Delta     string
}

// Complete marks the end of a streamed assistant reply.
type Complete struct {
	MessageID string
}

// ConfirmationRequest asks the user to approve or reject a sensitive action
// before the backend executes it.
type ConfirmationRequest struct {
	ID     string
	Action string
	Params map[string]any
}

// ConfirmationResult reports the backend's execution outcome for a decided
// confirmation.
type ConfirmationResult struct {
	RequestID string
	Outcome   string
	Detail    string
}

// ServerError is an error reported by the backend inside the session.
type ServerError struct {
	Code    string
	Message string
}

// Ack acknowledges the connection handshake.
type Ack struct{}

// Text is a complete assistant reply delivered as one unstructured frame.
// Produced only by the legacy plain-text backend mode.
type Text struct {
	Content string
}

// Unknown is a JSON frame whose type this client does not recognize. The
// state machine ignores it; it exists so newer backends don't crash older
// clients.
type Unknown struct {
	Kind string
}

func (Chunk) serverEvent()               {}
func (Complete) serverEvent()            {}
func (ConfirmationRequest) serverEvent() {}
func (ConfirmationResult) serverEvent()  {}
func (ServerError) serverEvent()         {}
func (Ack) serverEvent()                 {}
func (Text) serverEvent()                {}
func (Unknown) serverEvent()             {}

// Decode parses one raw inbound frame into exactly one ServerEvent.
//
// A frame that is not JSON at all is treated as a whole-text assistant
// message (legacy plain-text backend mode) and decodes to Text. A JSON frame
// with an unrecognized type decodes to Unknown.
func Decode(raw []byte) (ServerEvent, error) {
	var f frame
	if err := json.Unmarshal(raw, &f); err != nil {
		if utf8.Valid(raw) && len(raw) > 0 {
			return Text{Content: string(raw)}, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrMalformedFrame, err)
	}

	switch f.Type {
	case "chunk":
		if f.MessageID == "" {
			return nil, fmt.Errorf("%w: chunk without messageId", ErrMalformedFrame)
		}
		return Chunk{MessageID: f.MessageID, Delta: f.Delta}, nil
	case "complete":
		if f.MessageID == "" {
			return nil, fmt.Errorf("%w: complete without messageId", ErrMalformedFrame)
		}
		return Complete{MessageID: f.MessageID}, nil
	case "confirmation_request":
		if f.ID == "" || f.Action == "" {
			return nil, fmt.Errorf("%w: confirmation_request missing id or action", ErrMalformedFrame)
		}
		return ConfirmationRequest{ID: f.ID, Action: f.Action, Params: f.Params}, nil
	case "confirmation_result":
		if f.RequestID == "" {
			return nil, fmt.Errorf("%w: confirmation_result without requestId", ErrMalformedFrame)
		}
		return ConfirmationResult{RequestID: f.RequestID, Outcome: f.Outcome, Detail: f.Detail}, nil
	case "error":
		return ServerError{Code: f.Code, Message: f.Message}, nil
	case "ack":
		return Ack{}, nil
	case "":
		return nil, fmt.Errorf("%w: missing type", ErrMalformedFrame)
	default:
		return Unknown{Kind: f.Type}, nil
	}
}
