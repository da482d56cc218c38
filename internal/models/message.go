package models

import "time"

type MessageRole int

const (
	User MessageRole = iota
	Assistant
	Program
)

// Message is one entry in the conversation transcript. While Streaming is
// true the content is still being appended to by inbound chunks; once a
// message is finalized it is never mutated again.
type Message struct {
	ID        string
	Role      MessageRole
	Content   string
	CreatedAt time.Time
	Streaming bool
}

type Decision int

const (
	Approve Decision = iota
	Reject
)

func (d Decision) String() string {
	if d == Approve {
		return "approve"
	}
	return "reject"
}

// ConfirmationRequest is a sensitive action proposed by the assistant that
// must be explicitly approved or rejected before the backend executes it.
// At most one may be outstanding at a time.
type ConfirmationRequest struct {
	ID       string
	Action   string
	Params   map[string]any
	IssuedAt time.Time
}

// ConfirmationDecision records the user's verdict on a pending request.
// It exists only until the matching confirmation_result arrives.
type ConfirmationDecision struct {
	RequestID string
	Decision  Decision
	DecidedAt time.Time
}
