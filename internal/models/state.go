package models

type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connecting
	Connected
	Reconnecting
)

func (s ConnectionState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Reconnecting:
		return "reconnecting"
	default:
		return "disconnected"
	}
}

// ClientView is the read-only projection of the conversation core exposed to
// presentation layers. It is a snapshot; mutating it has no effect on the core.
type ClientView struct {
	Transcript          []Message
	IsStreaming         bool
	ConnectionState     ConnectionState
	PendingConfirmation *ConfirmationRequest
}
