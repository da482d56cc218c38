// Package protocol defines the wire frames exchanged with the Nim assistant
// backend and the decoder that turns raw inbound frames into typed events.
package protocol

import "encoding/json"

// frame is the envelope shared by every JSON frame on the wire.
type frame struct {
	Type string `json:"type"`

	// chunk / complete
	MessageID string `json:"messageId,omitempty"`
	Delta     string `json:"delta,omitempty"`

	// confirmation_request
	ID     string         `json:"id,omitempty"`
	Action string         `json:"action,omitempty"`
	Params map[string]any `json:"params,omitempty"`

	// confirmation_result / confirmation_decision
	RequestID string `json:"requestId,omitempty"`
	Outcome   string `json:"outcome,omitempty"`
	Detail    string `json:"detail,omitempty"`
	Decision  string `json:"decision,omitempty"`

	// error
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`

	// message (outbound)
	Content string `json:"content,omitempty"`
}

// EncodeMessage builds the outbound frame carrying one user message.
func EncodeMessage(content string) ([]byte, error) {
	return json.Marshal(frame{Type: "message", Content: content})
}

// EncodeDecision builds the outbound frame carrying a confirmation decision.
func EncodeDecision(requestID, decision string) ([]byte, error) {
	return json.Marshal(frame{
		Type:      "confirmation_decision",
		RequestID: requestID,
		Decision:  decision,
	})
}
