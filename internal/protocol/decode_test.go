package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeChunk(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"chunk","messageId":"m1","delta":"Your "}`))
	require.NoError(t, err)
	require.IsType(t, Chunk{}, ev)
	chunk := ev.(Chunk)
	assert.Equal(t, "m1", chunk.MessageID)
	assert.Equal(t, "Your ", chunk.Delta)
}

func TestDecodeComplete(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"complete","messageId":"m1"}`))
	require.NoError(t, err)
	assert.Equal(t, Complete{MessageID: "m1"}, ev)
}

func TestDecodeConfirmationRequest(t *testing.T) {
	raw := `{"type":"confirmation_request","id":"r1","action":"transfer","params":{"amount":50,"to":"a@b.com"}}`
	ev, err := Decode([]byte(raw))
	require.NoError(t, err)
	require.IsType(t, ConfirmationRequest{}, ev)
	req := ev.(ConfirmationRequest)
	assert.Equal(t, "r1", req.ID)
	assert.Equal(t, "transfer", req.Action)
	assert.Equal(t, float64(50), req.Params["amount"])
	assert.Equal(t, "a@b.com", req.Params["to"])
}

func TestDecodeConfirmationResult(t *testing.T) {
	raw := `{"type":"confirmation_result","requestId":"r1","outcome":"success","detail":"sent $50"}`
	ev, err := Decode([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, ConfirmationResult{RequestID: "r1", Outcome: "success", Detail: "sent $50"}, ev)
}

func TestDecodeError(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"error","code":"rate_limited","message":"slow down"}`))
	require.NoError(t, err)
	assert.Equal(t, ServerError{Code: "rate_limited", Message: "slow down"}, ev)
}

func TestDecodeAck(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"ack"}`))
	require.NoError(t, err)
	assert.Equal(t, Ack{}, ev)
}

func TestDecodeUnknownType(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"typing_indicator","messageId":"m9"}`))
	require.NoError(t, err)
	assert.Equal(t, Unknown{Kind: "typing_indicator"}, ev)
}

func TestDecodePlainTextFallback(t *testing.T) {
	ev, err := Decode([]byte("Your balance is $100."))
	require.NoError(t, err)
	assert.Equal(t, Text{Content: "Your balance is $100."}, ev)
}

func TestDecodeMalformed(t *testing.T) {
	cases := map[string]string{
		"missing type":                 `{"messageId":"m1"}`,
		"chunk without messageId":      `{"type":"chunk","delta":"x"}`,
		"complete without messageId":   `{"type":"complete"}`,
		"request without id":           `{"type":"confirmation_request","action":"transfer"}`,
		"request without action":       `{"type":"confirmation_request","id":"r1"}`,
		"result without requestId":     `{"type":"confirmation_result","outcome":"success"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(raw))
			assert.ErrorIs(t, err, ErrMalformedFrame)
		})
	}
}

func TestDecodeInvalidBytes(t *testing.T) {
	_, err := Decode([]byte{0xff, 0xfe, 0x00})
	assert.ErrorIs(t, err, ErrMalformedFrame)
}

func TestEncodeMessage(t *testing.T) {
	raw, err := EncodeMessage("What's my balance?")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "message", got["type"])
	assert.Equal(t, "What's my balance?", got["content"])
}

func TestEncodeDecision(t *testing.T) {
	raw, err := EncodeDecision("r1", "reject")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "confirmation_decision", got["type"])
	assert.Equal(t, "r1", got["requestId"])
	assert.Equal(t, "reject", got["decision"])
}
