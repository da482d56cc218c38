package eventbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liminalcash/nimchat/internal/models"
)

func TestSendAndReceiveBothDirections(t *testing.T) {
	eb := NewEventBus()
	defer eb.Close()

	require.NoError(t, eb.SendToCore(SendMessageEvent{Message: "hi"}))
	assert.Equal(t, SendMessageEvent{Message: "hi"}, <-eb.UIToCore())

	require.NoError(t, eb.SendToUI(StateUpdateEvent{View: models.ClientView{}}))
	_, ok := (<-eb.CoreToUI()).(StateUpdateEvent)
	assert.True(t, ok)
}

func TestFullChannelReportsToCallback(t *testing.T) {
	eb := NewEventBus()
	defer eb.Close()

	var reported []EventBusError
	eb.SetErrorCallback(func(e EventBusError) { reported = append(reported, e) })

	// Nothing drains coreToUI, so the buffer eventually rejects.
	var sendErr error
	for i := 0; i < 101; i++ {
		if sendErr = eb.SendToUI(StateUpdateEvent{}); sendErr != nil {
			break
		}
	}

	require.Error(t, sendErr)
	require.NotEmpty(t, reported)
	assert.Equal(t, "SendToUI", reported[0].Operation)
	assert.ErrorContains(t, reported[0], "channel is full")
}

func TestCircuitBreakerOpensAfterRepeatedFailures(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Hour)

	assert.False(t, cb.IsOpen())
	for i := 0; i < 3; i++ {
		cb.RecordFailure()
	}
	assert.True(t, cb.IsOpen())

	cb.RecordSuccess()
	assert.False(t, cb.IsOpen())
}

func TestCloseIsIdempotent(t *testing.T) {
	eb := NewEventBus()
	eb.Close()
	eb.Close()

	_, ok := <-eb.UIToCore()
	assert.False(t, ok)
}
