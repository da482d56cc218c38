package update

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/liminalcash/nimchat/internal/eventbus"
	"github.com/liminalcash/nimchat/internal/models"
)

// HandleKeyMsgWithEventBus handles keyboard input using event bus. While a
// confirmation is pending the input field is locked and only the verdict
// keys are accepted.
func HandleKeyMsgWithEventBus(appModel *models.AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus) tea.Cmd {
	if appModel.PendingConfirmation != nil {
		return handleConfirmationKey(appModel, keyMsg, eb)
	}

	switch keyMsg.String() {
	case "ctrl+c":
		return tea.Quit
	case "enter":
		if strings.TrimSpace(appModel.Input) != "" {
			// Send event to core via event bus with error handling
			if err := eb.SendToCore(eventbus.SendMessageEvent{Message: appModel.Input}); err != nil {
				appModel.Status = "Error sending message: " + err.Error()
				return nil
			}

			// Only manage local UI state - clear input
			appModel.Input = ""
			return nil
		}
	case "backspace":
		if len(appModel.Input) > 0 {
			appModel.Input = appModel.Input[:len(appModel.Input)-1]
		}
	default:
		if len(keyMsg.Runes) > 0 {
			appModel.Input += string(keyMsg.Runes)
		}
	}
	return nil
}

func handleConfirmationKey(appModel *models.AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus) tea.Cmd {
	switch keyMsg.String() {
	case "ctrl+c":
		return tea.Quit
	case "y", "Y":
		if err := eb.SendToCore(eventbus.ConfirmationDecisionEvent{Decision: models.Approve}); err != nil {
			appModel.Status = "Error sending decision: " + err.Error()
		}
	case "n", "N":
		if err := eb.SendToCore(eventbus.ConfirmationDecisionEvent{Decision: models.Reject}); err != nil {
			appModel.Status = "Error sending decision: " + err.Error()
		}
	case "esc":
		if err := eb.SendToCore(eventbus.CancelConfirmationEvent{}); err != nil {
			appModel.Status = "Error sending decision: " + err.Error()
		}
	}
	return nil
}

// CoreEventMsg wraps core events for Bubble Tea
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

// HandleCoreEvent processes events from the core
func HandleCoreEvent(appModel *models.AppModel, coreEventMsg CoreEventMsg) tea.Cmd {
	switch event := coreEventMsg.Event.(type) {
	case eventbus.StateUpdateEvent:
		// Update UI state from core state
		appModel.Messages = event.View.Transcript
		appModel.Loading = event.View.IsStreaming
		appModel.ConnState = event.View.ConnectionState
		appModel.PendingConfirmation = event.View.PendingConfirmation
		appModel.Status = statusLine(appModel, event.Err)
	}

	return nil
}

func statusLine(appModel *models.AppModel, err error) string {
	if err != nil {
		return "Error: " + err.Error()
	}
	if appModel.PendingConfirmation != nil {
		return "Awaiting confirmation"
	}
	switch appModel.ConnState {
	case models.Connected:
		if appModel.Loading {
			return "Assistant is replying"
		}
		return "Ready"
	case models.Connecting:
		return "Connecting"
	case models.Reconnecting:
		return "Reconnecting"
	default:
		return "Disconnected"
	}
}

type TickMsg time.Time

func TickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
}

func HandleTickMsg(appModel *models.AppModel) tea.Cmd {
	// Only handle UI animations - loading dots
	if appModel.Loading {
		appModel.LoadingDots = (appModel.LoadingDots + 1) % 4
	}
	return TickCmd()
}
