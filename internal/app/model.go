package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/liminalcash/nimchat/internal/update"
	"github.com/liminalcash/nimchat/ui/components"
)

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		update.TickCmd(),
		m.dispatcher.ListenForUIEvents(),
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle core events and continue listening
	if coreEvent, ok := msg.(update.CoreEventMsg); ok {
		cmd := update.HandleCoreEvent(&m.appModel, coreEvent)
		return m, tea.Batch(cmd, m.dispatcher.ListenForUIEvents())
	}

	// Handle other events through the event bus
	eventBus := m.dispatcher.GetEventBus()
	cmd := update.HandleUpdateWithEventBus(&m.appModel, msg, eventBus)

	return m, cmd
}

func (m *AppModel) View() string {
	var b strings.Builder

	b.WriteString(components.RenderMessages(m.appModel.Messages))
	b.WriteString(components.RenderConfirmation(m.appModel.PendingConfirmation, m.appModel.Width))
	b.WriteString(components.RenderInput(m.appModel.Input, m.appModel.PendingConfirmation != nil, m.appModel.Width))
	b.WriteString("\n")
	b.WriteString(components.RenderStatus(m.appModel.Status, m.appModel.ConnState, m.appModel.Loading, m.appModel.LoadingDots, m.appModel.Width))

	return b.String()
}
