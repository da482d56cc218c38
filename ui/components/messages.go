package components

import (
	"strings"

	"github.com/liminalcash/nimchat/internal/models"
	"github.com/liminalcash/nimchat/ui/styles"
)

func RenderMessages(messages []models.Message) string {
	var b strings.Builder

	userStyle := styles.UserStyle()
	assistantStyle := styles.AssistantStyle()
	programStyle := styles.ProgramStyle()

	for _, msg := range messages {
		switch msg.Role {
		case models.User:
			b.WriteString(userStyle.Render("You: "+msg.Content) + "\n\n")
		case models.Assistant:
			content := RenderMarkdown(msg.Content)
			if msg.Streaming {
				content += " ▌"
			}
			b.WriteString(assistantStyle.Render("Assistant: "+content) + "\n\n")
		case models.Program:
			b.WriteString(programStyle.Render(msg.Content) + "\n\n")
		}
	}

	return b.String()
}
