package components

import (
	"strings"

	"github.com/liminalcash/nimchat/internal/models"
	"github.com/liminalcash/nimchat/ui/styles"
)

func RenderStatus(status string, connState models.ConnectionState, loading bool, loadingDots int, width int) string {
	statusStyle := styles.StatusStyle(width)

	statusContent := "[" + connState.String() + "] " + status
	if loading {
		statusContent += strings.Repeat(".", loadingDots)
	}

	return statusStyle.Render(statusContent)
}
