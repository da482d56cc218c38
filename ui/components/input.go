package components

import (
	"github.com/liminalcash/nimchat/ui/styles"
)

func RenderInput(input string, locked bool, width int) string {
	inputStyle := styles.InputStyle(width)
	if locked {
		return inputStyle.Render(styles.ConfirmationHintStyle().Render("input locked while confirmation is pending"))
	}
	return inputStyle.Render(input)
}
