package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/liminalcash/nimchat/internal/models"
	"github.com/liminalcash/nimchat/ui/styles"
)

// RenderConfirmation shows the pending sensitive action and the keys that
// resolve it. Rendered above the input field while a request is outstanding.
func RenderConfirmation(req *models.ConfirmationRequest, width int) string {
	if req == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("Confirm action: " + req.Action + "\n")

	// Stable ordering so the prompt doesn't jitter between renders
	keys := make([]string, 0, len(req.Params))
	for k := range req.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(fmt.Sprintf("  %s: %v\n", k, req.Params[k]))
	}

	b.WriteString("\n" + styles.ConfirmationHintStyle().Render("[y] approve  [n] reject  [esc] cancel"))

	return styles.ConfirmationStyle(width).Render(b.String()) + "\n"
}
