package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdownHeadings(t *testing.T) {
	out := RenderMarkdown("# Your accounts\n## Savings\n### Flexible vault")

	assert.NotContains(t, out, "#")
	assert.Contains(t, out, "Your accounts")
	assert.Contains(t, out, "Savings")
	assert.Contains(t, out, "Flexible vault")
}

func TestRenderMarkdownLists(t *testing.T) {
	out := RenderMarkdown("- sent $20 to alice\n* received $5\n1. flexible vault\n2. locked vault")

	assert.Contains(t, out, "• sent $20 to alice")
	assert.Contains(t, out, "• received $5")
	assert.Contains(t, out, "1. flexible vault")
	assert.Contains(t, out, "2. locked vault")
	assert.NotContains(t, out, "- sent")
	assert.NotContains(t, out, "* received")
}

func TestRenderMarkdownInline(t *testing.T) {
	out := RenderMarkdown("Your balance is **$1,250.00** in _USD_ via `balance`")

	assert.NotContains(t, out, "**")
	assert.NotContains(t, out, "_USD_")
	assert.NotContains(t, out, "`")
	assert.Contains(t, out, "$1,250.00")
	assert.Contains(t, out, "USD")
	assert.Contains(t, out, "balance")
}

func TestRenderMarkdownLinks(t *testing.T) {
	out := RenderMarkdown("See [rates](https://liminal.cash/rates) for details")

	assert.Contains(t, out, "rates")
	assert.NotContains(t, out, "https://liminal.cash/rates")
	assert.NotContains(t, out, "[")
}

func TestRenderMarkdownCodeBlock(t *testing.T) {
	out := RenderMarkdown("Breakdown:\n```\ndeposit 100\nwithdraw 40\n```\nDone.")

	assert.NotContains(t, out, "```")
	assert.Contains(t, out, "deposit 100")
	assert.Contains(t, out, "withdraw 40")
	assert.Contains(t, out, "Done.")
}

func TestRenderMarkdownPlainTextUntouched(t *testing.T) {
	in := "You have 3 pending transactions."
	assert.Equal(t, in, RenderMarkdown(in))
}

func TestRenderMarkdownInlineCodeNotReparsed(t *testing.T) {
	out := RenderMarkdown("run `send **all**` carefully")

	// Emphasis marks inside inline code stay literal.
	assert.Contains(t, out, "send **all**")
	assert.True(t, strings.Contains(out, "carefully"))
}
