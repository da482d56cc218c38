package components

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/liminalcash/nimchat/ui/styles"
)

// The assistant replies in a small markdown subset: headings, bullet and
// numbered lists (transaction listings, rate tables), fenced and inline code,
// bold amounts, italics and the occasional link.
var (
	boldRe    = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe  = regexp.MustCompile(`_([^_]+)_`)
	codeRe    = regexp.MustCompile("`([^`]+)`")
	linkRe    = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	orderedRe = regexp.MustCompile(`^(\d+)\.\s+(.*)`)
)

// RenderMarkdown styles one assistant reply for the terminal. Unrecognized
// constructs pass through as plain text.
func RenderMarkdown(text string) string {
	var b strings.Builder
	inCode := false

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "```") {
			inCode = !inCode
			continue
		}
		if inCode {
			b.WriteString(styles.CodeBlockStyle().Render(line) + "\n")
			continue
		}

		if heading, ok := cutHeading(line); ok {
			b.WriteString(styles.HeadingStyle().Render(renderInline(heading)) + "\n")
			continue
		}

		if item, ok := strings.CutPrefix(line, "- "); ok {
			b.WriteString(styles.ListItemStyle().Render("• "+renderInline(item)) + "\n")
			continue
		}
		if item, ok := strings.CutPrefix(line, "* "); ok {
			b.WriteString(styles.ListItemStyle().Render("• "+renderInline(item)) + "\n")
			continue
		}
		if m := orderedRe.FindStringSubmatch(line); m != nil {
			b.WriteString(styles.ListItemStyle().Render(m[1]+". "+renderInline(m[2])) + "\n")
			continue
		}

		b.WriteString(renderInline(line) + "\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func cutHeading(line string) (string, bool) {
	for _, prefix := range []string{"### ", "## ", "# "} {
		if heading, ok := strings.CutPrefix(line, prefix); ok {
			return heading, true
		}
	}
	return "", false
}

// renderInline strips the marks and applies the matching style. Code spans
// are swapped out for placeholders first so their content is never re-parsed
// as emphasis.
func renderInline(line string) string {
	var spans []string
	line = codeRe.ReplaceAllStringFunc(line, func(m string) string {
		spans = append(spans, styles.CodeStyle().Render(strings.Trim(m, "`")))
		return "\x00" + strconv.Itoa(len(spans)-1) + "\x00"
	})

	line = linkRe.ReplaceAllStringFunc(line, func(m string) string {
		parts := linkRe.FindStringSubmatch(m)
		return styles.LinkStyle().Render(parts[1])
	})
	line = boldRe.ReplaceAllStringFunc(line, func(m string) string {
		return styles.BoldStyle().Render(strings.Trim(m, "*"))
	})
	line = italicRe.ReplaceAllStringFunc(line, func(m string) string {
		return styles.ItalicStyle().Render(strings.Trim(m, "_"))
	})

	for i, span := range spans {
		line = strings.Replace(line, "\x00"+strconv.Itoa(i)+"\x00", span, 1)
	}
	return line
}
