package ui

import (
	"fmt"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	"github.com/mattn/go-runewidth"
)

// renderMarkdown renders assistant text for the terminal at the current
// viewport width. User and system text stays plain.
func renderMarkdown(content string, width int) string {
	if width < 20 {
		return content
	}
	rendered := markdown.Render(content, width-4, 0)
	return strings.TrimRight(string(rendered), "\n")
}

func (c *ChatView) buildTranscript() string {
	if len(c.messages) == 0 {
		return DimStyle.Render("No messages yet. Speak or type a request.")
	}

	var content strings.Builder

	for _, msg := range c.messages {
		timestamp := DimStyle.Render(msg.at.Format("[15:04]"))

		switch msg.role {
		case roleUser:
			content.WriteString(formatUserMessage(timestamp, UserStyle.Render("You"), msg.text))
		case roleAssistant:
			content.WriteString(fmt.Sprintf("%s %s\n%s\n\n", timestamp, AssistantStyle.Render("Cognito"), msg.rendered))
		default:
			content.WriteString(fmt.Sprintf("%s %s\n\n", timestamp, DimStyle.Render(msg.text)))
		}
	}

	if c.waiting {
		content.WriteString(fmt.Sprintf("%s %s\n", c.spin.View(), DimStyle.Render("Thinking...")))
	}

	return content.String()
}

// formatUserMessage renders a user turn with a vertical bar gutter.
func formatUserMessage(timestamp, role, content string) string {
	greenBold := "\x1b[32;1m"
	reset := "\x1b[0m"
	bar := greenBold + "┃" + reset

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s %s %s\n", bar, timestamp, role))
	for _, line := range strings.Split(content, "\n") {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}
	result.WriteString("\n")

	return result.String()
}

// statusLine fits the session status into one row, truncating the model
// name before anything else.
func statusLine(state, model string, width int) string {
	left := fmt.Sprintf(" %s ", state)
	right := fmt.Sprintf(" %s ", runewidth.Truncate(model, max(width/2, 10), "..."))

	gap := width - runewidth.StringWidth(left) - runewidth.StringWidth(right)
	if gap < 1 {
		gap = 1
	}

	return StatusStyle.Render(left + strings.Repeat(" ", gap) + right)
}
