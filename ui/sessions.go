package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"cognito/model"
	"cognito/storage"
)

// chatMessagesFromHistory projects conversation turns into displayable
// chat messages. Tool traffic stays hidden, same as during a live
// exchange.
func chatMessagesFromHistory(history []model.Message, width int) []chatMessage {
	var msgs []chatMessage
	for _, m := range history {
		switch m.Role {
		case model.RoleUser:
			msgs = append(msgs, chatMessage{role: roleUser, text: m.Content, at: m.Timestamp})
		case model.RoleAssistant:
			if m.IsToolRequest() || strings.TrimSpace(m.Content) == "" {
				continue
			}
			msgs = append(msgs, chatMessage{
				role:     roleAssistant,
				text:     m.Content,
				rendered: renderMarkdown(m.Content, width),
				at:       m.Timestamp,
			})
		}
	}
	return msgs
}

func (c *ChatView) openBrowser() (tea.Model, tea.Cmd) {
	if c.search == nil {
		return c.setFlash("No session store configured")
	}
	c.browsing = true
	c.renaming = false
	c.selected = 0
	c.filter.Reset()
	c.filter.Focus()
	c.input.Blur()
	c.reloadSessions("")
	return c, textinput.Blink
}

func (c *ChatView) closeBrowser() {
	c.browsing = false
	c.renaming = false
	c.filter.Blur()
	c.input.Focus()
}

// reloadSessions refreshes the list, fuzzy-filtered by name when a query
// is present.
func (c *ChatView) reloadSessions(query string) {
	list, err := c.search.FindSessionsByName(query)
	if err != nil {
		c.flash = "Could not list sessions"
		return
	}
	c.sessions = list
	if c.selected >= len(list) {
		c.selected = len(list) - 1
	}
	if c.selected < 0 {
		c.selected = 0
	}
}

func (c *ChatView) handleBrowserKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if c.renaming {
			c.renaming = false
			c.filter.Reset()
			c.reloadSessions("")
			return c, nil
		}
		c.closeBrowser()
		return c, nil

	case "up":
		if c.selected > 0 {
			c.selected--
		}
		return c, nil

	case "down":
		if c.selected < len(c.sessions)-1 {
			c.selected++
		}
		return c, nil

	case "enter":
		if c.selected < 0 || c.selected >= len(c.sessions) {
			return c, nil
		}
		sel := c.sessions[c.selected]

		if c.renaming {
			name := strings.TrimSpace(c.filter.Value())
			if name == "" {
				return c, nil
			}
			if err := c.store.RenameSession(sel.ID, name); err != nil {
				return c.setFlash("Rename failed")
			}
			c.renaming = false
			c.filter.Reset()
			c.reloadSessions("")
			return c.setFlash("Renamed to " + name)
		}

		if sel.ID == c.core.SessionID() {
			c.closeBrowser()
			return c, nil
		}
		if err := c.core.SwitchSession(sel.ID); err != nil {
			return c.setFlash("Could not load session")
		}
		c.messages = chatMessagesFromHistory(c.core.History(), c.width)
		c.closeBrowser()
		c.refresh(true)
		return c.setFlash("Resumed " + sel.Name)

	case "ctrl+n":
		if c.selected >= 0 && c.selected < len(c.sessions) {
			c.renaming = true
			c.filter.SetValue(c.sessions[c.selected].Name)
			c.filter.CursorEnd()
		}
		return c, nil

	case "ctrl+d":
		if c.selected < 0 || c.selected >= len(c.sessions) {
			return c, nil
		}
		sel := c.sessions[c.selected]
		if sel.ID == c.core.SessionID() {
			return c.setFlash("Cannot delete the active session")
		}
		if err := c.store.Delete(sel.ID); err != nil {
			return c.setFlash("Delete failed")
		}
		c.reloadSessions(c.filter.Value())
		return c.setFlash("Deleted " + sel.Name)

	case "ctrl+e":
		if c.selected < 0 || c.selected >= len(c.sessions) {
			return c, nil
		}
		sel := c.sessions[c.selected]
		path := storage.GenerateExportPath(sel.Name)
		if err := c.store.ExportToJSON(sel.ID, path); err != nil {
			return c.setFlash("Export failed")
		}
		return c.setFlash("Exported to " + path)
	}

	var cmd tea.Cmd
	c.filter, cmd = c.filter.Update(msg)
	if !c.renaming {
		c.reloadSessions(c.filter.Value())
		c.selected = 0
	}
	return c, cmd
}

func (c *ChatView) renderBrowser() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(" Sessions") + "\n\n")
	prompt := " filter: "
	if c.renaming {
		prompt = " rename: "
	}
	b.WriteString(prompt + c.filter.View() + "\n\n")

	if len(c.sessions) == 0 {
		b.WriteString(DimStyle.Render("  No saved sessions") + "\n")
	}
	for i, meta := range c.sessions {
		cursor := "  "
		if i == c.selected {
			cursor = "> "
		}
		marker := " "
		if meta.ID == c.core.SessionID() {
			marker = "*"
		}
		line := fmt.Sprintf("%s%s %-40s %3d msgs  %s",
			cursor, marker,
			truncateName(meta.Name, 40),
			meta.MessageCount,
			meta.UpdatedAt.Format("Jan 2 15:04"),
		)
		if i == c.selected {
			b.WriteString(UserStyle.Render(line) + "\n")
		} else {
			b.WriteString(line + "\n")
		}
	}

	b.WriteString("\n" + HelpStyle.Render(" enter resume  ctrl+n rename  ctrl+d delete  ctrl+e export  esc back"))
	return b.String()
}

func truncateName(name string, limit int) string {
	if len(name) <= limit {
		return name
	}
	return name[:limit-3] + "..."
}

func (c *ChatView) showToolActivity() (tea.Model, tea.Cmd) {
	if c.audit == nil {
		return c.setFlash("No audit log configured")
	}
	recent, err := c.audit.Recent(20)
	if err != nil {
		return c.setFlash("Could not read tool activity")
	}
	counts, err := c.audit.CountByStatus()
	if err != nil {
		return c.setFlash("Could not read tool activity")
	}
	c.overlay = buildToolActivity(recent, counts)
	return c, nil
}

// buildToolActivity renders the audit log tail with per-status totals.
func buildToolActivity(recent []storage.ToolInvocation, counts map[string]int) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(" Tool activity") + "\n\n")

	if len(counts) > 0 {
		statuses := make([]string, 0, len(counts))
		for status := range counts {
			statuses = append(statuses, status)
		}
		sort.Strings(statuses)
		parts := make([]string, len(statuses))
		for i, status := range statuses {
			parts[i] = fmt.Sprintf("%s %d", status, counts[status])
		}
		b.WriteString(" " + DimStyle.Render(strings.Join(parts, "   ")) + "\n\n")
	}

	if len(recent) == 0 {
		b.WriteString(DimStyle.Render("  No tool calls yet") + "\n")
	}
	for _, inv := range recent {
		b.WriteString(fmt.Sprintf("  %s  %-16s %-10s %5dms\n",
			inv.CreatedAt.Format("15:04:05"),
			inv.Tool,
			inv.Status,
			inv.DurationMS,
		))
	}

	b.WriteString("\n" + HelpStyle.Render(" esc close"))
	return b.String()
}
