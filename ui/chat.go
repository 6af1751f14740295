package ui

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cognito/model"
	"cognito/storage"
	"cognito/voice"
)

const (
	roleUser      = "user"
	roleAssistant = "assistant"
	roleSystem    = "system"
)

type chatMessage struct {
	role     string
	text     string
	rendered string
	at       time.Time
}

// Controller is the slice of the assistant core the chat view drives
// directly, outside the utterance/response flow.
type Controller interface {
	ResetSession()
	GetModel() string
	SessionID() string
	SwitchSession(id string) error
	History() []model.Message
}

type responseMsg voice.Response

type flashClearMsg struct{}

// ChatView is a typed front end to the voice loop: typed lines go in as
// utterances, responses render as assistant turns. It never calls the
// model or tools itself.
type ChatView struct {
	loop *voice.Loop
	core Controller

	store  *storage.SessionStorage
	search *storage.SearchIndex
	audit  *storage.AuditLog

	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model

	messages []chatMessage
	waiting  bool
	flash    string

	browsing bool
	renaming bool
	sessions []storage.SessionMetadata
	selected int
	filter   textinput.Model

	overlay string

	width  int
	height int
	ready  bool
}

func NewChatView(loop *voice.Loop, core Controller, store *storage.SessionStorage, search *storage.SearchIndex, audit *storage.AuditLog) *ChatView {
	input := textinput.New()
	input.Placeholder = "Ask Cognito..."
	input.Focus()
	input.CharLimit = 4000

	filter := textinput.New()
	filter.Placeholder = "Filter sessions..."
	filter.CharLimit = 100

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(accentColor)

	return &ChatView{
		loop:   loop,
		core:   core,
		store:  store,
		search: search,
		audit:  audit,
		input:  input,
		filter: filter,
		spin:   spin,

		// A resumed conversation shows its transcript right away;
		// markdown renders once the first window size arrives.
		messages: chatMessagesFromHistory(core.History(), 0),
	}
}

func (c *ChatView) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, c.awaitResponse())
}

// awaitResponse blocks on the voice loop's output channel until the next
// response lands.
func (c *ChatView) awaitResponse() tea.Cmd {
	return func() tea.Msg {
		resp, ok := <-c.loop.Out()
		if !ok {
			return tea.QuitMsg{}
		}
		return responseMsg(resp)
	}
}

func (c *ChatView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
		if !c.ready {
			c.viewport = viewport.New(msg.Width, msg.Height-4)
			c.ready = true
		} else {
			c.viewport.Width = msg.Width
			c.viewport.Height = msg.Height - 4
		}
		c.input.Width = msg.Width - 4
		c.rerenderAll()
		c.refresh(true)
		return c, nil

	case tea.KeyMsg:
		if c.overlay != "" {
			switch msg.String() {
			case "esc", "q", "ctrl+t":
				c.overlay = ""
			}
			return c, nil
		}
		if c.browsing {
			return c.handleBrowserKey(msg)
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			c.loop.Close()
			return c, tea.Quit

		case "enter":
			text := c.input.Value()
			if text == "" || c.waiting {
				return c, nil
			}
			if !c.loop.Submit(voice.Utterance{Text: text}) {
				return c.setFlash("Busy, try again in a moment")
			}
			c.input.Reset()
			c.waiting = true
			c.append(chatMessage{role: roleUser, text: text, at: time.Now()})
			return c, c.spin.Tick

		case "ctrl+r":
			if c.waiting {
				return c, nil
			}
			c.core.ResetSession()
			c.messages = nil
			c.refresh(true)
			return c.setFlash("Session reset")

		case "ctrl+y":
			if last := c.lastAssistant(); last != "" {
				if err := clipboard.WriteAll(last); err != nil {
					return c.setFlash("Copy failed")
				}
				return c.setFlash("Copied last reply")
			}
			return c, nil

		case "ctrl+o":
			if c.waiting {
				return c, nil
			}
			return c.openBrowser()

		case "ctrl+t":
			return c.showToolActivity()
		}

	case responseMsg:
		c.waiting = false
		c.append(chatMessage{role: roleAssistant, text: msg.Text, at: time.Now()})
		if msg.Shutdown {
			return c, tea.Quit
		}
		return c, c.awaitResponse()

	case spinner.TickMsg:
		var cmd tea.Cmd
		c.spin, cmd = c.spin.Update(msg)
		if c.waiting {
			c.refresh(false)
			return c, cmd
		}
		return c, nil

	case flashClearMsg:
		c.flash = ""
		return c, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	cmds = append(cmds, cmd)
	c.viewport, cmd = c.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return c, tea.Batch(cmds...)
}

func (c *ChatView) View() string {
	if !c.ready {
		return "Starting..."
	}

	state := "idle"
	if c.waiting {
		state = "thinking"
	}

	status := statusLine(state, c.core.GetModel(), c.width)
	if c.flash != "" {
		status = FlashStyle.Render(" " + c.flash)
	}

	help := HelpStyle.Render(" enter send  ctrl+o sessions  ctrl+t tools  ctrl+y copy  ctrl+r reset  esc quit")

	body := c.viewport.View()
	if c.overlay != "" {
		body = c.overlay
	} else if c.browsing {
		body = c.renderBrowser()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		body,
		status,
		"> "+c.input.View(),
		help,
	)
}

func (c *ChatView) append(m chatMessage) {
	if m.role == roleAssistant {
		m.rendered = renderMarkdown(m.text, c.width)
	}
	c.messages = append(c.messages, m)
	c.refresh(true)
}

func (c *ChatView) rerenderAll() {
	for i := range c.messages {
		if c.messages[i].role == roleAssistant {
			c.messages[i].rendered = renderMarkdown(c.messages[i].text, c.width)
		}
	}
}

func (c *ChatView) refresh(gotoBottom bool) {
	if !c.ready {
		return
	}
	c.viewport.SetContent(c.buildTranscript())
	if gotoBottom {
		c.viewport.GotoBottom()
	}
}

func (c *ChatView) lastAssistant() string {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].role == roleAssistant {
			return c.messages[i].text
		}
	}
	return ""
}

func (c *ChatView) setFlash(text string) (tea.Model, tea.Cmd) {
	c.flash = text
	return c, tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return flashClearMsg{}
	})
}
