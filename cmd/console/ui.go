package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/darkstation/chronicles/pkg/state"
)

const (
	AgentName       = "Narrator"
	PlaceHolderText = "Type a command here..."
)

var classChoices = []string{"cybernetic", "psionic", "hunter"}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	session      *SessionResponse
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool

	// Conversation transcript kept client-side; the API only returns
	// per-command replies and snapshots.
	transcript []transcriptEntry
	lastReply  string

	aiEnabled bool
	backend   string
	backends  []string

	// Class selection state
	showClassModal  bool
	selectedClass   int
	creatingSession bool

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type transcriptEntry struct {
	speaker string // "user" or "narrator"
	text    string
}

type sessionCreatedMsg struct {
	session *SessionResponse
	err     error
}

type commandResponseMsg struct {
	response *CommandResponse
	err      error
}

type backendMsg struct {
	backend *BackendResponse
	err     error
}

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:          cfg,
		client:          client,
		textarea:        ta,
		chatViewport:    chatVp,
		metaViewport:    metaVp,
		ready:           false,
		showClassModal:  true,
		creatingSession: true,
	}
}

func (m *ConsoleUI) writeMetadata() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("STATION STATUS") + "\n\n")

	if m.session != nil {
		content.WriteString("Session:\n")
		content.WriteString(m.session.ID[:8] + "...\n\n")
	}

	if gs := m.gameState(); gs != nil {
		content.WriteString("Location:\n")
		content.WriteString(gs.CurrentRoom + "\n\n")

		if gs.CharacterClass != "" {
			content.WriteString("Class:\n")
			content.WriteString(gs.CharacterClass + "\n\n")
		}

		if len(gs.PlayerStats) > 0 {
			content.WriteString("Stats:\n")
			for _, key := range []string{"health", "energy", "level"} {
				if v, ok := gs.PlayerStats[key]; ok {
					content.WriteString(fmt.Sprintf("• %s: %v\n", key, v))
				}
			}
			content.WriteString("\n")
		}

		content.WriteString("Inventory:\n")
		if len(gs.Inventory) == 0 {
			content.WriteString("Empty\n\n")
		} else {
			for _, item := range gs.Inventory {
				content.WriteString("• " + item + "\n")
			}
			content.WriteString("\n")
		}

		if len(gs.AvailableExits) > 0 {
			content.WriteString("Exits:\n")
			content.WriteString(strings.Join(gs.AvailableExits, ", ") + "\n\n")
		}
	}

	content.WriteString("AI narrator:\n")
	if m.aiEnabled {
		content.WriteString("on (" + m.backend + ")\n\n")
	} else {
		content.WriteString("off\n\n")
	}

	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Ctrl+Y: Copy reply\n")
	content.WriteString("• Enter: Send\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• /ai: Toggle AI\n")
	content.WriteString("• /backend <name>\n")

	return content.String()
}

func (m *ConsoleUI) gameState() *state.PromptState {
	if m.session == nil || m.session.GameState == nil {
		return nil
	}
	return m.session.GameState
}

// writeChatContent rebuilds the chat panel from the transcript for the
// current viewport width.
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6 // Account for left(3) + right(3) padding

	var content strings.Builder
	content.WriteString(titleStyle.Render("DARK STATION CHRONICLES") + "\n\n")
	content.WriteString("Type your commands below to explore the station.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(chatWidth-6, 1))) + "\n\n")

	for _, entry := range m.transcript {
		switch entry.speaker {
		case "user":
			content.WriteString(userStyle.Render("You: ") + wordwrap.String(entry.text, chatWidth-6) + "\n\n")
		default:
			prefix := narratorStyle.Render(AgentName + ": ")
			content.WriteString(prefix + wordwrap.String(entry.text, chatWidth-len(AgentName)-2) + "\n\n")
		}
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(m.startSession(), progressTick())
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle class modal first
	if m.showClassModal {
		return m.updateClassModal(msg)
	}

	// Handle quit modal second
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		// Pass mouse events to the chat viewport for scrolling; the
		// component ignores events outside its bounds.
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.writeChatContent()
		m.metaViewport.SetContent(m.writeMetadata())
		m.ready = true

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyCtrlY:
			if m.lastReply != "" {
				_ = clipboard.WriteAll(m.lastReply)
			}
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			if handled, model, cmd := m.handleLocalCommand(input); handled {
				return model, cmd
			}

			m.textarea.Reset()
			m.loading = true
			m.progressTick = 0 // Reset progress animation

			m.transcript = append(m.transcript, transcriptEntry{speaker: "user", text: input})
			m.writeChatContent()

			return m, tea.Batch(m.sendPlayerCommand(input, ""), progressTick())
		}

	case commandResponseMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.writeChatContent()
			currentContent := m.chatViewport.View()
			errorMsg := errorStyle.Render("Error: "+msg.err.Error()) + "\n\n"
			m.chatViewport.SetContent(currentContent + errorMsg)
		} else {
			m.lastReply = msg.response.Message
			m.transcript = append(m.transcript, transcriptEntry{speaker: "narrator", text: msg.response.Message})
			if msg.response.GameState != nil {
				m.session.GameState = msg.response.GameState
			}
			m.writeChatContent()
			m.metaViewport.SetContent(m.writeMetadata())
		}
		m.chatViewport.GotoBottom()
		return m, nil

	case backendMsg:
		if msg.err != nil {
			m.transcript = append(m.transcript, transcriptEntry{
				speaker: "narrator",
				text:    "Backend switch failed: " + msg.err.Error(),
			})
		} else {
			m.backend = msg.backend.Backend
			if len(msg.backend.Backends) > 0 {
				m.backends = msg.backend.Backends
			}
			m.transcript = append(m.transcript, transcriptEntry{
				speaker: "narrator",
				text:    "Now narrating with " + m.backend + ".",
			})
		}
		m.writeChatContent()
		m.metaViewport.SetContent(m.writeMetadata())
		return m, nil

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}
	}

	// Update components for non-mouse events
	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m *ConsoleUI) resize() {
	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(chatWidth - 4)
}

// handleLocalCommand intercepts slash commands that the console resolves
// itself. Returns false when the input should go to the API unchanged.
func (m ConsoleUI) handleLocalCommand(input string) (bool, tea.Model, tea.Cmd) {
	if !strings.HasPrefix(input, "/") {
		return false, m, nil
	}

	fields := strings.Fields(strings.ToLower(input))

	switch fields[0] {
	case "/help":
		helpText := `
Commands:
• north/south/east/west - Move around the station
• look, examine, take, inventory - Interact with rooms
• /select-class <name> - Choose a character class
• /ai - Toggle AI narration
• /backend <name> - Switch AI backend
• Ctrl+Y - Copy the last reply
• Ctrl+C - Quit
`
		currentContent := m.chatViewport.View()
		m.chatViewport.SetContent(currentContent + titleStyle.Render("Help:") + helpText + "\n")
		m.chatViewport.GotoBottom()
		m.textarea.Reset()
		return true, m, nil

	case "/ai":
		m.aiEnabled = !m.aiEnabled
		m.metaViewport.SetContent(m.writeMetadata())
		m.textarea.Reset()
		return true, m, nil

	case "/backend":
		m.textarea.Reset()
		if len(fields) < 2 {
			m.transcript = append(m.transcript, transcriptEntry{
				speaker: "narrator",
				text:    "Usage: /backend <name>. Available: " + strings.Join(m.backends, ", "),
			})
			m.writeChatContent()
			return true, m, nil
		}
		return true, m, m.requestBackendSwitch(fields[1])
	}

	// Unknown slash commands (like /select-class) go to the API.
	return false, m, nil
}

func (m ConsoleUI) sendPlayerCommand(command string, backend string) tea.Cmd {
	return func() tea.Msg {
		resp, err := sendCommand(m.client, m.config.APIBaseURL, m.session.ID, CommandRequest{
			Command: command,
			UseAI:   m.aiEnabled,
			Backend: backend,
		})
		return commandResponseMsg{resp, err}
	}
}

func (m ConsoleUI) requestBackendSwitch(name string) tea.Cmd {
	return func() tea.Msg {
		resp, err := switchBackend(m.client, m.config.APIBaseURL, m.session.ID, name)
		return backendMsg{resp, err}
	}
}

func (m ConsoleUI) startSession() tea.Cmd {
	return func() tea.Msg {
		session, err := createSession(m.client, m.config.APIBaseURL)
		return sessionCreatedMsg{session, err}
	}
}

func (m ConsoleUI) fetchBackend() tea.Cmd {
	return func() tea.Msg {
		resp, err := getBackend(m.client, m.config.APIBaseURL, m.session.ID)
		return backendMsg{resp, err}
	}
}

func (m ConsoleUI) updateClassModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case sessionCreatedMsg:
		m.creatingSession = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.session = msg.session
		if msg.session.Message != "" {
			m.transcript = append(m.transcript, transcriptEntry{speaker: "narrator", text: msg.session.Message})
		}
		return m, m.fetchBackend()

	case backendMsg:
		if msg.err == nil {
			m.backend = msg.backend.Backend
			m.backends = msg.backend.Backends
		}
		return m, nil

	case commandResponseMsg:
		// The class selection round-trip finished; enter the main UI.
		m.loading = false
		m.showClassModal = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.lastReply = msg.response.Message
			m.transcript = append(m.transcript, transcriptEntry{speaker: "narrator", text: msg.response.Message})
			if msg.response.GameState != nil {
				m.session.GameState = msg.response.GameState
			}
		}
		if m.width > 0 && m.height > 0 {
			m.resize()
		}
		m.writeChatContent()
		m.metaViewport.SetContent(m.writeMetadata())
		m.textarea.Focus()
		m.ready = true
		return m, textarea.Blink

	case tea.KeyMsg:
		if m.creatingSession {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}

		if m.err != nil {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyUp:
			if m.selectedClass > 0 {
				m.selectedClass--
			}
		case tea.KeyDown:
			if m.selectedClass < len(classChoices)-1 {
				m.selectedClass++
			}
		case tea.KeyEnter:
			class := classChoices[m.selectedClass]
			m.loading = true
			m.transcript = append(m.transcript, transcriptEntry{speaker: "user", text: "/select-class " + class})
			return m, tea.Batch(m.sendPlayerCommand("/select-class "+class, ""), progressTick())
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				if m.showClassModal {
					return m, nil
				}
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Leave the Station?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to abandon your exploration?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderClassModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	if m.creatingSession {
		content.WriteString(modalTitleStyle.Render("Boarding the Station..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Please wait while your session starts..."))
	} else if m.err != nil {
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("Failed to start session: %v", m.err)))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	} else if m.loading {
		content.WriteString(modalTitleStyle.Render("Waking Up..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Initializing your character..."))
	} else {
		content.WriteString(modalTitleStyle.Render("Select a Character Class"))
		content.WriteString("\n\n")

		for i, class := range classChoices {
			if i == m.selectedClass {
				content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", class)))
			} else {
				content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", class)))
			}
			content.WriteString("\n")
		}

		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showClassModal {
		return m.renderClassModal()
	}

	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-4, 1))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30 // fallback before sizing
	}
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
