package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/muesli/termenv"

	"github.com/lox/tablevision/internal/server"
)

var CLI struct {
	Dir      string        `arg:"" type:"existingdir" help:"Directory to watch for new screenshots"`
	Server   string        `short:"s" default:"ws://localhost:8000/ws" help:"Analysis server websocket URL"`
	Interval time.Duration `short:"i" default:"1s" help:"Directory poll interval"`
	NoColor  bool          `help:"Disable colored output"`
	LogLevel string        `short:"l" default:"error" help:"Log level"`
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	frameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	actionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	waitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

// scanTickMsg asks the model to rescan the watch directory.
type scanTickMsg time.Time

// responseMsg carries one server response off the websocket.
type responseMsg struct {
	frame string
	resp  server.AnalyzeResponse
	err   error
}

type pendingFrame struct {
	name string
}

type model struct {
	dir      string
	interval time.Duration
	conn     *websocket.Conn
	logger   *log.Logger

	viewport viewport.Model
	spinner  spinner.Model

	seen      map[string]bool
	pending   []pendingFrame
	lines     []string
	responses chan responseMsg

	width       int
	height      int
	initialized bool
	quitting    bool
}

func newModel(dir string, interval time.Duration, conn *websocket.Conn, logger *log.Logger) *model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

	return &model{
		dir:       dir,
		interval:  interval,
		conn:      conn,
		logger:    logger.WithPrefix("watch"),
		viewport:  vp,
		spinner:   sp,
		seen:      make(map[string]bool),
		responses: make(chan responseMsg, 16),
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.scanTick(), m.waitForResponse())
}

func (m *model) scanTick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return scanTickMsg(t)
	})
}

// waitForResponse relays websocket responses into the update loop.
func (m *model) waitForResponse() tea.Cmd {
	return func() tea.Msg {
		return <-m.responses
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 2
		m.viewport.Height = msg.Height - 4
		m.initialized = true
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "up", "k":
			m.viewport.ScrollUp(1)
		case "down", "j":
			m.viewport.ScrollDown(1)
		}

	case scanTickMsg:
		m.scanDir()
		cmds = append(cmds, m.scanTick())

	case responseMsg:
		m.handleResponse(msg)
		cmds = append(cmds, m.waitForResponse())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// scanDir submits any screenshot not yet sent to the server.
func (m *model) scanDir() {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		m.appendLine(errStyle.Render(fmt.Sprintf("read dir: %v", err)))
		return
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".png", ".jpg", ".jpeg":
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if m.seen[name] {
			continue
		}
		m.seen[name] = true
		m.sendFrame(name)
	}
}

func (m *model) sendFrame(name string) {
	data, err := os.ReadFile(filepath.Join(m.dir, name))
	if err != nil {
		m.appendLine(errStyle.Render(fmt.Sprintf("%s: %v", name, err)))
		return
	}

	if err := m.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		m.appendLine(errStyle.Render(fmt.Sprintf("%s: send failed: %v", name, err)))
		return
	}

	m.pending = append(m.pending, pendingFrame{name: name})
	m.appendLine(frameStyle.Render(fmt.Sprintf("→ %s (%d bytes)", name, len(data))))
}

// handleResponse pairs a server response with the oldest pending
// frame. The server answers frames in order, so FIFO matching holds.
func (m *model) handleResponse(msg responseMsg) {
	name := "?"
	if len(m.pending) > 0 {
		name = m.pending[0].name
		m.pending = m.pending[1:]
	}

	if msg.err != nil {
		m.appendLine(errStyle.Render(fmt.Sprintf("✗ %s: %v", name, msg.err)))
		return
	}

	resp := msg.resp
	switch {
	case !resp.Success:
		m.appendLine(errStyle.Render(fmt.Sprintf("✗ %s: %s: %s", name, resp.Error, resp.Message)))

	case resp.Recommendation != nil:
		rec := resp.Recommendation
		m.appendLine(fmt.Sprintf("  %s  %s  pot %s  ev %s",
			actionStyle.Render(rec.Action), statusStyle.Render(rec.Reasoning), rec.PotSize, rec.EV))

	default:
		m.appendLine(waitStyle.Render(fmt.Sprintf("  %s: waiting for hero's turn", name)))
	}
}

func (m *model) appendLine(line string) {
	m.lines = append(m.lines, line)
	if len(m.lines) > 500 {
		m.lines = m.lines[len(m.lines)-500:]
	}
	m.refreshViewport()
}

func (m *model) refreshViewport() {
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}

func (m *model) View() string {
	if m.quitting {
		return ""
	}
	if !m.initialized {
		return "Loading..."
	}

	header := titleStyle.Render("tablevision watch") +
		statusStyle.Render(fmt.Sprintf("  %s %s", m.spinner.View(), m.dir))
	footer := statusStyle.Render(fmt.Sprintf("%d frames sent · q to quit", len(m.seen)))

	return fmt.Sprintf("%s\n%s\n%s", header, m.viewport.View(), footer)
}

func main() {
	ctx := kong.Parse(&CLI)

	if CLI.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	logger := log.New(os.Stderr)
	switch CLI.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	default:
		logger.SetLevel(log.ErrorLevel)
	}

	conn, _, err := websocket.DefaultDialer.Dial(CLI.Server, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to %s: %v\n", CLI.Server, err)
		ctx.Exit(1)
	}
	defer func() { _ = conn.Close() }()

	m := newModel(CLI.Dir, CLI.Interval, conn, logger)

	// Reader goroutine feeds server responses into the model.
	go func() {
		for {
			var resp server.AnalyzeResponse
			if err := conn.ReadJSON(&resp); err != nil {
				m.responses <- responseMsg{err: err}
				return
			}
			m.responses <- responseMsg{resp: resp}
		}
	}()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running watcher: %v\n", err)
		ctx.Exit(1)
	}
}
