// Package tui is the terminal preview of the display: a bubbletea program
// that draws the 20x2 panel and maps keys to the same intents the physical
// buttons produce. It exists so the content engine can be exercised
// without hardware.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/markoshka/markoshka/internal/engine"
	"github.com/markoshka/markoshka/internal/logging"
	"github.com/markoshka/markoshka/internal/render"
)

// frameMsg carries a display refresh from the app loop into the program.
type frameMsg render.Frame

// keyMap defines the simulated button bindings.
type keyMap struct {
	ShortPress key.Binding
	LongPress  key.Binding
	Weather    key.Binding
	Quit       key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ShortPress, k.LongPress, k.Weather, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ShortPress, k.LongPress, k.Weather, k.Quit},
	}
}

var defaultKeys = keyMap{
	ShortPress: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "short press (mode)"),
	),
	LongPress: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "long press (category)"),
	),
	Weather: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "weather button"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// model renders the panel and routes keys to the intent queue.
type model struct {
	frame   render.Frame
	keys    keyMap
	help    help.Model
	intents *engine.IntentQueue
	cancel  context.CancelFunc
	status  string
}

func newModel(intents *engine.IntentQueue, cancel context.CancelFunc) model {
	blank := render.StaticFrame("")
	return model{
		frame:   blank,
		keys:    defaultKeys,
		help:    help.New(),
		intents: intents,
		cancel:  cancel,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.frame = render.Frame(msg)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.cancel()
			return m, tea.Quit
		case key.Matches(msg, m.keys.ShortPress):
			m.push(engine.IntentToggleMode, "short press")
			return m, nil
		case key.Matches(msg, m.keys.LongPress):
			m.push(engine.IntentCycleCategory, "long press")
			return m, nil
		case key.Matches(msg, m.keys.Weather):
			m.push(engine.IntentToggleWeather, "weather press")
			return m, nil
		}
	}
	return m, nil
}

func (m *model) push(in engine.Intent, label string) {
	queued := m.intents.Push(in)
	logging.LogButtonPress("tui", in.String(), queued)
	m.status = label
	if !queued {
		m.status = label + " (dropped)"
	}
}

func (m model) View() string {
	panel := PanelStyle.Render(m.frame[0] + "\n" + m.frame[1])

	sections := []string{
		TitleStyle.Render("Маркошка preview"),
		panel,
	}
	if m.status != "" {
		sections = append(sections, StatusStyle.Render("last: "+m.status))
	}
	sections = append(sections, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

// Driver runs the preview program and doubles as a display driver: the
// app loop writes frames to it from its own goroutine while the program
// owns the terminal.
type Driver struct {
	program *tea.Program
}

// NewDriver builds the preview around the app's intent queue. cancel is
// invoked when the user quits, which stops the main loop.
func NewDriver(intents *engine.IntentQueue, cancel context.CancelFunc) *Driver {
	program := tea.NewProgram(
		newModel(intents, cancel),
		tea.WithAltScreen(),
	)
	return &Driver{program: program}
}

// Run blocks until the program exits. Call from the main goroutine.
func (d *Driver) Run() error {
	_, err := d.program.Run()
	return err
}

// Write implements display.Driver. Safe to call from any goroutine.
func (d *Driver) Write(frame render.Frame) error {
	d.program.Send(frameMsg(frame))
	return nil
}

// Close stops the program.
func (d *Driver) Close() error {
	d.program.Quit()
	return nil
}
