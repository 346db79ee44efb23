// Package tui provides a Bubble Tea terminal UI for Dragon Road: a log
// viewport, a status bar and a row of choice buttons.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/trace"

	"github.com/nathoo/dragonroad/engine"
	"github.com/nathoo/dragonroad/engine/effects"
	"github.com/nathoo/dragonroad/engine/events"
	"github.com/nathoo/dragonroad/engine/parser"
	"github.com/nathoo/dragonroad/engine/save"
	"github.com/nathoo/dragonroad/engine/state"
	"github.com/nathoo/dragonroad/telemetry"
	"github.com/nathoo/dragonroad/types"
)

// flashDuration is how long the status bar stays red after a hit.
const flashDuration = 180 * time.Millisecond

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for the echoed choice
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for the Dragon Road TUI.
type Model struct {
	ctx    context.Context
	engine *engine.Engine
	defs   *state.Defs
	tracer trace.Tracer
	log    *log.Logger

	viewport viewport.Model
	input    textinput.Model
	help     help.Model
	keys     keyMap

	rawLines []rawLine // accumulated narrative lines (unstyled, for re-wrapping)

	// Last values pushed by the engine.
	status  types.Status
	actions []types.ActionDesc
	outcome types.Outcome

	selected   int
	commanding bool // the ":" command line has focus
	flashing   bool
	flashSeq   int

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
	saveDir  string
}

// Option configures a Model.
type Option func(*Model)

// WithSaveDir sets the directory for save files.
func WithSaveDir(dir string) Option {
	return func(m *Model) { m.saveDir = dir }
}

// WithTracer traces every action with the given tracer.
func WithTracer(t trace.Tracer) Option {
	return func(m *Model) { m.tracer = t }
}

// WithLogger sets the diagnostics logger. The terminal belongs to the UI,
// so this should write to a file or io.Discard.
func WithLogger(l *log.Logger) Option {
	return func(m *Model) { m.log = l }
}

// startMsg carries the opening screen into the Update loop.
type startMsg struct {
	header []string
	result types.Result
}

// flashDoneMsg ends a hit flash. seq ignores stale timers.
type flashDoneMsg struct {
	seq int
}

// New creates a TUI model wired to the given engine.
func New(ctx context.Context, eng *engine.Engine, defs *state.Defs, opts ...Option) Model {
	ti := textinput.New()
	ti.Prompt = ": "
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	home, _ := os.UserHomeDir()
	m := Model{
		ctx:     ctx,
		engine:  eng,
		defs:    defs,
		tracer:  telemetry.NoopTracer(),
		log:     log.New(io.Discard),
		input:   ti,
		help:    help.New(),
		keys:    defaultKeyMap(),
		saveDir: filepath.Join(home, ".dragonroad", "saves"),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.status = eng.Status()
	m.actions = eng.Available()
	return m
}

// Run starts the Bubble Tea program.
func Run(ctx context.Context, eng *engine.Engine, defs *state.Defs, opts ...Option) error {
	m := New(ctx, eng, defs, opts...)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init returns the initial command that produces the title, intro and
// starting location.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg {
		g := m.defs.Game
		header := []string{g.Title + " v" + g.Version + " by " + g.Author, ""}
		if g.Intro != "" {
			header = append(header, g.Intro, "")
		}
		return startMsg{header: header, result: m.engine.Start()}
	}
}

// Update handles messages (key presses, window resize, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		vpHeight := m.height - 3 // status bar + choices + help/input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()
		return m, nil

	case startMsg:
		for _, line := range msg.header {
			m.rawLines = append(m.rawLines, rawLine{text: line})
		}
		m.present(msg.result)
		m.refreshViewport()
		return m, nil

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flashing = false
		}
		return m, nil

	case tea.KeyMsg:
		if m.commanding {
			return m.updateCommandLine(msg)
		}
		return m.updateChoices(msg)
	}

	return m, nil
}

// updateChoices handles keys while the choice row has focus.
func (m Model) updateChoices(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Left):
		if len(m.actions) > 0 {
			m.selected = (m.selected - 1 + len(m.actions)) % len(m.actions)
		}
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if len(m.actions) > 0 {
			m.selected = (m.selected + 1) % len(m.actions)
		}
		return m, nil

	case key.Matches(msg, m.keys.Choose):
		if m.selected < len(m.actions) {
			return m.choose(m.actions[m.selected])
		}
		return m, nil

	case key.Matches(msg, m.keys.Command):
		// "/" starts a meta command; ":" a game command.
		m.commanding = true
		m.input.SetValue("")
		if msg.String() == "/" {
			m.input.SetValue("/")
			m.input.CursorEnd()
		}
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Save):
		m.systemLines(m.cmdSave(""))
		return m, nil

	case key.Matches(msg, m.keys.Load):
		m.systemLines(m.cmdLoad(""))
		return m, nil

	case key.Matches(msg, m.keys.Trace):
		out, _ := m.handleMeta("/trace")
		m.systemLines(out)
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	// Digits pick a button directly.
	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		if n := int(s[0] - '1'); n < len(m.actions) {
			m.selected = n
			return m.choose(m.actions[n])
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// updateCommandLine handles keys while the ":" command line has focus.
func (m Model) updateCommandLine(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		m.commanding = false
		m.input.Blur()
		return m, nil

	case "enter":
		input := strings.TrimSpace(m.input.Value())
		m.commanding = false
		m.input.Blur()
		m.input.SetValue("")
		return m.submit(input)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit runs a typed command: a /meta command or a game command.
func (m Model) submit(input string) (tea.Model, tea.Cmd) {
	if input == "" {
		return m, nil
	}

	if strings.HasPrefix(input, "/") {
		m.rawLines = append(m.rawLines, rawLine{text: "> " + input, isInput: true})
		output, quit := m.handleMeta(input)
		m.systemLines(output)
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	id, ok := parser.Parse(input, m.actions)
	if !ok {
		m.rawLines = append(m.rawLines, rawLine{text: "> " + input, isInput: true})
		m.rawLines = append(m.rawLines, rawLine{text: "I don't understand that.", kind: kindError}, rawLine{})
		m.refreshViewport()
		return m, nil
	}
	return m.run(id, input)
}

// choose runs the action behind a button.
func (m Model) choose(a types.ActionDesc) (tea.Model, tea.Cmd) {
	return m.run(a.ID, a.Label)
}

// run executes one action and presents its events. A hit on the player
// starts the status bar flash.
func (m Model) run(id types.ActionID, echo string) (tea.Model, tea.Cmd) {
	m.rawLines = append(m.rawLines, rawLine{text: "> " + echo, isInput: true})

	result := telemetry.TraceAction(m.ctx, m.tracer, id, m.engine.State, func() types.Result {
		return m.engine.Do(id)
	})
	if len(result.Events) == 0 {
		m.log.Debug("action not available", "action", id, "mode", m.engine.State.Mode)
		m.rawLines = append(m.rawLines, rawLine{text: "You can't do that right now.", kind: kindError}, rawLine{})
		m.refreshViewport()
		return m, nil
	}

	m.present(result)
	if m.trace {
		for _, line := range formatTrace(result) {
			m.rawLines = append(m.rawLines, rawLine{text: line, kind: kindTrace})
		}
	}
	m.rawLines = append(m.rawLines, rawLine{})
	m.refreshViewport()

	if playerHit(result) {
		m.flashing = true
		m.flashSeq++
		seq := m.flashSeq
		return m, tea.Tick(flashDuration, func(time.Time) tea.Msg {
			return flashDoneMsg{seq: seq}
		})
	}
	return m, nil
}

// present replays a result's events onto the model.
func (m *Model) present(result types.Result) {
	events.Dispatch(result, m)
	if _, ended := events.Outcome(result); !ended {
		m.outcome = ""
	}
}

// LogLine implements events.Presenter.
func (m *Model) LogLine(text string) {
	m.rawLines = append(m.rawLines, rawLine{text: text, kind: classifyLine(text)})
}

// StatusUpdate implements events.Presenter.
func (m *Model) StatusUpdate(st types.Status) {
	m.status = st
}

// AvailableActions implements events.Presenter. The selection resets to the
// first button whenever the offer changes.
func (m *Model) AvailableActions(actions []types.ActionDesc) {
	m.actions = actions
	m.selected = 0
}

// GameEnded implements events.Presenter. The banner is shown once per
// ending; re-rendering an ended session does not repeat it.
func (m *Model) GameEnded(outcome types.Outcome) {
	if outcome == types.OutcomeVictory && m.outcome != outcome {
		m.rawLines = append(m.rawLines, rawLine{text: "Victory!", kind: kindTriumph})
	}
	m.outcome = outcome
}

// playerHit reports whether the player took damage in this result.
func playerHit(result types.Result) bool {
	for _, e := range result.Effects {
		if e.Type == effects.DamagePlayer {
			return true
		}
	}
	return false
}

// systemLines appends bracketed system messages and refreshes.
func (m *Model) systemLines(lines []string) {
	for _, line := range lines {
		m.rawLines = append(m.rawLines, rawLine{text: line, isSystem: true})
	}
	m.rawLines = append(m.rawLines, rawLine{})
	m.refreshViewport()
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	lineLen := 0

	for i, word := range strings.Fields(text) {
		wLen := len(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			lineLen = 0
		} else {
			result.WriteString(" ")
			lineLen++
		}
		result.WriteString(word)
		lineLen += wLen
	}

	return result.String()
}

// View renders the full TUI layout: viewport, status bar, choices and
// either the help line or the command line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	bottom := m.help.View(m.keys)
	if m.commanding {
		bottom = m.input.View()
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.renderChoices() + "\n" + bottom
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/save":
		return m.cmdSave(arg), false

	case "/load":
		return m.cmdLoad(arg), false

	case "/help":
		return cmdHelp(), false

	case "/state":
		return m.cmdState(), false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdSave(name string) []string {
	if name == "" {
		name = "quicksave"
	}
	if err := save.WriteFile(m.saveDir, name, m.engine.State, m.defs); err != nil {
		m.log.Error("save failed", "name", name, "err", err)
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	return []string{fmt.Sprintf("Game saved to %s.", name)}
}

func (m *Model) cmdLoad(name string) []string {
	if name == "" {
		name = "quicksave"
	}
	sd, err := save.ReadFile(m.saveDir, name, m.defs)
	if err != nil {
		m.log.Error("load failed", "name", name, "err", err)
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	m.engine.Restore(sd)
	m.flashing = false

	output := []string{fmt.Sprintf("Game loaded from %s (turn %d).", name, sd.Turn)}
	var rec events.Recorder
	result := m.engine.Start()
	events.Dispatch(result, &rec)
	output = append(output, rec.Lines...)
	m.StatusUpdate(rec.Status)
	m.AvailableActions(rec.Actions)
	m.outcome = rec.Outcome
	return output
}

func cmdHelp() []string {
	return []string{
		"System:",
		"  /save [name]  Save game (default: quicksave)",
		"  /load [name]  Load game (default: quicksave)",
		"  /quit         Exit game",
		"  /help         Show this help",
		"  /state        Debug: dump current state",
		"  /trace        Toggle debug trace output",
		"",
		"Game commands (typed after ':'):",
		"  attack, heal, item, use potion, back, fight, go, look, restart",
		"",
		"Keys: ←/→ select, enter or 1-9 choose, PgUp/PgDn scroll,",
		"      ctrl+s quicksave, ctrl+o quickload, ? more keys, q quit",
	}
}

func (m *Model) cmdState() []string {
	s := m.engine.State
	loc, _ := state.CurrentLocation(s, m.defs)
	output := []string{
		fmt.Sprintf("Turn: %d", s.Turn),
		fmt.Sprintf("Mode: %s", s.Mode),
		fmt.Sprintf("Location: %s", loc.ID),
		fmt.Sprintf("Player: %d/%d HP", s.Player.HP, s.Player.MaxHP),
		fmt.Sprintf("Potions: %d", state.PotionCount(s)),
	}
	if s.Enemy != nil {
		output = append(output, fmt.Sprintf("Enemy: %s %d/%d HP, attack %d", s.Enemy.Name, s.Enemy.HP, s.Enemy.MaxHP, s.Enemy.AttackPower))
	}
	return output
}

func formatTrace(result types.Result) []string {
	var lines []string
	if len(result.Effects) > 0 {
		lines = append(lines, fmt.Sprintf("[trace] Effects: %d", len(result.Effects)))
		for _, e := range result.Effects {
			lines = append(lines, fmt.Sprintf("[trace]   %s %d", e.Type, e.Amount))
		}
	}
	lines = append(lines, fmt.Sprintf("[trace] Events: %d", len(result.Events)))
	for _, e := range result.Events {
		lines = append(lines, fmt.Sprintf("[trace]   %s", e.Kind))
	}
	return lines
}
