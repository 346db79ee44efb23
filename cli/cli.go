// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for plain-terminal play and script playback.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/trace"

	"github.com/nathoo/dragonroad/engine"
	"github.com/nathoo/dragonroad/engine/events"
	"github.com/nathoo/dragonroad/engine/parser"
	"github.com/nathoo/dragonroad/engine/save"
	"github.com/nathoo/dragonroad/engine/state"
	"github.com/nathoo/dragonroad/telemetry"
	"github.com/nathoo/dragonroad/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	Defs      *state.Defs
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	Trace     bool
	EchoInput bool // echo each input line after the prompt (for script playback)
	Tracer    trace.Tracer
	Log       *log.Logger
	lastCmd   string // for "g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine, defs *state.Defs) *CLI {
	home, _ := os.UserHomeDir()
	return &CLI{
		Engine:  eng,
		Defs:    defs,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: filepath.Join(home, ".dragonroad", "saves"),
		Tracer:  telemetry.NoopTracer(),
		Log:     log.New(io.Discard),
	}
}

// Run starts the game loop. It shows the intro and the starting location,
// then loops: prompt → input → dispatch → output, until input runs out or
// the player quits.
func (c *CLI) Run(ctx context.Context) {
	if c.Defs.Game.Intro != "" {
		c.printLine(c.Defs.Game.Intro)
		c.printLine("")
	}
	c.printResult(c.Engine.Start())

	scanner := bufio.NewScanner(c.In)
	for {
		if ctx.Err() != nil {
			return
		}
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "g" repeats the last game command.
		if strings.EqualFold(input, "g") {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		c.step(ctx, input)
	}
}

// step parses one command and runs it inside an action span.
func (c *CLI) step(ctx context.Context, input string) {
	id, ok := parser.Parse(input, c.Engine.Available())
	if !ok {
		c.printLine("I don't understand that.")
		return
	}

	result := telemetry.TraceAction(ctx, c.Tracer, id, c.Engine.State, func() types.Result {
		return c.Engine.Do(id)
	})
	if len(result.Events) == 0 {
		c.Log.Debug("action not available", "action", id, "mode", c.Engine.State.Mode)
		c.printLine("You can't do that right now.")
		return
	}

	c.printResult(result)
	if c.Trace {
		c.printTrace(result)
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdSave(name string) {
	if name == "" {
		name = "quicksave"
	}
	if err := save.WriteFile(c.SaveDir, name, c.Engine.State, c.Defs); err != nil {
		c.Log.Error("save failed", "name", name, "err", err)
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	c.printSystem(fmt.Sprintf("Game saved to %s.", name))
}

func (c *CLI) cmdLoad(name string) {
	if name == "" {
		name = "quicksave"
	}
	sd, err := save.ReadFile(c.SaveDir, name, c.Defs)
	if err != nil {
		c.Log.Error("load failed", "name", name, "err", err)
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	c.Engine.Restore(sd)
	c.printSystem(fmt.Sprintf("Game loaded from %s (turn %d).", name, sd.Turn))

	c.printResult(c.Engine.Start())
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /save [name]  Save game (default: quicksave)",
		"  /load [name]  Load game (default: quicksave)",
		"  /quit         Exit game",
		"  /help         Show this help",
		"  /state        Debug: dump current state",
		"  /trace        Toggle debug trace output",
		"",
		"Game commands:",
		"  <number>              Pick one of the listed choices",
		"  go / continue (n)     Walk on",
		"  fight (f)             Engage the enemy ahead",
		"  attack (a)            Strike the enemy",
		"  heal (h)              Catch your breath",
		"  item (i)              Open the item menu",
		"  use potion (p)        Drink a potion",
		"  back (b)              Leave the item menu",
		"  look (l)              Describe where you are",
		"  restart (r)           Play again after the story ends",
		"  g                     Repeat your last command",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	s := c.Engine.State
	loc, _ := state.CurrentLocation(s, c.Defs)
	c.printSystem(fmt.Sprintf("Turn: %d", s.Turn))
	c.printSystem(fmt.Sprintf("Mode: %s", s.Mode))
	c.printSystem(fmt.Sprintf("Location: %s (%d/%d)", loc.ID, s.Cursor+1, len(c.Defs.Locations)))
	c.printSystem(fmt.Sprintf("Player: %d/%d HP, attack %d, heal %d",
		s.Player.HP, s.Player.MaxHP, s.Player.AttackPower, s.Player.HealPower))
	c.printSystem(fmt.Sprintf("Potions: %d", state.PotionCount(s)))
	if s.Enemy != nil {
		c.printSystem(fmt.Sprintf("Enemy: %s %d/%d HP, attack %d", s.Enemy.Name, s.Enemy.HP, s.Enemy.MaxHP, s.Enemy.AttackPower))
	}
	if s.ItemMenu {
		c.printSystem("Item menu open")
	}
}

func (c *CLI) printTrace(result types.Result) {
	if len(result.Effects) > 0 {
		c.printSystem(fmt.Sprintf("trace: effects %d", len(result.Effects)))
		for _, e := range result.Effects {
			if e.Amount != 0 {
				c.printSystem(fmt.Sprintf("trace:   %s %d", e.Type, e.Amount))
			} else {
				c.printSystem(fmt.Sprintf("trace:   %s", e.Type))
			}
		}
	}
	c.printSystem(fmt.Sprintf("trace: events %d", len(result.Events)))
	for _, e := range result.Events {
		c.printSystem(fmt.Sprintf("trace:   %s", e.Kind))
	}
}

// printResult renders a result through the presenter interface.
func (c *CLI) printResult(result types.Result) {
	events.Dispatch(result, presenter{c})
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
