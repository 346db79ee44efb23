package cli

import (
	"fmt"
	"strings"

	"github.com/nathoo/dragonroad/types"
)

// presenter renders outbound events as plain text.
type presenter struct {
	c *CLI
}

func (p presenter) LogLine(text string) {
	p.c.printLine(text)
}

func (p presenter) StatusUpdate(st types.Status) {
	p.c.printLine(StatusLine(st))
}

func (p presenter) AvailableActions(actions []types.ActionDesc) {
	if len(actions) == 0 {
		return
	}
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = fmt.Sprintf("%d) %s", i+1, a.Label)
	}
	p.c.printLine("  " + strings.Join(parts, "   "))
}

func (p presenter) GameEnded(outcome types.Outcome) {
	switch outcome {
	case types.OutcomeVictory:
		p.c.printSystem("Victory! Type 1 to play again, or /quit.")
	default:
		p.c.printSystem("Game over. Type 1 to play again, or /quit.")
	}
}

// StatusLine formats a status summary: "HP 31/40    Slime HP 9".
func StatusLine(st types.Status) string {
	line := fmt.Sprintf("HP %d/%d", st.PlayerHP, st.PlayerMaxHP)
	if st.Enemy != nil {
		line += fmt.Sprintf("    %s HP %d", st.Enemy.Name, st.Enemy.HP)
	}
	return line
}
