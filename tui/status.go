package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/dragonroad/engine/state"
)

// locationDisplayName derives a human-readable name from a location ID.
// "dragon_lair" -> "Dragon Lair".
func locationDisplayName(id string) string {
	words := strings.Split(id, "_")
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// renderStatusBar produces a full-width status line: location and player
// health on the left, enemy health and turn count on the right. It turns
// red while a hit flash is showing.
func (m Model) renderStatusBar() string {
	st := m.status

	name := ""
	if loc, ok := state.CurrentLocation(m.engine.State, m.defs); ok {
		name = locationDisplayName(loc.ID)
	}

	left := fmt.Sprintf(" %s | %s HP %d/%d | Potions: %d",
		name, st.PlayerName, st.PlayerHP, st.PlayerMaxHP, st.Potions)
	right := fmt.Sprintf("T:%d ", m.engine.State.Turn)
	if st.Enemy != nil {
		right = fmt.Sprintf("%s HP %d/%d | T:%d ", st.Enemy.Name, st.Enemy.HP, st.Enemy.MaxHP, m.engine.State.Turn)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	style := styleStatusBar
	if m.flashing {
		style = styleStatusBarHit
	}
	return style.Width(m.width).Render(bar)
}

// renderChoices draws the offered actions as a row of buttons, numbered
// for direct selection.
func (m Model) renderChoices() string {
	if len(m.actions) == 0 {
		return ""
	}
	buttons := make([]string, len(m.actions))
	for i, a := range m.actions {
		label := fmt.Sprintf("%d %s", i+1, a.Label)
		if i == m.selected {
			buttons[i] = styleButtonSelected.Render(label)
		} else {
			buttons[i] = styleButton.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}
