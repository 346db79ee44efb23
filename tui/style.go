package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	// Shown briefly when the player takes a hit.
	styleStatusBarHit = lipgloss.NewStyle().
				Background(lipgloss.Color("124")).
				Foreground(lipgloss.Color("231")).
				Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarration = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleHit = lipgloss.NewStyle().
			Foreground(lipgloss.Color("209"))

	styleHeal = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))

	styleTriumph = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	styleDefeat = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleButton = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("238")).
			Padding(0, 1).
			MarginRight(1)

	styleButtonSelected = styleButton.
				Foreground(lipgloss.Color("16")).
				Background(lipgloss.Color("220")).
				Bold(true)
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarration lineKind = iota
	kindHit
	kindHeal
	kindTriumph
	kindDefeat
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.Contains(line, "Game over"):
		return kindDefeat
	case strings.HasPrefix(line, "You defeated"),
		strings.Contains(line, "Peace returns"):
		return kindTriumph
	case strings.HasPrefix(line, "You can't"),
		strings.HasPrefix(line, "You have no"),
		strings.HasPrefix(line, "I don't understand"):
		return kindError
	case strings.Contains(line, "damage!"):
		return kindHit
	case strings.Contains(line, "recover"):
		return kindHeal
	default:
		return kindNarration
	}
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindHit:
		return styleHit.Render(line)
	case kindHeal:
		return styleHeal.Render(line)
	case kindTriumph:
		return styleTriumph.Render(line)
	case kindDefeat:
		return styleDefeat.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarration.Render(line)
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
