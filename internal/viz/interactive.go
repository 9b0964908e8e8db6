package viz

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/pendsim/internal/config"
	"github.com/san-kum/pendsim/internal/dynamo"
)

// Menu actions.
const (
	ActionLive   = "live"
	ActionEnergy = "energy"
	ActionRun    = "run"
)

var kindInfo = map[dynamo.Kind]string{
	dynamo.Simple:    "damped single pendulum",
	dynamo.Double:    "chaotic two-link chain",
	dynamo.Triple:    "three-link chain",
	dynamo.Spherical: "pendulum on a sphere",
}

var actionInfo = map[string]string{
	ActionLive:   "real-time animation",
	ActionEnergy: "energy contour map",
	ActionRun:    "solve and summarize",
}

const defaultPreset = "default"

const (
	stageKind = iota
	stagePreset
	stageAction
)

// Choice is what the user picked from the menu. Action is empty when the
// menu was dismissed.
type Choice struct {
	Kind   dynamo.Kind
	Preset string
	Action string
}

// Config returns the configuration the choice describes.
func (c Choice) Config() *config.Config {
	if c.Preset != "" && c.Preset != defaultPreset {
		if cfg := config.GetPreset(c.Kind, c.Preset); cfg != nil {
			return cfg
		}
	}
	cfg := config.DefaultConfig()
	cfg.Kind = c.Kind
	return cfg
}

// MenuModel walks the user through kind, preset and action.
type MenuModel struct {
	stage  int
	cursor int
	kinds  []dynamo.Kind
	choice Choice
	done   bool
}

func NewMenuModel() MenuModel {
	return MenuModel{kinds: dynamo.Kinds()}
}

func (m MenuModel) Init() tea.Cmd { return nil }

// Choice returns the selection so far.
func (m MenuModel) Choice() Choice { return m.choice }

// Done reports whether an action was picked.
func (m MenuModel) Done() bool { return m.done }

func (m MenuModel) items() []string {
	switch m.stage {
	case stageKind:
		names := make([]string, len(m.kinds))
		for i, k := range m.kinds {
			names[i] = k.String()
		}
		return names
	case stagePreset:
		return append([]string{defaultPreset}, config.ListPresets(m.choice.Kind)...)
	default:
		return []string{ActionLive, ActionEnergy, ActionRun}
	}
}

func (m MenuModel) describe(i int, item string) string {
	switch m.stage {
	case stageKind:
		return kindInfo[m.kinds[i]]
	case stagePreset:
		if item == defaultPreset {
			return "built-in parameters"
		}
		return ""
	default:
		return actionInfo[item]
	}
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	items := m.items()
	switch key.String() {
	case "q", "ctrl+c":
		m.choice.Action = ""
		return m, tea.Quit
	case "esc", "backspace", "h":
		if m.stage > stageKind {
			m.stage--
			m.cursor = 0
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case "enter", " ", "l":
		switch m.stage {
		case stageKind:
			m.choice.Kind = m.kinds[m.cursor]
		case stagePreset:
			m.choice.Preset = items[m.cursor]
		case stageAction:
			m.choice.Action = items[m.cursor]
			m.done = true
			return m, tea.Quit
		}
		m.stage++
		m.cursor = 0
	}
	return m, nil
}

func (m MenuModel) View() string {
	var b strings.Builder
	b.WriteString("\n\n    " + GradientTitle.Render("PENDSIM") + "\n")

	sub := "choose a pendulum"
	switch m.stage {
	case stagePreset:
		sub = m.choice.Kind.String() + " / choose a preset"
	case stageAction:
		sub = m.choice.Kind.String() + " / " + m.choice.Preset + " / choose an action"
	}
	b.WriteString("    " + Subtle.Render(sub) + "\n    " + Separator(25) + "\n\n")

	dim := lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
	for i, item := range m.items() {
		desc := m.describe(i, item)
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", NeonGlow.Render("▸"), NeonGlow.Render(fmt.Sprintf("%-12s", item)), desc))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", dim.Render(fmt.Sprintf("  %-12s", item)), dim.Render(desc)))
		}
	}
	b.WriteString("\n    " + KeyHint.Render("j/k navigate  enter select  esc back  q quit") + "\n")
	return b.String()
}

// RunMenu shows the menu and returns the user's choice.
func RunMenu(ctx context.Context) (Choice, error) {
	final, err := tea.NewProgram(NewMenuModel(), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return Choice{}, err
	}
	m, ok := final.(MenuModel)
	if !ok || !m.Done() {
		return Choice{}, nil
	}
	return m.Choice(), nil
}
