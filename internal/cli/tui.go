package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/layercombos/pkg/export"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// GroupPickerModel - Interactive group selection
// =============================================================================

// GroupPickerModel is the bubbletea model for choosing which groups to export.
// Every group starts checked.
type GroupPickerModel struct {
	Groups    []export.GroupPlan
	Cursor    int
	Checked   []bool
	Confirmed bool
}

// NewGroupPickerModel creates a picker over the groups of plan.
func NewGroupPickerModel(plan *export.Plan) GroupPickerModel {
	checked := make([]bool, len(plan.Groups))
	for i := range checked {
		checked[i] = true
	}
	return GroupPickerModel{Groups: plan.Groups, Checked: checked}
}

// Selected returns the names of the checked groups, in plan order. It is
// empty unless the selection was confirmed.
func (m GroupPickerModel) Selected() []string {
	if !m.Confirmed {
		return nil
	}
	var names []string
	for i, g := range m.Groups {
		if m.Checked[i] {
			names = append(names, g.Name)
		}
	}
	return names
}

func (m GroupPickerModel) Init() tea.Cmd {
	return nil
}

func (m GroupPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Groups)-1 {
				m.Cursor++
			}
		case " ", "x":
			if len(m.Checked) > 0 {
				m.Checked[m.Cursor] = !m.Checked[m.Cursor]
			}
		case "a":
			all := !m.allChecked()
			for i := range m.Checked {
				m.Checked[i] = all
			}
		case "enter":
			m.Confirmed = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m GroupPickerModel) allChecked() bool {
	for _, c := range m.Checked {
		if !c {
			return false
		}
	}
	return true
}

func (m GroupPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Groups"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ export  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.Groups))
	total := 0
	for i, g := range m.Groups {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		check := "[ ]"
		if m.Checked[i] {
			check = "[x]"
			total += len(g.Items)
		}
		rows[i] = []string{cursor + check, g.Name, formatAxes(g.Axes), strconv.Itoa(len(g.Items))}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Group", "Axes", "Combinations").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if row == m.Cursor {
				return listSelectedStyle
			}
			if !m.Checked[row] {
				return listDimStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d combinations selected", total)))

	return b.String()
}

// formatAxes renders axis sizes as a product, e.g. "2 × 3".
func formatAxes(axes []int) string {
	if len(axes) == 0 {
		return "—"
	}
	parts := make([]string, len(axes))
	for i, n := range axes {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " × ")
}
