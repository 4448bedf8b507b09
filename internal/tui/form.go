package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// formActions is what a screen does when a form is reset, cancelled or submitted
type formActions interface {
	reset()
	cancel()
	submit() tea.Cmd
}

type fieldSpec struct {
	label       string
	placeholder string
	charLimit   int
	width       int
	value       string
}

// form is a vertical list of text inputs with tab navigation
type form struct {
	title  string
	help   string
	specs  []fieldSpec
	fields []textinput.Model
	focus  int
	err    error
}

const formHelp = "tab/shift+tab: navigate fields  ctrl+s: save  enter: next/save  ctrl+r: reset  esc: cancel"

func newForm(title string, specs []fieldSpec) *form {
	f := &form{title: title, help: formHelp, specs: specs}
	f.restore()
	return f
}

// restore puts every field back to its initial value and focuses the first
func (f *form) restore() {
	f.fields = make([]textinput.Model, len(f.specs))
	for i, spec := range f.specs {
		f.fields[i] = textinput.New()
		f.fields[i].Placeholder = spec.placeholder
		f.fields[i].CharLimit = spec.charLimit
		f.fields[i].Width = spec.width
		f.fields[i].SetValue(spec.value)
	}
	f.focus = 0
	f.err = nil
	f.fields[0].Focus()
}

func (f *form) value(i int) string {
	return strings.TrimSpace(f.fields[i].Value())
}

func (f *form) focusCmd() tea.Cmd {
	return f.fields[f.focus].Focus()
}

func (f *form) move(delta int) tea.Cmd {
	f.fields[f.focus].Blur()
	n := len(f.fields)
	f.focus = (f.focus + delta + n) % n
	return f.fields[f.focus].Focus()
}

func (f *form) update(msg tea.Msg, actions formActions) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			actions.cancel()
			return nil

		case "tab", "down":
			return f.move(1)

		case "shift+tab", "up":
			return f.move(-1)

		case "enter":
			if f.focus == len(f.fields)-1 {
				return actions.submit()
			}
			return f.move(1)

		case "ctrl+s":
			return actions.submit()

		case "ctrl+r":
			actions.reset()
			return nil
		}
	}

	// Update the focused text input
	var cmd tea.Cmd
	f.fields[f.focus], cmd = f.fields[f.focus].Update(msg)
	return cmd
}

func (f *form) view() string {
	var s string
	s += titleStyle.Render(f.title) + "\n\n"

	for i, spec := range f.specs {
		indicator := "  "
		labelStyle := subtitleStyle
		if i == f.focus {
			indicator = "> "
			labelStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
		}
		s += fmt.Sprintf("%s%s\n  %s\n\n", indicator, labelStyle.Render(spec.label), f.fields[i].View())
	}

	if f.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", f.err)) + "\n\n"
	}

	s += helpStyle.Render("  " + f.help)
	return s
}
