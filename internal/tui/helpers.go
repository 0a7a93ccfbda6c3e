package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/andy/swiftbill/internal/domain"
)

// formatMoney formats money as "$X,XXX.XX"
func formatMoney(amount float64) string {
	return domain.FormatCurrency(amount)
}

// formatNumber prints a quantity or rate without trailing zeros
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// truncateStr truncates a string to the specified length with ellipsis
func truncateStr(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// violations extracts field messages from a validation failure
func violations(err error) (domain.Violations, bool) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Violations, true
	}
	return nil, false
}

// formField is one labelled input. Key is the validation field it reports.
type formField struct {
	label string
	key   string
	input textinput.Model
}

func newField(label, key, placeholder string, limit, width int) formField {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = width
	return formField{label: label, key: key, input: in}
}

// form is a vertical list of text inputs with inline errors
type form struct {
	fields []formField
	focus  int
	errs   domain.Violations
	err    error
}

func (f *form) value(i int) string {
	return f.fields[i].input.Value()
}

func (f *form) set(i int, v string) {
	f.fields[i].input.SetValue(v)
}

// focusFirst focuses the first field and returns the blink command
func (f *form) focusFirst() tea.Cmd {
	for i := range f.fields {
		f.fields[i].input.Blur()
	}
	f.focus = 0
	return f.fields[0].input.Focus()
}

func (f *form) move(delta int) tea.Cmd {
	n := len(f.fields)
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + delta + n) % n
	return f.fields[f.focus].input.Focus()
}

func (f *form) last() bool {
	return f.focus == len(f.fields)-1
}

// fail records a save error, splitting out field violations
func (f *form) fail(err error) {
	if v, ok := violations(err); ok {
		f.errs = v
		f.err = nil
		return
	}
	f.errs = nil
	f.err = err
}

// update handles focus movement and forwards everything else to the
// focused input. submit is reported when the form should be saved.
func (f *form) update(msg tea.Msg) (cmd tea.Cmd, submit bool) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab", "down":
			return f.move(1), false
		case "shift+tab", "up":
			return f.move(-1), false
		case "ctrl+s":
			return nil, true
		case "enter":
			if f.last() {
				return nil, true
			}
			return f.move(1), false
		}
	}

	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd, false
}

func (f *form) view(title string) string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(title) + "\n\n")

	for i, field := range f.fields {
		indicator := "  "
		style := subtitleStyle
		if i == f.focus {
			indicator = "> "
			style = focusStyle
		}
		fmt.Fprintf(&s, "%s%s\n  %s\n", indicator, style.Render(field.label), field.input.View())
		if msg, ok := f.errs[field.key]; ok && field.key != "" {
			s.WriteString("  " + errorStyle.Render(msg) + "\n")
		}
		s.WriteString("\n")
	}

	if f.err != nil {
		s.WriteString(errorStyle.Render(fmt.Sprintf("  Error: %v", f.err)) + "\n\n")
	}

	s.WriteString(helpStyle.Render("  tab/shift+tab: navigate fields  ctrl+s: save  enter: next/save  esc: cancel"))
	return s.String()
}

// confirmLine renders the pending delete prompt
func confirmLine(what string) string {
	return warningStyle.Render(fmt.Sprintf("  Delete %s? y: confirm  any other key: cancel", what))
}
