package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/andy/swiftbill/internal/app"
	"github.com/andy/swiftbill/internal/domain"
)

const (
	signInFieldEmail = iota
	signInFieldCompany
)

type signInDoneMsg struct {
	profile domain.UserProfile
	err     error
}

// SignInModel creates the local profile. There is no password; the
// profile only labels the data on this machine.
type SignInModel struct {
	app  *app.App
	form form
}

// NewSignInModel creates the sign-in screen
func NewSignInModel(a *app.App) tea.Model {
	m := &SignInModel{app: a}
	m.form.fields = []formField{
		newField("Email:", "email", "you@example.com", 100, 40),
		newField("Company name:", "companyName", domain.DefaultCompanyName, 100, 40),
	}
	return m
}

func (m *SignInModel) IsCapturingInput() bool { return true }

func (m *SignInModel) Init() tea.Cmd {
	return m.form.focusFirst()
}

func (m *SignInModel) signIn() tea.Cmd {
	email := m.form.value(signInFieldEmail)
	company := m.form.value(signInFieldCompany)
	return func() tea.Msg {
		p, err := m.app.ProfileService.SignIn(context.Background(), email, company)
		return signInDoneMsg{profile: p, err: err}
	}
}

func (m *SignInModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case signInDoneMsg:
		if msg.err != nil {
			m.form.fail(msg.err)
			return m, nil
		}
		profile := msg.profile
		return m, func() tea.Msg { return SignedInMsg{Profile: profile} }

	case RefreshDataMsg:
		return m, nil
	}

	cmd, submit := m.form.update(msg)
	if submit {
		return m, m.signIn()
	}
	return m, cmd
}

func (m *SignInModel) View() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("Welcome to swiftbill!") + "\n")
	s.WriteString(subtitleStyle.Render("  Your data stays on this machine. Sign in to label it with your business.") + "\n\n")
	s.WriteString(m.form.view("Sign In"))
	return s.String()
}
