package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andy/swiftbill/internal/app"
)

// Screen represents the current active screen
type Screen int

const (
	ScreenSignIn Screen = iota
	ScreenDashboard
	ScreenClients
	ScreenItems
	ScreenInvoices
	ScreenReports
	ScreenSettings
)

// String returns the screen name
func (s Screen) String() string {
	switch s {
	case ScreenSignIn:
		return "Sign In"
	case ScreenDashboard:
		return "Dashboard"
	case ScreenClients:
		return "Clients"
	case ScreenItems:
		return "Items & Services"
	case ScreenInvoices:
		return "Invoices"
	case ScreenReports:
		return "Reports"
	case ScreenSettings:
		return "Settings"
	default:
		return "Unknown"
	}
}

// Model is the root Bubble Tea model
type Model struct {
	app           *app.App
	currentScreen Screen
	width         int
	height        int

	// Screen models (lazy initialized)
	screens map[Screen]tea.Model

	// Startup state
	checkedSession bool
	company        string

	// Error state
	err error
}

// New creates a new root model. It starts on the dashboard until the
// session check says otherwise.
func New(a *app.App) Model {
	return Model{
		app:           a,
		currentScreen: ScreenDashboard,
		screens:       make(map[Screen]tea.Model),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.checkSession()
}

// checkSession loads the profile, the theme and whether any clients exist
func (m Model) checkSession() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		msg := sessionCheckMsg{hasClients: true} // assume yes on error

		profile, ok, err := m.app.ProfileService.Get(ctx)
		msg.signedIn = ok && err == nil
		msg.company = profile.CompanyName

		if theme, err := m.app.ThemeService.Get(ctx); err == nil {
			msg.theme = theme
		}

		if clients, err := m.app.ClientService.List(ctx); err == nil {
			msg.hasClients = len(clients) > 0
		}
		return msg
	}
}

func (m Model) newScreen(screen Screen) tea.Model {
	switch screen {
	case ScreenSignIn:
		return NewSignInModel(m.app)
	case ScreenDashboard:
		return NewDashboardModel(m.app)
	case ScreenClients:
		return NewClientsModel(m.app)
	case ScreenItems:
		return NewItemsModel(m.app)
	case ScreenInvoices:
		return NewInvoicesModel(m.app)
	case ScreenReports:
		return NewReportsModel(m.app)
	case ScreenSettings:
		return NewSettingsModel(m.app)
	}
	return nil
}

// initScreen lazy-initializes a screen on first visit,
// and sends a RefreshDataMsg on subsequent visits so screens reload data.
func (m *Model) initScreen(screen Screen) tea.Cmd {
	if _, ok := m.screens[screen]; !ok {
		s := m.newScreen(screen)
		if s == nil {
			return nil
		}
		m.screens[screen] = s
		return s.Init()
	}
	return func() tea.Msg { return RefreshDataMsg{} }
}

func (m *Model) switchTo(screen Screen) tea.Cmd {
	m.currentScreen = screen
	m.err = nil
	return m.initScreen(screen)
}

// InputCapturer is implemented by screens that capture keyboard input (e.g. text forms).
// When active, global navigation keys are suppressed.
type InputCapturer interface {
	IsCapturingInput() bool
}

// activeScreenCapturingInput returns true if the current screen is capturing text input
func (m *Model) activeScreenCapturingInput() bool {
	if m.currentScreen == ScreenSignIn {
		return true
	}
	if ic, ok := m.screens[m.currentScreen].(InputCapturer); ok {
		return ic.IsCapturingInput()
	}
	return false
}

var navigation = []struct {
	binding *key.Binding
	screen  Screen
}{
	{&DefaultKeyMap.Dashboard, ScreenDashboard},
	{&DefaultKeyMap.Clients, ScreenClients},
	{&DefaultKeyMap.Items, ScreenItems},
	{&DefaultKeyMap.Invoices, ScreenInvoices},
	{&DefaultKeyMap.Reports, ScreenReports},
	{&DefaultKeyMap.Settings, ScreenSettings},
}

// Update implements tea.Model - routes keys to screens
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		// Skip global navigation when a screen is capturing text input
		if !m.activeScreenCapturingInput() {
			if key.Matches(msg, DefaultKeyMap.Quit) {
				return m, tea.Quit
			}
			for _, nav := range navigation {
				if key.Matches(msg, *nav.binding) {
					return m, m.switchTo(nav.screen)
				}
			}
		}

	case sessionCheckMsg:
		setTheme(msg.theme)
		if m.checkedSession {
			return m, nil
		}
		m.checkedSession = true
		m.company = msg.company
		switch {
		case !msg.signedIn:
			return m, m.switchTo(ScreenSignIn)
		case !msg.hasClients:
			initCmd := m.switchTo(ScreenClients)
			openFormCmd := func() tea.Msg { return OpenNewClientFormMsg{} }
			return m, tea.Batch(initCmd, openFormCmd)
		}
		return m, m.switchTo(ScreenDashboard)

	case SignedInMsg:
		m.company = msg.Profile.CompanyName
		delete(m.screens, ScreenSignIn)
		return m, m.switchTo(ScreenDashboard)

	case SignedOutMsg:
		// Drop cached screens so nothing from the old session lingers
		m.screens = make(map[Screen]tea.Model)
		m.company = ""
		return m, m.switchTo(ScreenSignIn)

	case ProfileChangedMsg:
		m.company = msg.Profile.CompanyName
		return m, nil

	case ThemeChangedMsg:
		setTheme(msg.Theme)
		// let the settings screen show the new value
		if s, ok := m.screens[m.currentScreen]; ok {
			var cmd tea.Cmd
			m.screens[m.currentScreen], cmd = s.Update(msg)
			return m, cmd
		}
		return m, nil

	case SwitchScreenMsg:
		return m, m.switchTo(msg.Screen)

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	// Route message to current screen
	var cmd tea.Cmd
	if s, ok := m.screens[m.currentScreen]; ok {
		m.screens[m.currentScreen], cmd = s.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model - renders header + current screen + footer
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	// Header
	title := "swiftbill - " + m.currentScreen.String()
	if m.company != "" && m.currentScreen != ScreenSignIn {
		title += "  " + subtitleStyle.Render(m.company)
	}
	header := headerStyle.Render(title)

	// Footer with navigation keys
	footer := footerStyle.Render("[H]ome  [C]lients  [P]roducts  [I]nvoices  [R]eports  [,] Settings  [Q]uit")
	if m.currentScreen == ScreenSignIn {
		footer = footerStyle.Render("ctrl+c: quit")
	}

	// Current screen content
	content := "Loading..."
	if s, ok := m.screens[m.currentScreen]; ok {
		content = s.View()
	}

	// Error display
	errorDisplay := ""
	if m.err != nil {
		errorDisplay = errorStyle.Render(fmt.Sprintf("\nError: %s", m.err.Error()))
	}

	// Divider line between header and content
	innerWidth := m.width - 6 // account for border (2) + padding (4)
	if innerWidth < 20 {
		innerWidth = 20
	}
	dividerWidth := innerWidth - 12
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := lipgloss.NewStyle().Foreground(borderColor).Render(
		strings.Repeat("─", dividerWidth),
	)

	body := fmt.Sprintf("%s\n%s\n\n%s%s\n\n%s\n%s", header, divider, content, errorDisplay, divider, footer)

	// Wrap in border, sized to terminal
	frame := appBorderStyle.
		Width(innerWidth).
		Height(m.height - 4) // leave room for border top/bottom
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, frame.Render(body))
}

// Run starts the TUI
func Run(a *app.App) error {
	p := tea.NewProgram(New(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
