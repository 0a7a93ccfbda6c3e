package tui

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andy/swiftbill/internal/app"
	"github.com/andy/swiftbill/internal/domain"
)

type settingsMode int

const (
	settingsModeView settingsMode = iota
	settingsModeProfile
	settingsModeInvoice
	settingsModeLogo
	settingsModeConfirmSignOut
)

// profile form field indices
const (
	profileFieldCompany = iota
	profileFieldEmail
	profileFieldAddress
	profileFieldPhone
)

// invoice settings form field indices
const (
	settingsFieldOutputDir = iota
	settingsFieldPrefix
	settingsFieldDueDays
	settingsFieldTaxRate
)

type settingsDataMsg struct {
	profile domain.UserProfile
	theme   domain.Theme
	err     error
}

type profileSavedMsg struct {
	profile domain.UserProfile
	err     error
}

type settingsSavedMsg struct {
	err error
}

type themeToggledMsg struct {
	theme domain.Theme
	err   error
}

type signOutMsg struct {
	err error
}

// SettingsModel shows the profile, theme and invoice defaults
type SettingsModel struct {
	app       *app.App
	mode      settingsMode
	profile   domain.UserProfile
	theme     domain.Theme
	form      form
	logo      textinput.Model
	loading   bool
	err       error
	statusMsg string
}

// NewSettingsModel creates a new settings screen
func NewSettingsModel(a *app.App) tea.Model {
	logo := textinput.New()
	logo.Placeholder = "/path/to/logo.png"
	logo.CharLimit = 512
	logo.Width = 60

	return &SettingsModel{
		app:     a,
		mode:    settingsModeView,
		logo:    logo,
		loading: true,
	}
}

// IsCapturingInput returns true while a form, the logo prompt or the sign-out prompt is open
func (m *SettingsModel) IsCapturingInput() bool {
	switch m.mode {
	case settingsModeProfile, settingsModeInvoice, settingsModeLogo, settingsModeConfirmSignOut:
		return true
	}
	return false
}

func (m *SettingsModel) Init() tea.Cmd {
	return m.loadSettings()
}

func (m *SettingsModel) loadSettings() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		profile, _, err := m.app.ProfileService.Get(ctx)
		if err != nil {
			return settingsDataMsg{err: err}
		}
		theme, err := m.app.ThemeService.Get(ctx)
		if err != nil {
			return settingsDataMsg{err: err}
		}
		return settingsDataMsg{profile: profile, theme: theme}
	}
}

func (m *SettingsModel) openProfileForm() tea.Cmd {
	m.form = form{fields: []formField{
		profileFieldCompany: newField("Company Name:", "companyName", "Acme Studio", 100, 50),
		profileFieldEmail:   newField("Email:", "email", "you@example.com", 100, 50),
		profileFieldAddress: newField("Address:", "address", "1 Main St, Springfield", 200, 60),
		profileFieldPhone:   newField("Phone:", "phone", "+1 555 0100", 30, 30),
	}}
	m.form.set(profileFieldCompany, m.profile.CompanyName)
	m.form.set(profileFieldEmail, m.profile.Email)
	m.form.set(profileFieldAddress, m.profile.Address)
	m.form.set(profileFieldPhone, m.profile.Phone)
	m.mode = settingsModeProfile
	return m.form.focusFirst()
}

func (m *SettingsModel) openInvoiceForm() tea.Cmd {
	cfg := m.app.Config.Invoice
	m.form = form{fields: []formField{
		settingsFieldOutputDir: newField("Output Directory:", "", "/path/to/invoices", 256, 60),
		settingsFieldPrefix:    newField("Number Prefix:", "", "INV", 20, 20),
		settingsFieldDueDays:   newField("Default Due Days:", "", "30", 5, 10),
		settingsFieldTaxRate:   newField("Default Tax Rate (%):", "", "0", 10, 10),
	}}
	m.form.set(settingsFieldOutputDir, cfg.OutputDir)
	m.form.set(settingsFieldPrefix, cfg.NumberPrefix)
	m.form.set(settingsFieldDueDays, strconv.Itoa(cfg.DefaultDueDays))
	m.form.set(settingsFieldTaxRate, formatNumber(cfg.DefaultTaxRate))
	m.mode = settingsModeInvoice
	return m.form.focusFirst()
}

func (m *SettingsModel) saveProfile() tea.Cmd {
	in := domain.ProfileInput{
		CompanyName: m.form.value(profileFieldCompany),
		Email:       m.form.value(profileFieldEmail),
		Address:     m.form.value(profileFieldAddress),
		Phone:       m.form.value(profileFieldPhone),
	}
	return func() tea.Msg {
		profile, err := m.app.ProfileService.Save(context.Background(), in)
		return profileSavedMsg{profile: profile, err: err}
	}
}

func (m *SettingsModel) saveSettings() tea.Cmd {
	outputDir := strings.TrimSpace(m.form.value(settingsFieldOutputDir))
	prefix := strings.TrimSpace(m.form.value(settingsFieldPrefix))
	dueDaysStr := strings.TrimSpace(m.form.value(settingsFieldDueDays))
	taxRateStr := strings.TrimSpace(m.form.value(settingsFieldTaxRate))

	return func() tea.Msg {
		if outputDir == "" {
			return settingsSavedMsg{err: fmt.Errorf("output directory is required")}
		}
		if prefix == "" {
			return settingsSavedMsg{err: fmt.Errorf("invoice prefix is required")}
		}

		dueDays, err := strconv.Atoi(dueDaysStr)
		if err != nil || dueDays < 0 {
			return settingsSavedMsg{err: fmt.Errorf("due days must be a non-negative whole number")}
		}

		taxRate, err := strconv.ParseFloat(taxRateStr, 64)
		if err != nil || math.IsNaN(taxRate) || taxRate < 0 || taxRate > 100 {
			return settingsSavedMsg{err: fmt.Errorf("tax rate must be between 0 and 100")}
		}

		previous := m.app.Config.Invoice
		m.app.Config.Invoice.OutputDir = outputDir
		m.app.Config.Invoice.NumberPrefix = prefix
		m.app.Config.Invoice.DefaultDueDays = dueDays
		m.app.Config.Invoice.DefaultTaxRate = taxRate

		if err := m.app.SaveConfig(); err != nil {
			m.app.Config.Invoice = previous
			return settingsSavedMsg{err: err}
		}

		return settingsSavedMsg{}
	}
}

func (m *SettingsModel) toggleTheme() tea.Cmd {
	return func() tea.Msg {
		theme, err := m.app.ThemeService.Toggle(context.Background())
		return themeToggledMsg{theme: theme, err: err}
	}
}

func (m *SettingsModel) setLogo(path string) tea.Cmd {
	return func() tea.Msg {
		profile, err := m.app.ProfileService.SetLogo(context.Background(), path)
		return profileSavedMsg{profile: profile, err: err}
	}
}

func (m *SettingsModel) removeLogo() tea.Cmd {
	return func() tea.Msg {
		profile, err := m.app.ProfileService.RemoveLogo(context.Background())
		return profileSavedMsg{profile: profile, err: err}
	}
}

func (m *SettingsModel) signOut() tea.Cmd {
	return func() tea.Msg {
		return signOutMsg{err: m.app.ProfileService.SignOut(context.Background())}
	}
}

func (m *SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.profile = msg.profile
			m.theme = msg.theme
		}
		return m, nil

	case RefreshDataMsg:
		return m, m.loadSettings()

	case ThemeChangedMsg:
		m.theme = msg.Theme
		return m, nil

	case profileSavedMsg:
		if msg.err != nil {
			if m.mode == settingsModeProfile {
				m.form.fail(msg.err)
			} else {
				m.err = msg.err
			}
			return m, nil
		}
		m.profile = msg.profile
		m.mode = settingsModeView
		m.err = nil
		m.statusMsg = "Profile saved"
		profile := msg.profile
		return m, func() tea.Msg { return ProfileChangedMsg{Profile: profile} }

	case settingsSavedMsg:
		if msg.err != nil {
			m.form.fail(msg.err)
			return m, nil
		}
		m.mode = settingsModeView
		m.statusMsg = "Settings saved"
		return m, nil

	case themeToggledMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.theme = msg.theme
		m.statusMsg = fmt.Sprintf("Theme set to %s", msg.theme)
		theme := msg.theme
		return m, func() tea.Msg { return ThemeChangedMsg{Theme: theme} }

	case signOutMsg:
		m.mode = settingsModeView
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		return m, func() tea.Msg { return SignedOutMsg{} }
	}

	switch m.mode {
	case settingsModeProfile:
		return m.updateProfileForm(msg)
	case settingsModeInvoice:
		return m.updateInvoiceForm(msg)
	case settingsModeLogo:
		return m.updateLogo(msg)
	case settingsModeConfirmSignOut:
		if msg, ok := msg.(tea.KeyMsg); ok {
			if key.Matches(msg, DefaultKeyMap.Confirm) {
				return m, m.signOut()
			}
			m.mode = settingsModeView
		}
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		m.err = nil
		m.statusMsg = ""
		switch msg.String() {
		case "e":
			return m, m.openProfileForm()
		case "enter":
			return m, m.openInvoiceForm()
		case "t":
			return m, m.toggleTheme()
		case "l":
			m.logo.SetValue("")
			m.mode = settingsModeLogo
			return m, m.logo.Focus()
		case "L":
			if m.profile.Logo == "" {
				return m, nil
			}
			return m, m.removeLogo()
		case "o":
			m.mode = settingsModeConfirmSignOut
			return m, nil
		}
	}

	return m, nil
}

func (m *SettingsModel) updateProfileForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		m.mode = settingsModeView
		return m, nil
	}
	cmd, submit := m.form.update(msg)
	if submit {
		return m, m.saveProfile()
	}
	return m, cmd
}

func (m *SettingsModel) updateInvoiceForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		m.mode = settingsModeView
		return m, nil
	}
	cmd, submit := m.form.update(msg)
	if submit {
		return m, m.saveSettings()
	}
	return m, cmd
}

func (m *SettingsModel) updateLogo(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			m.logo.Blur()
			m.mode = settingsModeView
			return m, nil
		case "enter":
			path := strings.TrimSpace(m.logo.Value())
			m.logo.Blur()
			m.mode = settingsModeView
			if path == "" {
				return m, nil
			}
			return m, m.setLogo(path)
		}
	}

	var cmd tea.Cmd
	m.logo, cmd = m.logo.Update(msg)
	return m, cmd
}

func (m *SettingsModel) View() string {
	switch m.mode {
	case settingsModeProfile:
		return m.form.view("Edit Profile")
	case settingsModeInvoice:
		return m.form.view("Edit Invoice Settings")
	case settingsModeLogo:
		return titleStyle.Render("Company Logo") + "\n\n" +
			"  " + m.logo.View() + "\n\n" +
			helpStyle.Render("  enter: save  esc: cancel")
	}
	return m.viewSettings()
}

func (m *SettingsModel) viewSettings() string {
	if m.loading {
		return "Loading settings..."
	}

	var s string
	s += titleStyle.Render("Settings") + "\n\n"

	if m.statusMsg != "" {
		s += statusStyle.Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	label := lipgloss.NewStyle().Bold(true).Width(22)
	value := lipgloss.NewStyle().Foreground(primaryColor)
	row := func(name, v string) string {
		if v == "" {
			v = "-"
		}
		return fmt.Sprintf("  %s %s\n", label.Render(name), value.Render(v))
	}

	logo := "none"
	if m.profile.Logo != "" {
		logo = "set"
	}

	s += subtitleStyle.Render("  Profile") + "\n\n"
	s += row("Company:", m.profile.CompanyName)
	s += row("Email:", m.profile.Email)
	s += row("Address:", m.profile.Address)
	s += row("Phone:", m.profile.Phone)
	s += row("Logo:", logo)
	s += "\n"

	s += subtitleStyle.Render("  Appearance") + "\n\n"
	s += row("Theme:", string(m.theme))
	s += "\n"

	cfg := m.app.Config.Invoice
	s += subtitleStyle.Render("  Invoice Settings") + "\n\n"
	s += row("Output Directory:", cfg.OutputDir)
	s += row("Number Prefix:", cfg.NumberPrefix)
	s += row("Numbering:", cfg.Numbering)
	s += row("Default Due Days:", strconv.Itoa(cfg.DefaultDueDays))
	s += row("Default Tax Rate:", formatNumber(cfg.DefaultTaxRate)+"%")

	s += "\n"
	if m.mode == settingsModeConfirmSignOut {
		s += warningStyle.Render("  Sign out? Your data stays on this machine. y: confirm  any other key: cancel")
	} else {
		s += helpStyle.Render("  e: edit profile  enter: invoice settings  t: toggle theme  l: set logo  L: remove logo  o: sign out")
	}

	return s
}
