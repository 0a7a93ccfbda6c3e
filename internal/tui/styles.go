package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/andy/swiftbill/internal/domain"
)

// palette holds the colors one theme is built from
type palette struct {
	primary lipgloss.Color
	accent  lipgloss.Color
	muted   lipgloss.Color
	success lipgloss.Color
	warning lipgloss.Color
	errorC  lipgloss.Color
	border  lipgloss.Color
	help    lipgloss.Color
	footer  lipgloss.Color
	onSel   lipgloss.Color
}

var palettes = map[domain.Theme]palette{
	domain.ThemeDark: {
		primary: lipgloss.Color("39"),  // Blue
		accent:  lipgloss.Color("205"), // Pink
		muted:   lipgloss.Color("241"), // Gray
		success: lipgloss.Color("76"),  // Green
		warning: lipgloss.Color("214"), // Orange
		errorC:  lipgloss.Color("196"), // Red
		border:  lipgloss.Color("63"),  // Soft purple
		help:    lipgloss.Color("117"), // Bright cyan
		footer:  lipgloss.Color("226"), // Bright yellow
		onSel:   lipgloss.Color("0"),
	},
	domain.ThemeLight: {
		primary: lipgloss.Color("25"),
		accent:  lipgloss.Color("162"),
		muted:   lipgloss.Color("245"),
		success: lipgloss.Color("28"),
		warning: lipgloss.Color("166"),
		errorC:  lipgloss.Color("160"),
		border:  lipgloss.Color("61"),
		help:    lipgloss.Color("30"),
		footer:  lipgloss.Color("94"),
		onSel:   lipgloss.Color("231"),
	},
}

var (
	currentTheme = domain.ThemeDark

	// Colors
	primaryColor lipgloss.Color
	accentColor  lipgloss.Color
	mutedColor   lipgloss.Color
	successColor lipgloss.Color
	warningColor lipgloss.Color
	errorColor   lipgloss.Color
	borderColor  lipgloss.Color

	// Base styles
	titleStyle    lipgloss.Style
	subtitleStyle lipgloss.Style
	helpStyle     lipgloss.Style
	selectedStyle lipgloss.Style
	labelStyle    lipgloss.Style
	focusStyle    lipgloss.Style
	errorStyle    lipgloss.Style
	warningStyle  lipgloss.Style
	statusStyle   lipgloss.Style
	amountStyle   lipgloss.Style

	// Layout
	appBorderStyle lipgloss.Style

	// Header/Footer
	headerStyle lipgloss.Style
	footerStyle lipgloss.Style

	// Invoice status badges
	statusStyles map[domain.InvoiceStatus]lipgloss.Style
)

func init() {
	setTheme(domain.ThemeDark)
}

// setTheme rebuilds every package style from the theme's palette
func setTheme(t domain.Theme) {
	p, ok := palettes[t]
	if !ok {
		t, p = domain.ThemeDark, palettes[domain.ThemeDark]
	}
	currentTheme = t

	primaryColor = p.primary
	accentColor = p.accent
	mutedColor = p.muted
	successColor = p.success
	warningColor = p.warning
	errorColor = p.errorC
	borderColor = p.border

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	subtitleStyle = lipgloss.NewStyle().Foreground(mutedColor)
	helpStyle = lipgloss.NewStyle().Foreground(p.help)
	selectedStyle = lipgloss.NewStyle().Bold(true).Background(primaryColor).Foreground(p.onSel)
	labelStyle = lipgloss.NewStyle().Bold(true).Width(22)
	focusStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	errorStyle = lipgloss.NewStyle().Foreground(errorColor)
	warningStyle = lipgloss.NewStyle().Foreground(warningColor)
	statusStyle = lipgloss.NewStyle().Foreground(successColor)
	amountStyle = lipgloss.NewStyle().Foreground(accentColor)

	appBorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(1, 2)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(p.footer).Bold(true)

	statusStyles = map[domain.InvoiceStatus]lipgloss.Style{
		domain.InvoiceStatusDraft:     lipgloss.NewStyle().Foreground(mutedColor),
		domain.InvoiceStatusSent:      lipgloss.NewStyle().Foreground(primaryColor),
		domain.InvoiceStatusPaid:      lipgloss.NewStyle().Foreground(successColor),
		domain.InvoiceStatusOverdue:   lipgloss.NewStyle().Foreground(errorColor),
		domain.InvoiceStatusCancelled: lipgloss.NewStyle().Foreground(mutedColor).Strikethrough(true),
	}
}

// renderStatus draws a status badge padded to a fixed width
func renderStatus(s domain.InvoiceStatus) string {
	style, ok := statusStyles[s]
	if !ok {
		style = subtitleStyle
	}
	return style.Width(10).Render(string(s))
}
