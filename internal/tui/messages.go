package tui

import "github.com/andy/swiftbill/internal/domain"

// SwitchScreenMsg requests a screen change
type SwitchScreenMsg struct {
	Screen Screen
}

// RefreshDataMsg requests data refresh
type RefreshDataMsg struct{}

// ErrorMsg carries error information
type ErrorMsg struct {
	Err error
}

// OpenNewClientFormMsg tells the clients screen to open the new client form
type OpenNewClientFormMsg struct{}

// SignedInMsg is sent once a profile exists
type SignedInMsg struct {
	Profile domain.UserProfile
}

// ProfileChangedMsg carries a saved profile back to the header
type ProfileChangedMsg struct {
	Profile domain.UserProfile
}

// SignedOutMsg returns the app to the sign-in screen
type SignedOutMsg struct{}

// ThemeChangedMsg restyles the whole UI
type ThemeChangedMsg struct {
	Theme domain.Theme
}

// sessionCheckMsg reports the stored profile and theme at startup
type sessionCheckMsg struct {
	signedIn   bool
	company    string
	hasClients bool
	theme      domain.Theme
}
