package domain

import (
	"strings"
)

// UserProfile is the single account profile stored on this machine
type UserProfile struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	CompanyName string `json:"companyName"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Logo        string `json:"logo"` // data URI or empty
}

// DefaultCompanyName is used when signing in without a company name
const DefaultCompanyName = "My Company"

// ProfileInput is the profile form payload
type ProfileInput struct {
	CompanyName string
	Email       string
	Address     string
	Phone       string
}

// Validate checks the profile form
func (in ProfileInput) Validate() Violations {
	v := Violations{}
	required("companyName", in.CompanyName, "Company name is required", v)
	validEmail("email", in.Email, v)
	return v
}

// Apply copies the form onto the profile, leaving ID and logo alone
func (p *UserProfile) Apply(in ProfileInput) {
	p.CompanyName = strings.TrimSpace(in.CompanyName)
	p.Email = strings.TrimSpace(in.Email)
	p.Address = in.Address
	p.Phone = in.Phone
}

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme accepts "dark" or "light"
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeDark:
		return ThemeDark, nil
	case ThemeLight:
		return ThemeLight, nil
	}
	return "", ErrInvalidTheme
}
