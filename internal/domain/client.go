package domain

import (
	"strings"
)

type Client struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContactPerson string `json:"contactPerson"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	TaxID         string `json:"taxId,omitempty"`
}

// ClientInput is the form payload for creating or editing a client
type ClientInput struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contactPerson"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	TaxID         string `json:"taxId"`
}

// NewClient builds a client from validated input; the store assigns the ID
func NewClient(in ClientInput) Client {
	return Client{
		Name:          strings.TrimSpace(in.Name),
		ContactPerson: in.ContactPerson,
		Email:         strings.TrimSpace(in.Email),
		Phone:         in.Phone,
		Address:       in.Address,
		TaxID:         in.TaxID,
	}
}

func (c *Client) GetID() string   { return c.ID }
func (c *Client) SetID(id string) { c.ID = id }

// Validate checks the required fields of a client form
func (in ClientInput) Validate() Violations {
	v := Violations{}
	required("name", in.Name, "Client name is required", v)
	validEmail("email", in.Email, v)
	return v
}

// Matches reports whether the client matches a search term
// (case-insensitive over name, email and contact person)
func (c Client) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Name), term) ||
		strings.Contains(strings.ToLower(c.Email), term) ||
		strings.Contains(strings.ToLower(c.ContactPerson), term)
}
