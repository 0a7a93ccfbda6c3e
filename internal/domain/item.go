package domain

import (
	"strings"
)

type Unit string

const (
	UnitHour    Unit = "hour"
	UnitDay     Unit = "day"
	UnitPiece   Unit = "piece"
	UnitService Unit = "service"
	UnitProject Unit = "project"
	UnitMonth   Unit = "month"
	UnitYear    Unit = "year"
)

// Units lists every unit in display order
var Units = []Unit{UnitHour, UnitDay, UnitPiece, UnitService, UnitProject, UnitMonth, UnitYear}

// Valid reports whether u is a known unit
func (u Unit) Valid() bool {
	for _, known := range Units {
		if u == known {
			return true
		}
	}
	return false
}

// Item is a catalog entry used to prefill invoice lines
type Item struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unitPrice"`
	Unit        Unit    `json:"unit"`
}

// ItemInput is the form payload for an item. UnitPrice is kept as text so
// that validation sees exactly what the user typed.
type ItemInput struct {
	Name        string
	Description string
	UnitPrice   string
	Unit        string
}

func (i *Item) GetID() string   { return i.ID }
func (i *Item) SetID(id string) { i.ID = id }

// Validate checks the item form
func (in ItemInput) Validate() Violations {
	v := Violations{}
	required("name", in.Name, "Item name is required", v)
	if strings.TrimSpace(in.UnitPrice) == "" || ParseAmount(in.UnitPrice) <= 0 {
		v["unitPrice"] = "Valid unit price is required"
	}
	if in.Unit != "" && !Unit(in.Unit).Valid() {
		v["unit"] = "Unit is invalid"
	}
	return v
}

// NewItem builds an item from validated input
func NewItem(in ItemInput) Item {
	unit := Unit(in.Unit)
	if unit == "" {
		unit = UnitHour
	}
	return Item{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		UnitPrice:   ParseAmount(in.UnitPrice),
		Unit:        unit,
	}
}

// Matches reports whether the item matches a search term over name and description
func (i Item) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(i.Name), term) ||
		strings.Contains(strings.ToLower(i.Description), term)
}
