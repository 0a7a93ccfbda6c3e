package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-date format stored on invoices
const DateLayout = "2006-01-02"

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"

	// legacyStatusPending is an old alias of sent found in older data
	legacyStatusPending = "pending"
)

// InvoiceStatuses lists the canonical statuses in lifecycle order
var InvoiceStatuses = []InvoiceStatus{
	InvoiceStatusDraft,
	InvoiceStatusSent,
	InvoiceStatusPaid,
	InvoiceStatusOverdue,
	InvoiceStatusCancelled,
}

// NormalizeStatus folds the legacy "pending" value into sent
func NormalizeStatus(s string) InvoiceStatus {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == legacyStatusPending {
		return InvoiceStatusSent
	}
	return InvoiceStatus(s)
}

// ParseStatus normalizes s and rejects anything that is not a known status
func ParseStatus(s string) (InvoiceStatus, error) {
	status := NormalizeStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// Valid reports whether s is a canonical status
func (s InvoiceStatus) Valid() bool {
	for _, known := range InvoiceStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// UnmarshalJSON accepts legacy values so old snapshots and backups load cleanly
func (s *InvoiceStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = NormalizeStatus(raw)
	return nil
}

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Valid reports whether d is a known discount type
func (d DiscountType) Valid() bool {
	return d == DiscountPercentage || d == DiscountFixed
}

// InvoiceItem is one line of an invoice. Price and description are copied
// in when the line is built; ItemID is informational only.
type InvoiceItem struct {
	ID          string  `json:"id"`
	ItemID      string  `json:"itemId,omitempty"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Total       float64 `json:"total"`
}

// NewInvoiceItem creates a line with its total already computed
func NewInvoiceItem(description string, quantity, unitPrice float64) InvoiceItem {
	return InvoiceItem{
		ID:          uuid.NewString(),
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Total:       quantity * unitPrice,
	}
}

// FromCatalog creates a line that copies description and price from a catalog item
func FromCatalog(item Item, quantity float64) InvoiceItem {
	description := item.Name
	if item.Description != "" {
		description = item.Name + " - " + item.Description
	}
	line := NewInvoiceItem(description, quantity, item.UnitPrice)
	line.ItemID = item.ID
	return line
}

// SetQuantity updates the quantity and recomputes the line total
func (li *InvoiceItem) SetQuantity(q float64) {
	li.Quantity = q
	li.Total = li.Quantity * li.UnitPrice
}

// SetUnitPrice updates the price and recomputes the line total
func (li *InvoiceItem) SetUnitPrice(p float64) {
	li.UnitPrice = p
	li.Total = li.Quantity * li.UnitPrice
}

// SetDescription only changes the text; the total is left alone
func (li *InvoiceItem) SetDescription(d string) {
	li.Description = d
}

type Invoice struct {
	ID                  string        `json:"id"`
	InvoiceNumber       string        `json:"invoiceNumber"`
	ClientID            string        `json:"clientId"`
	ClientName          string        `json:"clientName"` // snapshot taken on create/edit
	Date                string        `json:"date"`
	DueDate             string        `json:"dueDate"`
	Items               []InvoiceItem `json:"items"`
	Subtotal            float64       `json:"subtotal"`
	TaxRate             float64       `json:"taxRate"` // percent, 0-100
	TaxAmount           float64       `json:"taxAmount"`
	DiscountType        DiscountType  `json:"discountType"`
	DiscountValue       float64       `json:"discountValue"`
	DiscountAmount      float64       `json:"discountAmount"`
	Total               float64       `json:"total"`
	Status              InvoiceStatus `json:"status"`
	Notes               string        `json:"notes"`
	PaymentInstructions string        `json:"paymentInstructions"`
	Currency            string        `json:"currency"`
}

func (i *Invoice) GetID() string   { return i.ID }
func (i *Invoice) SetID(id string) { i.ID = id }

// InvoiceInput is the editable part of an invoice
type InvoiceInput struct {
	ClientID            string
	Date                string
	DueDate             string
	Items               []InvoiceItem
	TaxRate             float64
	DiscountType        DiscountType
	DiscountValue       float64
	Notes               string
	PaymentInstructions string
	Currency            string
}

// Validate checks an invoice form
func (in InvoiceInput) Validate() Violations {
	v := Violations{}
	if strings.TrimSpace(in.ClientID) == "" {
		v["clientId"] = "Please select a client"
	}
	if len(in.Items) == 0 {
		v["items"] = "At least one item is required"
	}
	for _, li := range in.Items {
		if !finite(li.Quantity) || !finite(li.UnitPrice) {
			v["items"] = "Quantity and unit price must be numbers"
			break
		}
		if li.Quantity < 0 || li.UnitPrice < 0 {
			v["items"] = "Quantity and unit price cannot be negative"
			break
		}
	}
	if !finite(in.TaxRate) || in.TaxRate < 0 || in.TaxRate > 100 {
		v["taxRate"] = "Tax rate must be between 0 and 100"
	}
	if !finite(in.DiscountValue) {
		v["discountValue"] = "Discount must be a number"
	}
	if in.DiscountType != "" && !in.DiscountType.Valid() {
		v["discountType"] = "Discount type must be percentage or fixed"
	}
	if in.Date != "" {
		if _, err := time.Parse(DateLayout, in.Date); err != nil {
			v["date"] = "Date is invalid"
		}
	}
	if in.DueDate != "" {
		if _, err := time.Parse(DateLayout, in.DueDate); err != nil {
			v["dueDate"] = "Due date is invalid"
		}
	}
	return v
}

// Apply copies the editable fields onto the invoice and recomputes totals.
// ID, number and status are untouched.
func (i *Invoice) Apply(in InvoiceInput) {
	i.ClientID = in.ClientID
	i.Date = in.Date
	i.DueDate = in.DueDate
	i.Items = in.Items
	i.TaxRate = in.TaxRate
	i.DiscountType = in.DiscountType
	i.DiscountValue = in.DiscountValue
	i.Notes = in.Notes
	i.PaymentInstructions = in.PaymentInstructions
	i.Currency = in.Currency
	i.ApplyTotals(CalculateTotals(i.Items, i.TaxRate, i.DiscountType, i.DiscountValue))
}

// ApplyTotals stores computed totals on the invoice
func (i *Invoice) ApplyTotals(t Totals) {
	i.Subtotal = t.Subtotal
	i.TaxAmount = t.TaxAmount
	i.DiscountAmount = t.DiscountAmount
	i.Total = t.Total
}

// PastDue reports whether a sent invoice is beyond its due date. This is a
// display hint; the stored status never changes on its own.
func (i *Invoice) PastDue(now time.Time) bool {
	if i.Status != InvoiceStatusSent || i.DueDate == "" {
		return false
	}
	due, err := time.ParseInLocation(DateLayout, i.DueDate, now.Location())
	if err != nil {
		return false
	}
	return now.After(due.AddDate(0, 0, 1))
}

// Matches reports whether the invoice passes the list search and status filter.
// An empty or "all" status matches everything.
func (i *Invoice) Matches(term, status string) bool {
	if status != "" && status != "all" && i.Status != NormalizeStatus(status) {
		return false
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(i.InvoiceNumber), term) ||
		strings.Contains(strings.ToLower(i.ClientName), term)
}

// DueDateFrom returns date plus days, formatted as a calendar date
func DueDateFrom(date string, days int) (string, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", err
	}
	return d.AddDate(0, 0, days).Format(DateLayout), nil
}

// AddLine appends a free-form line and returns it
func (in *InvoiceInput) AddLine(description string, quantity, unitPrice float64) InvoiceItem {
	line := NewInvoiceItem(description, quantity, unitPrice)
	in.Items = append(in.Items, line)
	return line
}

// UpdateLine applies fn to the line with id. It reports whether the line exists.
func (in *InvoiceInput) UpdateLine(id string, fn func(*InvoiceItem)) bool {
	for i := range in.Items {
		if in.Items[i].ID == id {
			fn(&in.Items[i])
			return true
		}
	}
	return false
}

// RemoveLine drops the line with id. It reports whether anything was removed.
func (in *InvoiceInput) RemoveLine(id string) bool {
	for i := range in.Items {
		if in.Items[i].ID == id {
			in.Items = append(in.Items[:i], in.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Input returns the editable part of an existing invoice
func (i *Invoice) Input() InvoiceInput {
	items := make([]InvoiceItem, len(i.Items))
	copy(items, i.Items)
	return InvoiceInput{
		ClientID:            i.ClientID,
		Date:                i.Date,
		DueDate:             i.DueDate,
		Items:               items,
		TaxRate:             i.TaxRate,
		DiscountType:        i.DiscountType,
		DiscountValue:       i.DiscountValue,
		Notes:               i.Notes,
		PaymentInstructions: i.PaymentInstructions,
		Currency:            i.Currency,
	}
}
