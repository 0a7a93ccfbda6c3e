package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/andy/swiftbill/internal/config"
	"github.com/andy/swiftbill/internal/domain"
	"github.com/andy/swiftbill/internal/repository"
)

// Numberer assigns the human-readable number of a new invoice
type Numberer interface {
	Next(ctx context.Context, existing []domain.Invoice) (string, error)
}

// NewNumberer returns the strategy named by kind (see config.Numbering*)
func NewNumberer(kind, prefix string, counter repository.Counter) (Numberer, error) {
	switch kind {
	case config.NumberingSequence, "":
		return &sequenceNumberer{prefix: prefix, counter: counter}, nil
	case config.NumberingCount:
		return &countNumberer{prefix: prefix}, nil
	}
	return nil, fmt.Errorf("unknown invoice numbering %q", kind)
}

// countNumberer numbers by collection size. Deleting an invoice can make
// the next number repeat an existing one.
type countNumberer struct {
	prefix string
}

func (n *countNumberer) Next(ctx context.Context, existing []domain.Invoice) (string, error) {
	return formatInvoiceNumber(n.prefix, len(existing)+1), nil
}

// sequenceNumberer numbers from a persisted counter, floored at the highest
// number already in the collection, so numbers are never reused.
type sequenceNumberer struct {
	prefix  string
	counter repository.Counter
}

func (n *sequenceNumberer) Next(ctx context.Context, existing []domain.Invoice) (string, error) {
	floor := 0
	for _, inv := range existing {
		if seq, ok := parseInvoiceNumber(n.prefix, inv.InvoiceNumber); ok && seq > floor {
			floor = seq
		}
	}

	next, err := n.counter.Next(ctx, floor)
	if err != nil {
		return "", fmt.Errorf("failed to generate invoice number: %w", err)
	}
	return formatInvoiceNumber(n.prefix, next), nil
}

func formatInvoiceNumber(prefix string, n int) string {
	return fmt.Sprintf("%s-%03d", prefix, n)
}

func parseInvoiceNumber(prefix, number string) (int, bool) {
	rest, ok := strings.CutPrefix(number, prefix+"-")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
