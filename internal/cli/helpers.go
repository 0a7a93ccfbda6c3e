package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andy/swiftbill/internal/domain"
	"github.com/andy/swiftbill/internal/service"
)

// shortIDLen is how much of a UUID list commands print
const shortIDLen = 8

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// resolve finds the record ref points at: an exact id, an alternate key
// (such as an invoice number), or a unique id prefix
func resolve[T any](records []T, ref, kind string, id func(T) string, alt func(T) string) (T, error) {
	var zero T
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return zero, fmt.Errorf("%s reference is empty", kind)
	}

	for _, r := range records {
		if id(r) == ref {
			return r, nil
		}
	}
	if alt != nil {
		for _, r := range records {
			if strings.EqualFold(alt(r), ref) {
				return r, nil
			}
		}
	}

	var matches []T
	for _, r := range records {
		if strings.HasPrefix(id(r), ref) {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 0:
		return zero, fmt.Errorf("%s %q: %w", kind, ref, service.ErrNotFound)
	case 1:
		return matches[0], nil
	}
	return zero, fmt.Errorf("%s %q is ambiguous (%d matches), use more characters", kind, ref, len(matches))
}

func clientID(c domain.Client) string   { return c.ID }
func clientName(c domain.Client) string { return c.Name }
func itemID(i domain.Item) string       { return i.ID }
func invoiceID(i domain.Invoice) string { return i.ID }
func invoiceNo(i domain.Invoice) string { return i.InvoiceNumber }

// confirm asks a yes/no question on the command's input unless --yes is set
func confirm(cmd *cobra.Command, message string) bool {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true
	}
	return confirmPrompt(cmd.InOrStdin(), cmd.OutOrStdout(), message)
}

func confirmPrompt(in io.Reader, out io.Writer, message string) bool {
	fmt.Fprintf(out, "%s [y/N] ", message)
	reader := bufio.NewReader(in)
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return false
	}
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

// explain turns validation failures into one line per field
func explain(err error) error {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	lines := make([]string, 0, len(verr.Violations))
	for _, f := range verr.Violations.Fields() {
		lines = append(lines, fmt.Sprintf("  %s: %s", f, verr.Violations[f]))
	}
	return fmt.Errorf("invalid input:\n%s", strings.Join(lines, "\n"))
}
