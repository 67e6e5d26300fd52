package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
)

// formatInvoiceNumber constructs the invoice number string.
// Format: {year}/{sequence}, sequence zero-padded to 3 digits.
func formatInvoiceNumber(year, sequence int) string {
	return fmt.Sprintf("%d/%03d", year, sequence)
}

// parseInvoiceSequence extracts the sequence from an existing invoice
// number if it belongs to the given year. Returns 0 for numbers from
// other years or with an unexpected shape.
func parseInvoiceSequence(number string, year int) int {
	prefix := fmt.Sprintf("%d/", year)
	if !strings.HasPrefix(number, prefix) {
		return 0
	}
	seq, err := strconv.Atoi(strings.TrimPrefix(number, prefix))
	if err != nil {
		return 0
	}
	return seq
}

// NextInvoiceNumber computes the number for an invoice being sent now.
// The sequence is (highest sequence among invoices already sent this
// calendar year) + 1, so numbers stay monotonically increasing within a
// year no matter how sends interleave with other years' invoices.
func NextInvoiceNumber(app *pocketbase.PocketBase, now time.Time) (string, error) {
	year := now.Year()

	sent, err := app.FindRecordsByFilter(
		"invoices",
		"status = 'sent'",
		"", 0, 0, nil,
	)
	if err != nil {
		return "", fmt.Errorf("invoice number: could not query sent invoices: %w", err)
	}

	maxSeq := 0
	for _, inv := range sent {
		if seq := parseInvoiceSequence(inv.GetString("number"), year); seq > maxSeq {
			maxSeq = seq
		}
	}

	return formatInvoiceNumber(year, maxSeq+1), nil
}
