package services

import (
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Invoice statuses. A draft has no number; sending assigns the number
// exactly once.
const (
	InvoiceDraft = "draft"
	InvoiceSent  = "sent"
)

// VAT options. The 21% rate is a fixed simplification, not a tax table.
const (
	VATStandard = "21"
	VATExempt   = "exempt"

	vatStandardRate = 0.21
)

// VATBreakdown computes the VAT amount and gross total for a taxable
// base under the given option. Unknown options are treated as exempt.
func VATBreakdown(taxableBase float64, vatOption string) (vatAmount, total float64) {
	if vatOption == VATStandard {
		vatAmount = Round2(taxableBase * vatStandardRate)
	}
	return vatAmount, Round2(taxableBase + vatAmount)
}

// GetOrCreateInvoice returns the invoice attached to a billing milestone,
// creating a draft lazily on first view. At most one invoice ever exists
// per milestone (unique index on the billing relation).
func GetOrCreateInvoice(app *pocketbase.PocketBase, billingID string) (*core.Record, error) {
	existing, err := app.FindRecordsByFilter(
		"invoices",
		"billing = {:billingId}",
		"", 1, 0,
		map[string]any{"billingId": billingID},
	)
	if err == nil && len(existing) > 0 {
		return existing[0], nil
	}

	billing, err := app.FindRecordById("billing_items", billingID)
	if err != nil {
		return nil, fmt.Errorf("invoice: billing item %s not found: %w", billingID, err)
	}

	invoicesCol, err := app.FindCollectionByNameOrId("invoices")
	if err != nil {
		return nil, fmt.Errorf("invoice: could not find invoices collection: %w", err)
	}

	amount := billing.GetFloat("amount")
	vatAmount, total := VATBreakdown(amount, VATStandard)

	record := core.NewRecord(invoicesCol)
	record.Set("billing", billingID)
	record.Set("project", billing.GetString("project"))
	record.Set("amount", amount)
	record.Set("client_name", billingClientName(app, billing))
	record.Set("date", time.Now().UTC())
	record.Set("number", "")
	record.Set("vat_option", VATStandard)
	record.Set("vat_amount", vatAmount)
	record.Set("total", total)
	record.Set("status", InvoiceDraft)

	if err := app.Save(record); err != nil {
		return nil, fmt.Errorf("invoice: could not create draft for billing %s: %w", billingID, err)
	}
	return record, nil
}

// SaveInvoice persists a changed VAT option and its recomputed amounts.
// It never assigns a number and never touches the billing item status.
func SaveInvoice(app *pocketbase.PocketBase, invoiceID, vatOption string) (*core.Record, error) {
	invoice, err := app.FindRecordById("invoices", invoiceID)
	if err != nil {
		return nil, fmt.Errorf("invoice: %s not found: %w", invoiceID, err)
	}

	if vatOption != VATStandard && vatOption != VATExempt {
		vatOption = VATExempt
	}

	vatAmount, total := VATBreakdown(invoice.GetFloat("amount"), vatOption)
	invoice.Set("vat_option", vatOption)
	invoice.Set("vat_amount", vatAmount)
	invoice.Set("total", total)

	if err := app.Save(invoice); err != nil {
		return nil, fmt.Errorf("invoice: could not save %s: %w", invoiceID, err)
	}
	return invoice, nil
}

// SendInvoice issues an invoice: assigns the next sequential number for
// the current year, stamps the issue date, marks it sent, and flips the
// originating billing milestone to Invoice_sent. The invoice and its
// milestone always change together; callers never mutate one without the
// other. Sending an already-sent invoice is a no-op — the number is
// assigned exactly once.
func SendInvoice(app *pocketbase.PocketBase, invoiceID string, now time.Time) (*core.Record, error) {
	storeMu.Lock()
	defer storeMu.Unlock()

	invoice, err := app.FindRecordById("invoices", invoiceID)
	if err != nil {
		return nil, fmt.Errorf("invoice: %s not found: %w", invoiceID, err)
	}

	if invoice.GetString("status") == InvoiceSent {
		return invoice, nil
	}

	number, err := NextInvoiceNumber(app, now)
	if err != nil {
		return nil, err
	}

	vatAmount, total := VATBreakdown(invoice.GetFloat("amount"), invoice.GetString("vat_option"))
	invoice.Set("number", number)
	invoice.Set("date", now.UTC())
	invoice.Set("vat_amount", vatAmount)
	invoice.Set("total", total)
	invoice.Set("status", InvoiceSent)

	if err := app.Save(invoice); err != nil {
		return nil, fmt.Errorf("invoice: could not send %s: %w", invoiceID, err)
	}

	billing, err := app.FindRecordById("billing_items", invoice.GetString("billing"))
	if err != nil {
		log.Printf("invoice_send: billing item %s not found for invoice %s: %v",
			invoice.GetString("billing"), invoiceID, err)
		return invoice, nil
	}

	if billing.GetString("invoice_status") == BillingPending {
		billing.Set("invoice_status", BillingSent)
		if err := app.Save(billing); err != nil {
			log.Printf("invoice_send: could not update billing item %s: %v", billing.Id, err)
		}
	}

	return invoice, nil
}

// billingClientName resolves the display name for a milestone's client.
// The name is denormalized onto the invoice at creation time; the id on
// the billing item stays authoritative.
func billingClientName(app *pocketbase.PocketBase, billing *core.Record) string {
	client, err := app.FindRecordById("customers", billing.GetString("client"))
	if err != nil {
		return ""
	}
	return client.GetString("name")
}
