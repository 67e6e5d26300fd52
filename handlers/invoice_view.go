package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"firmdesk/services"
)

// invoiceJSON shapes an invoice record for display.
func invoiceJSON(record *core.Record) map[string]any {
	return map[string]any{
		"id":          record.Id,
		"billing":     record.GetString("billing"),
		"project":     record.GetString("project"),
		"number":      record.GetString("number"),
		"date":        record.GetString("date"),
		"client_name": record.GetString("client_name"),
		"amount":      services.FormatCurrency(record.GetFloat("amount")),
		"vat_option":  record.GetString("vat_option"),
		"vat_amount":  services.FormatCurrency(record.GetFloat("vat_amount")),
		"total":       services.FormatCurrency(record.GetFloat("total")),
		"status":      record.GetString("status"),
	}
}

// HandleInvoiceView returns the invoice for a billing milestone, creating
// a numberless draft on first view.
func HandleInvoiceView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		billingID := e.Request.PathValue("billingId")
		if billingID == "" {
			return e.String(http.StatusBadRequest, "Missing billing ID")
		}

		record, err := services.GetOrCreateInvoice(app, billingID)
		if err != nil {
			log.Printf("invoice_view: %v", err)
			return e.String(http.StatusNotFound, "Billing milestone not found")
		}

		return e.JSON(http.StatusOK, invoiceJSON(record))
	}
}

// HandleInvoiceSave persists a changed VAT option without issuing the
// invoice: no number is assigned and the billing milestone is untouched.
func HandleInvoiceSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		invoiceID := e.Request.PathValue("id")

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		record, err := services.SaveInvoice(app, invoiceID, strings.TrimSpace(e.Request.FormValue("vat_option")))
		if err != nil {
			log.Printf("invoice_save: %v", err)
			return e.String(http.StatusNotFound, "Invoice not found")
		}

		SetToast(e, "success", "Invoice saved")
		return e.JSON(http.StatusOK, invoiceJSON(record))
	}
}

// HandleInvoiceList returns all invoices, most recently issued first.
func HandleInvoiceList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter(
			"invoices",
			"id != ''",
			"-date", 0, 0, nil,
		)
		if err != nil {
			log.Printf("invoice_list: could not load invoices: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not load invoices")
		}

		items := make([]map[string]any, 0, len(records))
		for _, r := range records {
			items = append(items, invoiceJSON(r))
		}
		return e.JSON(http.StatusOK, map[string]any{"invoices": items})
	}
}
