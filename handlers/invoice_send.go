package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"firmdesk/services"
)

// buildInvoiceDocument assembles the renderable form of an invoice from
// the record, its project and the company settings.
func buildInvoiceDocument(app *pocketbase.PocketBase, invoice *core.Record) services.InvoiceDocument {
	doc := services.InvoiceDocument{
		Number:     invoice.GetString("number"),
		Date:       invoice.GetDateTime("date").Time().Format(services.DateLayout),
		ClientName: invoice.GetString("client_name"),
		Amount:     invoice.GetFloat("amount"),
		VATOption:  invoice.GetString("vat_option"),
		VATAmount:  invoice.GetFloat("vat_amount"),
		Total:      invoice.GetFloat("total"),
	}

	if project, err := app.FindRecordById("projects", invoice.GetString("project")); err == nil {
		doc.ProjectTitle = project.GetString("title")
	}
	if billing, err := app.FindRecordById("billing_items", invoice.GetString("billing")); err == nil {
		doc.Description = billing.GetString("description")
	}

	if col, err := app.FindCollectionByNameOrId("company_settings"); err == nil {
		if records, err := app.FindAllRecords(col); err == nil && len(records) > 0 {
			settings := records[0]
			doc.CompanyName = settings.GetString("company_name")
			doc.Address = settings.GetString("address")
			doc.TaxID = settings.GetString("tax_id")
		}
	}

	return doc
}

// invoiceRecipient resolves the email address to send an invoice to,
// via its billing milestone's client.
func invoiceRecipient(app *pocketbase.PocketBase, invoice *core.Record) string {
	billing, err := app.FindRecordById("billing_items", invoice.GetString("billing"))
	if err != nil {
		return ""
	}
	client, err := app.FindRecordById("customers", billing.GetString("client"))
	if err != nil {
		return ""
	}
	return client.GetString("email")
}

// HandleInvoiceSend issues an invoice: a number is assigned, the issue
// date is stamped, and the billing milestone flips to Invoice_sent.
// Emailing the PDF afterwards is best effort and never fails the send.
func HandleInvoiceSend(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		invoiceID := e.Request.PathValue("id")

		invoice, err := services.SendInvoice(app, invoiceID, time.Now())
		if err != nil {
			log.Printf("invoice_send: %v", err)
			return e.String(http.StatusNotFound, "Invoice not found")
		}

		if settings, ok := services.LoadSMTPSettings(app); ok {
			doc := buildInvoiceDocument(app, invoice)
			pdf, err := services.GenerateInvoicePDF(doc)
			if err != nil {
				log.Printf("invoice_send: could not render PDF for invoice %s: %v", invoice.GetString("number"), err)
			} else {
				services.SendInvoiceEmail(settings, invoiceRecipient(app, invoice), doc, pdf)
			}
		}

		SetToast(e, "success", "Invoice "+invoice.GetString("number")+" sent")
		return e.JSON(http.StatusOK, invoiceJSON(invoice))
	}
}
