package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"firmdesk/services"
)

// HandleInvoicePDF streams a single invoice as a PDF download. Drafts
// download too, rendered with a DRAFT marker instead of a number.
func HandleInvoicePDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		invoiceID := e.Request.PathValue("id")

		invoice, err := app.FindRecordById("invoices", invoiceID)
		if err != nil {
			log.Printf("invoice_pdf: could not find invoice %s: %v", invoiceID, err)
			return e.String(http.StatusNotFound, "Invoice not found")
		}

		doc := buildInvoiceDocument(app, invoice)
		pdfBytes, err := services.GenerateInvoicePDF(doc)
		if err != nil {
			log.Printf("invoice_pdf: could not render invoice %s: %v", invoiceID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not generate PDF")
		}

		name := doc.Number
		if name == "" {
			name = "draft-" + invoice.Id
		}
		filename := fmt.Sprintf("invoice-%s.pdf", strings.ReplaceAll(name, "/", "-"))

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}

// HandleInvoiceRegisterExport streams the full invoice register as an
// Excel workbook download.
func HandleInvoiceRegisterExport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter(
			"invoices",
			"id != ''",
			"-date", 0, 0, nil,
		)
		if err != nil {
			log.Printf("invoice_register: could not load invoices: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not load invoices")
		}

		rows := make([]services.InvoiceRow, 0, len(records))
		for _, r := range records {
			projectTitle := ""
			if project, err := app.FindRecordById("projects", r.GetString("project")); err == nil {
				projectTitle = project.GetString("title")
			}
			rows = append(rows, services.InvoiceRow{
				Number:     r.GetString("number"),
				Date:       r.GetDateTime("date").Time().Format(services.DateLayout),
				ClientName: r.GetString("client_name"),
				Project:    projectTitle,
				Amount:     r.GetFloat("amount"),
				VATAmount:  r.GetFloat("vat_amount"),
				Total:      r.GetFloat("total"),
				Status:     r.GetString("status"),
			})
		}

		excelBytes, err := services.GenerateInvoiceRegister(rows)
		if err != nil {
			log.Printf("invoice_register: could not generate workbook: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not generate export")
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", `attachment; filename="invoice-register.xlsx"`)
		e.Response.Write(excelBytes)
		return nil
	}
}
