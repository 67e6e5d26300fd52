package services

import (
	"bytes"
	"fmt"
	"log"
	"net/smtp"

	"github.com/domodwyer/mailyak/v3"
	"github.com/pocketbase/pocketbase"
)

// SMTPSettings is the mail configuration read from company_settings.
type SMTPSettings struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

// LoadSMTPSettings reads the mail configuration from the company_settings
// record. Returns ok=false when no host is configured, in which case
// invoice emails are skipped.
func LoadSMTPSettings(app *pocketbase.PocketBase) (SMTPSettings, bool) {
	col, err := app.FindCollectionByNameOrId("company_settings")
	if err != nil {
		return SMTPSettings{}, false
	}
	records, err := app.FindAllRecords(col)
	if err != nil || len(records) == 0 {
		return SMTPSettings{}, false
	}

	settings := records[0]
	host := settings.GetString("smtp_host")
	if host == "" {
		return SMTPSettings{}, false
	}

	port := int(settings.GetFloat("smtp_port"))
	if port == 0 {
		port = 587
	}

	return SMTPSettings{
		Host:     host,
		Port:     port,
		User:     settings.GetString("smtp_user"),
		Password: settings.GetString("smtp_password"),
		From:     settings.GetString("billing_email"),
		FromName: settings.GetString("company_name"),
	}, true
}

// SendInvoiceEmail mails a sent invoice with its PDF attached. This is a
// best-effort terminal side effect: failures are logged and swallowed,
// never surfaced to the send flow.
func SendInvoiceEmail(settings SMTPSettings, recipient string, doc InvoiceDocument, pdf []byte) {
	if recipient == "" {
		log.Printf("mailer: invoice %s has no recipient address, skipping email", doc.Number)
		return
	}

	mail := mailyak.New(
		fmt.Sprintf("%s:%d", settings.Host, settings.Port),
		smtp.PlainAuth("", settings.User, settings.Password, settings.Host),
	)

	mail.From(settings.From)
	mail.FromName(settings.FromName)
	mail.To(recipient)
	mail.Subject(fmt.Sprintf("Invoice %s — %s", doc.Number, settings.FromName))
	mail.Plain().Set(fmt.Sprintf(
		"Dear %s,\n\nPlease find attached invoice %s, dated %s, for a total of %s.\n\nKind regards,\n%s\n",
		doc.ClientName, doc.Number, doc.Date, FormatCurrency(doc.Total), settings.FromName,
	))
	mail.Attach(fmt.Sprintf("invoice-%s.pdf", sanitizeFileName(doc.Number)), bytes.NewReader(pdf))

	if err := mail.Send(); err != nil {
		log.Printf("mailer: could not send invoice %s to %s: %v", doc.Number, recipient, err)
	}
}

// sanitizeFileName makes an invoice number safe for use in a filename
// ("2026/001" -> "2026-001").
func sanitizeFileName(number string) string {
	out := make([]byte, 0, len(number))
	for i := 0; i < len(number); i++ {
		c := number[i]
		if c == '/' || c == '\\' || c == ' ' {
			out = append(out, '-')
			continue
		}
		out = append(out, c)
	}
	return string(out)
}
