package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// InvoiceDocument is the renderable form of an invoice, assembled by the
// handler from the invoice, its project and the company settings.
type InvoiceDocument struct {
	Number       string
	Date         string
	CompanyName  string
	Address      string
	TaxID        string
	ClientName   string
	ProjectTitle string
	Description  string
	Amount       float64
	VATOption    string
	VATAmount    float64
	Total        float64
}

// GenerateInvoicePDF renders an invoice as a printable A4 PDF and returns
// the raw bytes. Draft invoices render with "DRAFT" in place of a number.
func GenerateInvoicePDF(doc InvoiceDocument) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	addInvoiceHeader(m, doc)
	addInvoiceParties(m, doc)
	addInvoiceLines(m, doc)
	addInvoiceTotals(m, doc)

	pdf, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invoice PDF: %w", err)
	}
	return pdf.GetBytes(), nil
}

func addInvoiceHeader(m core.Maroto, doc InvoiceDocument) {
	number := doc.Number
	if number == "" {
		number = "DRAFT"
	}

	m.AddRows(
		row.New(14).Add(
			col.New(8).Add(
				text.New(doc.CompanyName, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
			col.New(4).Add(
				text.New(fmt.Sprintf("Invoice %s", number), props.Text{
					Size:  13,
					Style: fontstyle.Bold,
					Align: align.Right,
				}),
			),
		),
		row.New(6).Add(
			col.New(8).Add(
				text.New(doc.Address, props.Text{
					Size:  9,
					Align: align.Left,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
			col.New(4).Add(
				text.New(fmt.Sprintf("Date: %s", doc.Date), props.Text{
					Size:  9,
					Align: align.Right,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
		row.New(6).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("Tax ID: %s", doc.TaxID), props.Text{
					Size:  9,
					Align: align.Left,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
		row.New(4).Add(col.New(12).Add(line.New())),
	)
}

func addInvoiceParties(m core.Maroto, doc InvoiceDocument) {
	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(
				text.New("Billed to", props.Text{
					Size:  9,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
		),
		row.New(6).Add(
			col.New(12).Add(
				text.New(doc.ClientName, props.Text{
					Size:  11,
					Align: align.Left,
				}),
			),
		),
		row.New(6).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("Project: %s", doc.ProjectTitle), props.Text{
					Size:  9,
					Align: align.Left,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
		row.New(6),
	)
}

func addInvoiceLines(m core.Maroto, doc InvoiceDocument) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
		Align: align.Left,
	}
	headerRight := headerText
	headerRight.Align = align.Right
	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(9).Add(text.New("Description", headerText)).WithStyle(&headerCell),
			col.New(3).Add(text.New("Amount", headerRight)).WithStyle(&headerCell),
		),
		row.New(8).Add(
			col.New(9).Add(text.New(doc.Description, props.Text{Size: 9, Align: align.Left})),
			col.New(3).Add(text.New(FormatCurrency(doc.Amount), props.Text{Size: 9, Align: align.Right})),
		),
	)
}

func addInvoiceTotals(m core.Maroto, doc InvoiceDocument) {
	vatLabel := "VAT (21%)"
	if doc.VATOption == VATExempt {
		vatLabel = "VAT (exempt)"
	}

	labelText := props.Text{Size: 9, Align: align.Right}
	valueText := props.Text{Size: 9, Align: align.Right}
	totalText := props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right}

	m.AddRows(
		row.New(4).Add(col.New(12).Add(line.New())),
		row.New(6).Add(
			col.New(9).Add(text.New("Taxable base", labelText)),
			col.New(3).Add(text.New(FormatCurrency(doc.Amount), valueText)),
		),
		row.New(6).Add(
			col.New(9).Add(text.New(vatLabel, labelText)),
			col.New(3).Add(text.New(FormatCurrency(doc.VATAmount), valueText)),
		),
		row.New(8).Add(
			col.New(9).Add(text.New("Total", totalText)),
			col.New(3).Add(text.New(FormatCurrency(doc.Total), totalText)),
		),
	)
}
