package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// InvoiceRow is one line of the invoice register export.
type InvoiceRow struct {
	Number     string
	Date       string
	ClientName string
	Project    string
	Amount     float64
	VATAmount  float64
	Total      float64
	Status     string
}

// GenerateInvoiceRegister creates an Excel workbook listing invoices and
// returns the file contents as a byte slice.
func GenerateInvoiceRegister(rows []InvoiceRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Invoices"
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	widths := []float64{12, 12, 28, 28, 14, 14, 14, 10}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Color: "#FFFFFF",
			Size:  11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: registerBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	cellStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: registerBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create cell style: %w", err)
	}

	amountStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		NumFmt:    4, // #,##0.00
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    registerBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create amount style: %w", err)
	}

	headers := []string{"Number", "Date", "Client", "Project", "Amount", "VAT", "Total", "Status"}
	for i, h := range headers {
		cell := fmt.Sprintf("%s1", columns[i])
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("set header %s: %w", cell, err)
		}
	}
	if err := f.SetCellStyle(sheetName, "A1", "H1", headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, r := range rows {
		rowNum := i + 2
		number := r.Number
		if number == "" {
			number = "DRAFT"
		}

		values := []any{number, r.Date, r.ClientName, r.Project, r.Amount, r.VATAmount, r.Total, r.Status}
		for j, v := range values {
			cell := fmt.Sprintf("%s%d", columns[j], rowNum)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}

		if err := f.SetCellStyle(sheetName,
			fmt.Sprintf("A%d", rowNum), fmt.Sprintf("D%d", rowNum), cellStyle); err != nil {
			return nil, fmt.Errorf("style row %d: %w", rowNum, err)
		}
		if err := f.SetCellStyle(sheetName,
			fmt.Sprintf("E%d", rowNum), fmt.Sprintf("G%d", rowNum), amountStyle); err != nil {
			return nil, fmt.Errorf("style amounts row %d: %w", rowNum, err)
		}
		if err := f.SetCellStyle(sheetName,
			fmt.Sprintf("H%d", rowNum), fmt.Sprintf("H%d", rowNum), cellStyle); err != nil {
			return nil, fmt.Errorf("style status row %d: %w", rowNum, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func registerBorders() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "#CCCCCC", Style: 1},
		{Type: "right", Color: "#CCCCCC", Style: 1},
		{Type: "top", Color: "#CCCCCC", Style: 1},
		{Type: "bottom", Color: "#CCCCCC", Style: 1},
	}
}
