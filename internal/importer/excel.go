// Package importer turns uploaded Excel workbooks into quotation drafts.
// Rows are grouped by customer name: each distinct customer becomes one
// quotation, each row one line item. The resulting items go through the
// same pricing entry point as manually entered ones; nothing here computes
// money.
package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vantage-admin/vantage-admin/internal/pricing"
)

// Expected column order on the first sheet. A header row is detected and
// skipped when the quantity cell is non-numeric.
const (
	colCustomer = iota
	colDescription
	colQuantity
	colUnit
	colUnitPrice
	colPartNumber
	columnCount
)

// CustomerGroup is one import batch: all rows sharing a customer name.
type CustomerGroup struct {
	CustomerName string
	Items        []pricing.LineItem
}

// RowError records a row skipped during parsing.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Result holds the outcome of a workbook parse.
type Result struct {
	Groups    []CustomerGroup `json:"groups"`
	TotalRows int             `json:"total_rows"`
	Skipped   []RowError      `json:"skipped,omitempty"`
}

// Parse reads the first sheet of an Excel workbook into per-customer item
// groups, preserving the order in which customers first appear.
func Parse(r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("importer: open workbook: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("importer: workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("importer: read rows: %w", err)
	}

	result := &Result{}
	groupIndex := map[string]int{}

	for i, row := range rows {
		rowNum := i + 1
		if len(row) < columnCount {
			padded := make([]string, columnCount)
			copy(padded, row)
			row = padded
		}

		customer := strings.TrimSpace(row[colCustomer])
		if customer == "" {
			continue
		}
		// Header row: customer column filled but quantity is not numeric.
		if i == 0 && pricing.CoerceNumber(row[colQuantity]) == 0 && strings.TrimSpace(row[colQuantity]) != "0" && strings.TrimSpace(row[colQuantity]) != "" {
			continue
		}

		result.TotalRows++
		description := strings.TrimSpace(row[colDescription])
		if description == "" {
			result.Skipped = append(result.Skipped, RowError{Row: rowNum, Message: "missing description"})
			continue
		}

		item := pricing.LineItem{
			Description: description,
			Quantity:    pricing.CoerceNumber(row[colQuantity]),
			UnitPrice:   pricing.CoerceNumber(row[colUnitPrice]),
			Unit:        strings.TrimSpace(row[colUnit]),
			PartNumber:  strings.TrimSpace(row[colPartNumber]),
		}
		item.Normalize()

		idx, ok := groupIndex[customer]
		if !ok {
			idx = len(result.Groups)
			groupIndex[customer] = idx
			result.Groups = append(result.Groups, CustomerGroup{CustomerName: customer})
		}
		result.Groups[idx].Items = append(result.Groups[idx].Items, item)
	}

	return result, nil
}
