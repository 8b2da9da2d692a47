// Package report joins order records with catalog metadata and renders the
// result into the workbook.
package report

import (
	"strconv"

	"github.com/aluiziolira/go-order-report/models"
)

// Header names the nine report columns.
var Header = []string{
	"Order_ID",
	"ProductID",
	"Name",
	"Category",
	"Quantity",
	"Price ($)",
	"Rating",
	"Count",
	"Total Price ($)",
}

// Table is the flat report ready for rendering: header plus one row per
// enriched record, in input order.
type Table struct {
	Header []string
	Rows   []models.EnrichedRow
}

// RowCount is the total sheet row count including the header row.
func (t *Table) RowCount() int {
	return len(t.Rows) + 1
}

// Aggregate joins records with resolved metadata. A record whose product id
// is absent from the index contributes no row. Quantity is parsed here; if
// it does not parse, the row is still emitted with a zero total so the
// table stays complete.
func Aggregate(records []models.OrderRecord, index models.CatalogIndex) *Table {
	table := &Table{Header: Header}

	for _, record := range records {
		product, ok := index[record.ProductID]
		if !ok {
			continue
		}

		row := models.EnrichedRow{
			OrderID:     record.OrderID,
			ProductID:   record.ProductID,
			Title:       product.Title,
			Category:    product.Category,
			Price:       product.Price,
			RatingRate:  product.Rating.Rate,
			RatingCount: product.Rating.Count,
		}

		quantity, err := strconv.Atoi(record.Quantity)
		if err == nil {
			row.Quantity = quantity
			row.TotalPrice = float64(quantity) * product.Price
		}

		table.Rows = append(table.Rows, row)
	}

	return table
}
