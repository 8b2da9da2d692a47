package parser

import (
	"testing"

	"github.com/aluiziolira/go-order-report/models"
)

func TestExtractRecognizedSpellings(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.OrderRecord
	}{
		{
			name: "canonical labels",
			text: "OrderID: A-900, Product: 5, Qty: 2",
			want: models.OrderRecord{OrderID: "A-900", ProductID: "5", Quantity: "2"},
		},
		{
			name: "transaction id and sku",
			text: "Transaction ID# B-1234 was placed. SKU/77 Units - 4",
			want: models.OrderRecord{OrderID: "B-1234", ProductID: "77", Quantity: "4"},
		},
		{
			name: "order number spelling",
			text: "Order Number > C-555\nItem Code: 9\nAmount: 12",
			want: models.OrderRecord{OrderID: "C-555", ProductID: "9", Quantity: "12"},
		},
		{
			name: "lowercase labels with quotes",
			text: `order_ref "D-001" prod_id "3" quantity "7"`,
			want: models.OrderRecord{OrderID: "D-001", ProductID: "3", Quantity: "7"},
		},
		{
			name: "fields in reverse order with noise",
			text: "qty=6 ... some shipping noise ... PID-14 ;; RefNo=Z-7777 thanks",
			want: models.OrderRecord{OrderID: "Z-7777", ProductID: "14", Quantity: "6"},
		},
		{
			name: "first match per field wins",
			text: "OrderID: E-100 OrderID: E-200 Product: 1 Product: 2 Qty: 3 Qty: 4",
			want: models.OrderRecord{OrderID: "E-100", ProductID: "1", Quantity: "3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.text)
			if !ok {
				t.Fatalf("Extract(%q) returned no record", tt.text)
			}
			if got != tt.want {
				t.Fatalf("Extract(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractRejectsIncompleteRecords(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty input", text: ""},
		{name: "missing quantity", text: "OrderID: A-900, Product: 5"},
		{name: "missing product", text: "OrderID: A-900, Qty: 2"},
		{name: "missing order id", text: "Product: 5, Qty: 2"},
		{name: "order id too short", text: "Order: A-12, Product: 5, Qty: 2"},
		{name: "unlabeled values", text: "A-900 5 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.text)
			if ok {
				t.Fatalf("Extract(%q) = %+v, want no record", tt.text, got)
			}
			if got != (models.OrderRecord{}) {
				t.Fatalf("Extract(%q) returned partial record %+v", tt.text, got)
			}
		})
	}
}
