// Package parser extracts normalized order records from unstructured text.
package parser

import (
	"regexp"
	"strings"

	"github.com/aluiziolira/go-order-report/models"
)

// fieldRule describes one extractable field: the label spellings seen in the
// wild, the separator characters allowed between label and value, and the
// shape of the captured value.
type fieldRule struct {
	name       string
	labels     []string
	separators string
	capture    string
}

// Label order matters: alternation is leftmost-first, so longer spellings
// that share a prefix ("Order Number" vs "Order") still resolve because the
// shorter one fails at the capture and the engine falls through.
var (
	orderIDRule = fieldRule{
		name:       "order_id",
		labels:     []string{"OrderID", "Order", "OID", "Transaction ID", "Order Number", "RefNo", "id", "order_ref", "order", "transaction"},
		separators: `[#:=\s>\-"{]*`,
		capture:    `[A-Z]-?\d{3,}`,
	}
	productIDRule = fieldRule{
		name:       "product_id",
		labels:     []string{"ProductID", "Product", "PID", "Item Code", "SKU", "prod_id", "product_id", "product", "P_ID"},
		separators: `[#:=\s>\-/"{]*`,
		capture:    `[0-9]+`,
	}
	quantityRule = fieldRule{
		name:       "quantity",
		labels:     []string{"Quantity", "Qty", "qty", "Amount", "Units", "count", "Q", "quantity"},
		separators: `[#:=\s>\-/"{]*`,
		capture:    `[0-9]+`,
	}
)

var (
	orderIDPattern   = orderIDRule.compile()
	productIDPattern = productIDRule.compile()
	quantityPattern  = quantityRule.compile()
)

func (r fieldRule) compile() *regexp.Regexp {
	pattern := "(?:" + strings.Join(r.labels, "|") + ")" + r.separators + "(" + r.capture + ")"
	return regexp.MustCompile(pattern)
}

// find returns the first captured value for the rule anywhere in the text.
func find(pattern *regexp.Regexp, text string) string {
	match := pattern.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return match[1]
}

// Extract searches text for the three order fields independently; the first
// match anywhere wins per field. All three fields must match or nothing is
// returned: a record with a missing field is operationally useless, so no
// partial record is ever emitted.
func Extract(text string) (models.OrderRecord, bool) {
	orderID := find(orderIDPattern, text)
	productID := find(productIDPattern, text)
	quantity := find(quantityPattern, text)

	if orderID == "" || productID == "" || quantity == "" {
		return models.OrderRecord{}, false
	}

	return models.OrderRecord{
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  quantity,
	}, true
}
