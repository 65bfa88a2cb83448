// Package consistency checks arithmetic invariants between derived numeric
// fields of recognized schemas (totals, subtotals, taxes). Schemas outside
// the recognized set always pass.
package consistency

import (
	"fmt"
	"math"
	"strings"
)

// Tolerance is the absolute allowance, in currency units, for rounding drift.
const Tolerance = 0.02

// Verdict reports one consistency check. Err names the expected amount, its
// components, the actual amount, and the difference when invalid.
type Verdict struct {
	Valid bool
	Err   string
}

func pass() Verdict { return Verdict{Valid: true} }

func fail(format string, args ...interface{}) Verdict {
	return Verdict{Err: fmt.Sprintf(format, args...)}
}

// Recognized reports whether a schema id has declared invariants.
func Recognized(schemaID string) bool {
	switch schemaID {
	case "shopping_cart", "invoice", "order_details":
		return true
	default:
		return false
	}
}

// Check validates the invariants declared for a schema id against an output
// value. Unrecognized ids pass unconditionally.
func Check(schemaID string, output map[string]interface{}) Verdict {
	switch schemaID {
	case "shopping_cart":
		return checkShoppingCart(output)
	case "invoice":
		return checkInvoice(output)
	case "order_details":
		return checkOrderDetails(output)
	default:
		return pass()
	}
}

// checkShoppingCart verifies per-line amounts (with optional percentage
// discount), the declared subtotal, and total = subtotal+shipping+tax.
func checkShoppingCart(output map[string]interface{}) Verdict {
	items, verdict := itemList(output, "items")
	if !verdict.Valid {
		return verdict
	}

	expectedSubtotal := 0.0
	for index, item := range items {
		quantity, ok := numberField(item, "quantity")
		if !ok {
			return fail("item %d missing numeric quantity", index)
		}
		price, ok := numberField(item, "price")
		if !ok {
			return fail("item %d missing numeric price", index)
		}
		lineAmount := quantity * price
		if discount, present := numberField(item, "discount_percentage"); present && discount > 0 {
			lineAmount *= 1 - discount/100
		}
		expectedSubtotal += lineAmount
	}
	expectedSubtotal = round2(expectedSubtotal)

	if actual, present := numberField(output, "subtotal"); present {
		if math.Abs(expectedSubtotal-actual) > Tolerance {
			return fail("subtotal mismatch: expected %.2f (from items), got %.2f (diff: %.2f)",
				expectedSubtotal, actual, math.Abs(expectedSubtotal-actual))
		}
	}

	expectedTotal := expectedSubtotal
	components := []string{fmt.Sprintf("subtotal: %.2f", expectedSubtotal)}
	if subtotal, present := numberField(output, "subtotal"); present {
		expectedTotal = subtotal
		components[0] = fmt.Sprintf("subtotal: %.2f", subtotal)
	}
	if shipping, present := numberField(output, "shipping_cost"); present {
		expectedTotal += shipping
		components = append(components, fmt.Sprintf("shipping: %.2f", shipping))
	}
	if tax, present := numberField(output, "tax"); present {
		expectedTotal += tax
		components = append(components, fmt.Sprintf("tax: %.2f", tax))
	}
	expectedTotal = round2(expectedTotal)

	if actual, present := numberField(output, "total"); present {
		if math.Abs(expectedTotal-actual) > Tolerance {
			return fail("total mismatch: expected %.2f (%s), got %.2f (diff: %.2f)",
				expectedTotal, strings.Join(components, " + "), actual, math.Abs(expectedTotal-actual))
		}
	}
	return pass()
}

// checkInvoice verifies per-line totals, the declared subtotal, and
// total_amount = subtotal+tax.
func checkInvoice(output map[string]interface{}) Verdict {
	items, verdict := itemList(output, "line_items")
	if !verdict.Valid {
		return verdict
	}

	expectedSubtotal := 0.0
	for index, item := range items {
		quantity, ok := numberField(item, "quantity")
		if !ok {
			return fail("line item %d missing numeric quantity", index)
		}
		unitPrice, ok := numberField(item, "unit_price")
		if !ok {
			return fail("line item %d missing numeric unit_price", index)
		}
		lineTotal := round2(quantity * unitPrice)
		if actual, present := numberField(item, "total"); present {
			if math.Abs(lineTotal-actual) > Tolerance {
				return fail("line item %d total mismatch: expected %.2f (qty: %.0f * price: %.2f), got %.2f",
					index, lineTotal, quantity, unitPrice, actual)
			}
		}
		expectedSubtotal += lineTotal
	}
	expectedSubtotal = round2(expectedSubtotal)

	if actual, present := numberField(output, "subtotal"); present {
		if math.Abs(expectedSubtotal-actual) > Tolerance {
			return fail("subtotal mismatch: expected %.2f (from line items), got %.2f (diff: %.2f)",
				expectedSubtotal, actual, math.Abs(expectedSubtotal-actual))
		}
	}

	expectedTotal := expectedSubtotal
	components := []string{fmt.Sprintf("subtotal: %.2f", expectedSubtotal)}
	if subtotal, present := numberField(output, "subtotal"); present {
		expectedTotal = subtotal
		components[0] = fmt.Sprintf("subtotal: %.2f", subtotal)
	}
	if tax, present := numberField(output, "tax"); present {
		expectedTotal += tax
		components = append(components, fmt.Sprintf("tax: %.2f", tax))
	}
	expectedTotal = round2(expectedTotal)

	if actual, present := numberField(output, "total_amount"); present {
		if math.Abs(expectedTotal-actual) > Tolerance {
			return fail("total amount mismatch: expected %.2f (%s), got %.2f (diff: %.2f)",
				expectedTotal, strings.Join(components, " + "), actual, math.Abs(expectedTotal-actual))
		}
	}
	return pass()
}

// checkOrderDetails verifies total_amount = sum(quantity*price).
func checkOrderDetails(output map[string]interface{}) Verdict {
	items, verdict := itemList(output, "items")
	if !verdict.Valid {
		return verdict
	}

	expectedTotal := 0.0
	for index, item := range items {
		quantity, ok := numberField(item, "quantity")
		if !ok {
			return fail("item %d missing numeric quantity", index)
		}
		price, ok := numberField(item, "price")
		if !ok {
			return fail("item %d missing numeric price", index)
		}
		expectedTotal += quantity * price
	}
	expectedTotal = round2(expectedTotal)

	if actual, present := numberField(output, "total_amount"); present {
		if math.Abs(expectedTotal-actual) > Tolerance {
			return fail("total amount mismatch: expected %.2f (from items), got %.2f (diff: %.2f)",
				expectedTotal, actual, math.Abs(expectedTotal-actual))
		}
	}
	return pass()
}

// itemList extracts an array of objects from a named field. A missing field
// yields an empty list; a malformed one fails the check.
func itemList(output map[string]interface{}, field string) ([]map[string]interface{}, Verdict) {
	raw, present := output[field]
	if !present {
		return nil, pass()
	}
	array, ok := raw.([]interface{})
	if !ok {
		return nil, fail("%s is not an array", field)
	}
	items := make([]map[string]interface{}, 0, len(array))
	for index, entry := range array {
		item, ok := entry.(map[string]interface{})
		if !ok {
			return nil, fail("%s entry %d is not an object", field, index)
		}
		items = append(items, item)
	}
	return items, pass()
}

// numberField reads a numeric field accepting float64 and int encodings.
func numberField(object map[string]interface{}, key string) (float64, bool) {
	raw, present := object[key]
	if !present {
		return 0, false
	}
	switch typed := raw.(type) {
	case float64:
		return typed, true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	default:
		return 0, false
	}
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
