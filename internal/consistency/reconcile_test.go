package consistency

import "testing"

// TestReconcileShoppingCart verifies derived fields are recomputed so the
// check passes.
func TestReconcileShoppingCart(t *testing.T) {
	output := map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{"quantity": 2.0, "price": 12.5},
			map[string]interface{}{"quantity": 1.0, "price": 4.0, "discount_percentage": 50.0},
		},
		"subtotal":      999.0,
		"shipping_cost": 6.0,
		"total":         999.0,
	}
	Reconcile("shopping_cart", output)

	if output["subtotal"] != 27.0 {
		t.Fatalf("expected subtotal 27, got %v", output["subtotal"])
	}
	if output["total"] != 33.0 {
		t.Fatalf("expected total 33, got %v", output["total"])
	}
	if verdict := Check("shopping_cart", output); !verdict.Valid {
		t.Fatalf("reconciled cart still inconsistent: %s", verdict.Err)
	}
}

// TestReconcileInvoice verifies line totals and invoice totals are rewritten.
func TestReconcileInvoice(t *testing.T) {
	output := map[string]interface{}{
		"line_items": []interface{}{
			map[string]interface{}{"quantity": 3.0, "unit_price": 9.99, "total": 1.0},
		},
		"subtotal":     1.0,
		"tax":          2.0,
		"total_amount": 1.0,
	}
	Reconcile("invoice", output)

	line := output["line_items"].([]interface{})[0].(map[string]interface{})
	if line["total"] != 29.97 {
		t.Fatalf("expected line total 29.97, got %v", line["total"])
	}
	if output["total_amount"] != 31.97 {
		t.Fatalf("expected total_amount 31.97, got %v", output["total_amount"])
	}
	if verdict := Check("invoice", output); !verdict.Valid {
		t.Fatalf("reconciled invoice still inconsistent: %s", verdict.Err)
	}
}

// TestReconcileLeavesAbsentFieldsAbsent verifies fields the value never had
// are not invented.
func TestReconcileLeavesAbsentFieldsAbsent(t *testing.T) {
	output := map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{"quantity": 1.0, "price": 5.0},
		},
	}
	Reconcile("shopping_cart", output)
	if _, present := output["subtotal"]; present {
		t.Fatalf("subtotal should not be invented")
	}
	if _, present := output["total"]; present {
		t.Fatalf("total should not be invented")
	}
}

// TestReconcileUnrecognizedNoop verifies unknown schema ids are untouched.
func TestReconcileUnrecognizedNoop(t *testing.T) {
	output := map[string]interface{}{"total": 5.0}
	Reconcile("user_profile", output)
	if output["total"] != 5.0 {
		t.Fatalf("unrecognized schema mutated: %v", output)
	}
}
