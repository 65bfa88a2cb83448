package consistency

// Reconcile recomputes the derived numeric fields of a recognized schema's
// output in place so that Check passes. Unrecognized ids are untouched.
// Fields absent from the value stay absent.
func Reconcile(schemaID string, output map[string]interface{}) {
	switch schemaID {
	case "shopping_cart":
		reconcileShoppingCart(output)
	case "invoice":
		reconcileInvoice(output)
	case "order_details":
		reconcileOrderDetails(output)
	}
}

func reconcileShoppingCart(output map[string]interface{}) {
	items, verdict := itemList(output, "items")
	if !verdict.Valid {
		return
	}
	subtotal := 0.0
	for _, item := range items {
		quantity, ok := numberField(item, "quantity")
		if !ok {
			continue
		}
		price, ok := numberField(item, "price")
		if !ok {
			continue
		}
		lineAmount := quantity * price
		if discount, present := numberField(item, "discount_percentage"); present && discount > 0 {
			lineAmount *= 1 - discount/100
		}
		subtotal += lineAmount
	}
	subtotal = round2(subtotal)

	if _, present := numberField(output, "subtotal"); present {
		output["subtotal"] = subtotal
	}
	total := subtotal
	if shipping, present := numberField(output, "shipping_cost"); present {
		total += shipping
	}
	if tax, present := numberField(output, "tax"); present {
		total += tax
	}
	if _, present := numberField(output, "total"); present {
		output["total"] = round2(total)
	}
}

func reconcileInvoice(output map[string]interface{}) {
	items, verdict := itemList(output, "line_items")
	if !verdict.Valid {
		return
	}
	subtotal := 0.0
	for _, item := range items {
		quantity, ok := numberField(item, "quantity")
		if !ok {
			continue
		}
		unitPrice, ok := numberField(item, "unit_price")
		if !ok {
			continue
		}
		lineTotal := round2(quantity * unitPrice)
		if _, present := numberField(item, "total"); present {
			item["total"] = lineTotal
		}
		subtotal += lineTotal
	}
	subtotal = round2(subtotal)

	if _, present := numberField(output, "subtotal"); present {
		output["subtotal"] = subtotal
	}
	total := subtotal
	if tax, present := numberField(output, "tax"); present {
		total += tax
	}
	if _, present := numberField(output, "total_amount"); present {
		output["total_amount"] = round2(total)
	}
}

func reconcileOrderDetails(output map[string]interface{}) {
	items, verdict := itemList(output, "items")
	if !verdict.Valid {
		return
	}
	total := 0.0
	for _, item := range items {
		quantity, ok := numberField(item, "quantity")
		if !ok {
			continue
		}
		price, ok := numberField(item, "price")
		if !ok {
			continue
		}
		total += quantity * price
	}
	if _, present := numberField(output, "total_amount"); present {
		output["total_amount"] = round2(total)
	}
}
