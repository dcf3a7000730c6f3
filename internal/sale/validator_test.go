package sale

import "testing"

func TestValidateCart_Valid(t *testing.T) {
	raw := RawCart{
		Items: []RawItem{
			{MedicineID: 1, Name: "Napa Extra", Quantity: 2, Price: 3.5},
			{MedicineID: 2, Name: "Seclo 20", Quantity: 1, Price: 8},
		},
		TotalAmount:    15,
		CustomerName:   "  Rahim  ",
		CustomerMobile: "01700000000",
	}

	cart, verr := ValidateCart(raw)
	if verr != nil {
		t.Fatalf("unexpected validation error: %v", verr.Fields)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(cart.Items))
	}
	if cart.Items[0].BatchID != 1 || cart.Items[0].Quantity != 2 {
		t.Errorf("first item not normalized: %+v", cart.Items[0])
	}
	if cart.CustomerName != "Rahim" {
		t.Errorf("expected trimmed customer name, got %q", cart.CustomerName)
	}
}

func TestValidateCart_EmptyItems(t *testing.T) {
	_, verr := ValidateCart(RawCart{TotalAmount: 10})
	if verr == nil {
		t.Fatal("expected validation error")
	}
	if _, ok := verr.Fields["items"]; !ok {
		t.Errorf("expected items violation, got %v", verr.Fields)
	}
}

func TestValidateCart_EnumeratesAllViolations(t *testing.T) {
	raw := RawCart{
		Items: []RawItem{
			{MedicineID: 0, Name: "", Quantity: 0, Price: -1},
			{MedicineID: 2, Name: "Seclo 20", Quantity: 1, Price: 8},
		},
		TotalAmount: -5,
	}

	_, verr := ValidateCart(raw)
	if verr == nil {
		t.Fatal("expected validation error")
	}
	for _, field := range []string{
		"items[0].medicineId",
		"items[0].name",
		"items[0].quantity",
		"items[0].price",
		"totalAmount",
	} {
		if _, ok := verr.Fields[field]; !ok {
			t.Errorf("expected violation for %s, got %v", field, verr.Fields)
		}
	}
	if _, ok := verr.Fields["items[1].quantity"]; ok {
		t.Error("valid item should not be flagged")
	}
}

func TestValidateCart_NegativeQuantity(t *testing.T) {
	raw := RawCart{
		Items:       []RawItem{{MedicineID: 1, Name: "Napa", Quantity: -3, Price: 2}},
		TotalAmount: 0,
	}
	_, verr := ValidateCart(raw)
	if verr == nil {
		t.Fatal("expected validation error")
	}
	if _, ok := verr.Fields["items[0].quantity"]; !ok {
		t.Errorf("expected quantity violation, got %v", verr.Fields)
	}
}
