package sale

import (
	"fmt"
	"strings"
)

// RawCart mirrors the sale creation request body before validation.
type RawCart struct {
	Items          []RawItem `json:"items"`
	TotalAmount    float64   `json:"totalAmount"`
	CustomerName   string    `json:"customerName"`
	CustomerMobile string    `json:"customerMobile"`
}

type RawItem struct {
	MedicineID int64   `json:"medicineId"`
	Name       string  `json:"name"`
	Quantity   int64   `json:"quantity"`
	Price      float64 `json:"price"`
}

// Cart is a validated, normalized sale payload. No transaction is opened
// until a RawCart has survived ValidateCart.
type Cart struct {
	Items          []CartItem
	TotalAmount    float64
	CustomerName   string
	CustomerMobile string
}

type CartItem struct {
	BatchID  int64
	Name     string
	Quantity int64
	Price    float64
}

// ValidationError enumerates every violated field of the payload.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "invalid sale payload" }

// ValidateCart checks and normalizes a raw cart. It returns every violation
// at once rather than stopping at the first.
func ValidateCart(raw RawCart) (*Cart, *ValidationError) {
	fields := make(map[string]string)

	if len(raw.Items) == 0 {
		fields["items"] = "at least one item is required"
	}
	for i, item := range raw.Items {
		if item.MedicineID <= 0 {
			fields[fmt.Sprintf("items[%d].medicineId", i)] = "a valid medicine id is required"
		}
		if strings.TrimSpace(item.Name) == "" {
			fields[fmt.Sprintf("items[%d].name", i)] = "name is required"
		}
		if item.Quantity <= 0 {
			fields[fmt.Sprintf("items[%d].quantity", i)] = "quantity must be a positive integer"
		}
		if item.Price < 0 {
			fields[fmt.Sprintf("items[%d].price", i)] = "price must not be negative"
		}
	}
	if raw.TotalAmount < 0 {
		fields["totalAmount"] = "total amount must not be negative"
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	cart := &Cart{
		Items:          make([]CartItem, len(raw.Items)),
		TotalAmount:    raw.TotalAmount,
		CustomerName:   strings.TrimSpace(raw.CustomerName),
		CustomerMobile: strings.TrimSpace(raw.CustomerMobile),
	}
	for i, item := range raw.Items {
		cart.Items[i] = CartItem{
			BatchID:  item.MedicineID,
			Name:     strings.TrimSpace(item.Name),
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}
	return cart, nil
}
