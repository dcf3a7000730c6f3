package domain

// Sale is immutable once committed.
type Sale struct {
	ID             int64   `db:"id" json:"id"`
	UserID         int64   `db:"user_id" json:"user_id"`
	ReceiptNo      string  `db:"receipt_no" json:"receipt_no"`
	TotalAmount    float64 `db:"total_amount" json:"total_amount"`
	CustomerName   *string `db:"customer_name" json:"customer_name,omitempty"`
	CustomerMobile *string `db:"customer_mobile" json:"customer_mobile,omitempty"`
	CreatedAt      string  `db:"created_at" json:"created_at"`
}

// SaleLineItem snapshots name and unit price at sale time so the record
// stays meaningful if the batch is later renamed or repriced.
type SaleLineItem struct {
	ID        int64   `db:"id" json:"id"`
	SaleID    int64   `db:"sale_id" json:"sale_id"`
	BatchID   int64   `db:"batch_id" json:"batch_id"`
	Name      string  `db:"name" json:"name"`
	Quantity  int64   `db:"quantity" json:"quantity"`
	UnitPrice float64 `db:"unit_price" json:"unit_price"`
	Subtotal  float64 `db:"subtotal" json:"subtotal"`
}

// ThresholdAlert marks a batch whose stock crossed its low-stock threshold
// during a sale.
type ThresholdAlert struct {
	BatchID   int64  `json:"batch_id"`
	Name      string `json:"name"`
	Remaining int64  `json:"remaining"`
}
