package domain

// MedicineBatch is one stocked unit of a medicine. The batch code is unique
// per owning user; quantity never goes negative.
type MedicineBatch struct {
	ID                int64   `db:"id" json:"id"`
	UserID            int64   `db:"user_id" json:"user_id"`
	BatchCode         string  `db:"batch_code" json:"batch_code"`
	Name              string  `db:"name" json:"name"`
	Quantity          int64   `db:"quantity" json:"quantity"`
	UnitPrice         float64 `db:"unit_price" json:"unit_price"`
	ExpiryDate        *string `db:"expiry_date" json:"expiry_date,omitempty"`
	LowStockThreshold int64   `db:"low_stock_threshold" json:"low_stock_threshold"`
	CreatedAt         string  `db:"created_at" json:"created_at"`
	UpdatedAt         string  `db:"updated_at" json:"updated_at"`
}
