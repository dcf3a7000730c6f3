package sale

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pharmapos/m/domain"
)

// maxAttempts bounds the retry loop on transaction conflicts.
const maxAttempts = 3

// txTimeout caps how long one attempt may hold or wait for the transaction.
const txTimeout = 5 * time.Second

// Service is the sale transaction coordinator. Every sale runs as one
// transaction: stock reads, stock decrements and the sale record commit or
// roll back together.
type Service struct {
	db *sqlx.DB
}

func NewService(db *sqlx.DB) *Service {
	return &Service{db: db}
}

// SaleRecord is a committed sale together with its line items.
type SaleRecord struct {
	domain.Sale
	Items []domain.SaleLineItem `json:"items"`
}

type batchRow struct {
	ID                int64  `db:"id"`
	UserID            int64  `db:"user_id"`
	Name              string `db:"name"`
	Quantity          int64  `db:"quantity"`
	LowStockThreshold int64  `db:"low_stock_threshold"`
}

// ExecuteSale atomically verifies and decrements stock for every line item,
// persists the sale, and reports any low-stock threshold crossings observed
// during the transaction. Conflicts with concurrent writers are retried up
// to maxAttempts before ErrTxConflict is surfaced.
func (s *Service) ExecuteSale(ctx context.Context, userID int64, cart *Cart) (*SaleRecord, []domain.ThresholdAlert, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		record, alerts, err := s.executeOnce(ctx, userID, cart)
		if err == nil {
			return record, alerts, nil
		}
		if !errors.Is(err, ErrTxConflict) {
			return nil, nil, err
		}
		lastErr = err
	}
	return nil, nil, lastErr
}

func (s *Service) executeOnce(ctx context.Context, userID int64, cart *Cart) (*SaleRecord, []domain.ThresholdAlert, error) {
	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin sale transaction: %w", err)
	}
	defer tx.Rollback()

	var alerts []domain.ThresholdAlert
	for _, item := range cart.Items {
		var b batchRow
		err := tx.GetContext(ctx, &b, `SELECT id, user_id, name, quantity, low_stock_threshold FROM medicine_batches WHERE id = ?`, item.BatchID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, &ItemError{BatchID: item.BatchID, Name: item.Name, Err: ErrNotFound}
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read batch %d: %w", item.BatchID, err)
		}
		if b.UserID != userID {
			return nil, nil, &ItemError{BatchID: b.ID, Name: b.Name, Err: ErrUnauthorized}
		}
		if b.Quantity < item.Quantity {
			return nil, nil, &ItemError{BatchID: b.ID, Name: b.Name, Err: ErrInsufficientStock}
		}

		newStock := b.Quantity - item.Quantity
		if crossesThreshold(b.Quantity, newStock, b.LowStockThreshold) {
			alerts = append(alerts, domain.ThresholdAlert{BatchID: b.ID, Name: b.Name, Remaining: newStock})
		}

		// Conditional decrement: the quantity guard catches a concurrent
		// sale that drained the batch between our read and this write.
		res, err := tx.ExecContext(ctx, `UPDATE medicine_batches SET quantity = quantity - ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND quantity >= ?`, item.Quantity, b.ID, item.Quantity)
		if err != nil {
			if isBusy(err) {
				return nil, nil, ErrTxConflict
			}
			return nil, nil, fmt.Errorf("decrement batch %d: %w", b.ID, err)
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return nil, nil, ErrTxConflict
		}
	}

	now := time.Now().UTC().Format("2006-01-02 15:04:05")
	receipt := uuid.NewString()
	res, err := tx.ExecContext(ctx, `INSERT INTO sales (user_id, receipt_no, total_amount, customer_name, customer_mobile, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		userID, receipt, cart.TotalAmount, nullIfEmpty(cart.CustomerName), nullIfEmpty(cart.CustomerMobile), now)
	if err != nil {
		return nil, nil, fmt.Errorf("insert sale: %w", err)
	}
	saleID, err := res.LastInsertId()
	if err != nil {
		return nil, nil, fmt.Errorf("resolve sale id: %w", err)
	}

	items := make([]domain.SaleLineItem, len(cart.Items))
	for i, item := range cart.Items {
		subtotal := item.Price * float64(item.Quantity)
		if _, err := tx.ExecContext(ctx, `INSERT INTO sale_items (sale_id, batch_id, name, quantity, unit_price, subtotal) VALUES (?, ?, ?, ?, ?, ?)`,
			saleID, item.BatchID, item.Name, item.Quantity, item.Price, subtotal); err != nil {
			return nil, nil, fmt.Errorf("insert sale item %d: %w", item.BatchID, err)
		}
		items[i] = domain.SaleLineItem{
			SaleID:    saleID,
			BatchID:   item.BatchID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
			Subtotal:  subtotal,
		}
	}

	if err := tx.Commit(); err != nil {
		if isBusy(err) {
			return nil, nil, ErrTxConflict
		}
		return nil, nil, fmt.Errorf("commit sale: %w", err)
	}

	record := &SaleRecord{
		Sale: domain.Sale{
			ID:             saleID,
			UserID:         userID,
			ReceiptNo:      receipt,
			TotalAmount:    cart.TotalAmount,
			CustomerName:   nullIfEmpty(cart.CustomerName),
			CustomerMobile: nullIfEmpty(cart.CustomerMobile),
			CreatedAt:      now,
		},
		Items: items,
	}
	return record, alerts, nil
}

// crossesThreshold reports the above→at-or-below transition using the stock
// values observed inside the current transaction. A batch already at or
// below its threshold before the sale does not re-alert.
func crossesThreshold(current, updated, threshold int64) bool {
	return current > threshold && updated <= threshold
}

func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func nullIfEmpty(val string) *string {
	trimmed := strings.TrimSpace(val)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
