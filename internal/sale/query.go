package sale

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"pharmapos/m/domain"
)

// DefaultPageSize is used when the caller supplies no page size.
const DefaultPageSize = 10

// Filter narrows the read side of committed sales. Date filters are mutually
// exclusive; precedence is explicit range > exact date > month.
type Filter struct {
	Date      string // YYYY-MM-DD
	Month     string // YYYY-MM
	StartDate string // YYYY-MM-DD, inclusive
	EndDate   string // YYYY-MM-DD, inclusive (extends to end of day)
	Search    string // substring over customer name/mobile, case-insensitive
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type Summary struct {
	TotalRevenue float64 `json:"total_revenue"`
	TotalOrders  int64   `json:"total_orders"`
	AverageOrder float64 `json:"average_order"`
}

func buildFilter(userID int64, f Filter) (string, []any) {
	clauses := []string{"user_id = ?"}
	args := []any{userID}

	switch {
	case f.StartDate != "" || f.EndDate != "":
		if f.StartDate != "" {
			clauses = append(clauses, "DATE(created_at) >= DATE(?)")
			args = append(args, f.StartDate)
		}
		if f.EndDate != "" {
			clauses = append(clauses, "DATE(created_at) <= DATE(?)")
			args = append(args, f.EndDate)
		}
	case f.Date != "":
		clauses = append(clauses, "DATE(created_at) = DATE(?)")
		args = append(args, f.Date)
	case f.Month != "":
		clauses = append(clauses, "strftime('%Y-%m', created_at) = ?")
		args = append(args, f.Month)
	}

	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		clauses = append(clauses, "(LOWER(COALESCE(customer_name, '')) LIKE ? OR LOWER(COALESCE(customer_mobile, '')) LIKE ?)")
		args = append(args, like, like)
	}

	return strings.Join(clauses, " AND "), args
}

// ListSales returns one page of a user's sales, newest first, with line
// items attached. Pagination is 1-indexed.
func (s *Service) ListSales(ctx context.Context, userID int64, f Filter, page, limit int) ([]SaleRecord, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}

	where, args := buildFilter(userID, f)

	var total int64
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM sales WHERE "+where, args...); err != nil {
		return nil, Pagination{}, fmt.Errorf("count sales: %w", err)
	}

	pagination := Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}

	var sales []domain.Sale
	query := "SELECT id, user_id, receipt_no, total_amount, customer_name, customer_mobile, created_at FROM sales WHERE " + where +
		" ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	listArgs := append(append([]any{}, args...), limit, (page-1)*limit)
	if err := s.db.SelectContext(ctx, &sales, query, listArgs...); err != nil {
		return nil, Pagination{}, fmt.Errorf("list sales: %w", err)
	}
	if len(sales) == 0 {
		return []SaleRecord{}, pagination, nil
	}

	ids := make([]int64, len(sales))
	for i, sl := range sales {
		ids[i] = sl.ID
	}
	itemsQuery, itemsArgs, err := sqlx.In(`SELECT id, sale_id, batch_id, name, quantity, unit_price, subtotal FROM sale_items WHERE sale_id IN (?)`, ids)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("prepare sale items query: %w", err)
	}
	itemsQuery = s.db.Rebind(itemsQuery)

	var rows []domain.SaleLineItem
	if err := s.db.SelectContext(ctx, &rows, itemsQuery, itemsArgs...); err != nil {
		return nil, Pagination{}, fmt.Errorf("load sale items: %w", err)
	}
	itemsBySale := make(map[int64][]domain.SaleLineItem)
	for _, row := range rows {
		itemsBySale[row.SaleID] = append(itemsBySale[row.SaleID], row)
	}

	records := make([]SaleRecord, len(sales))
	for i, sl := range sales {
		items := itemsBySale[sl.ID]
		if items == nil {
			items = []domain.SaleLineItem{}
		}
		records[i] = SaleRecord{Sale: sl, Items: items}
	}
	return records, pagination, nil
}

// Aggregate sums a user's sales under the same date filters as ListSales.
// An empty result set yields zeros, never an error.
func (s *Service) Aggregate(ctx context.Context, userID int64, f Filter) (Summary, error) {
	where, args := buildFilter(userID, f)

	var row struct {
		Revenue float64 `db:"revenue"`
		Orders  int64   `db:"orders"`
	}
	query := "SELECT COALESCE(SUM(total_amount), 0) AS revenue, COUNT(*) AS orders FROM sales WHERE " + where
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		return Summary{}, fmt.Errorf("aggregate sales: %w", err)
	}

	summary := Summary{TotalRevenue: row.Revenue, TotalOrders: row.Orders}
	if row.Orders > 0 {
		summary.AverageOrder = row.Revenue / float64(row.Orders)
	}
	return summary, nil
}
