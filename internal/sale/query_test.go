package sale

import (
	"context"
	"fmt"
	"testing"

	"github.com/jmoiron/sqlx"
)

func seedSale(t *testing.T, db *sqlx.DB, id, userID int64, total float64, customer, mobile, createdAt string) {
	t.Helper()
	db.MustExec(`INSERT INTO sales (id, user_id, receipt_no, total_amount, customer_name, customer_mobile, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, userID, fmt.Sprintf("r-%d", id), total, customer, mobile, createdAt)
}

func TestListSales_NewestFirstAndPaged(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	for i := int64(1); i <= 7; i++ {
		db.MustExec(`INSERT INTO sales (user_id, receipt_no, total_amount, created_at) VALUES (1, ?, ?, ?)`,
			fmt.Sprintf("r-%d", i), float64(i), fmt.Sprintf("2025-06-%02d 10:00:00", i))
	}
	// Another user's sale must never appear.
	db.MustExec(`INSERT INTO sales (user_id, receipt_no, total_amount, created_at) VALUES (2, 'r-x', 99, '2025-06-09 10:00:00')`)

	seen := make(map[int64]bool)
	for page := 1; ; page++ {
		records, pagination, err := svc.ListSales(context.Background(), 1, Filter{}, page, 3)
		if err != nil {
			t.Fatalf("ListSales page %d failed: %v", page, err)
		}
		if pagination.Total != 7 {
			t.Fatalf("expected total 7, got %d", pagination.Total)
		}
		if pagination.TotalPages != 3 {
			t.Fatalf("expected 3 pages, got %d", pagination.TotalPages)
		}
		for _, rec := range records {
			if seen[rec.ID] {
				t.Errorf("sale %d appeared on more than one page", rec.ID)
			}
			seen[rec.ID] = true
			if rec.UserID != 1 {
				t.Errorf("foreign sale %d leaked into listing", rec.ID)
			}
		}
		if len(records) == 0 || page >= pagination.TotalPages {
			break
		}
	}
	if len(seen) != 7 {
		t.Errorf("union of pages holds %d sales, want 7", len(seen))
	}

	// Newest first on the first page.
	records, _, err := svc.ListSales(context.Background(), 1, Filter{}, 1, 3)
	if err != nil {
		t.Fatalf("ListSales failed: %v", err)
	}
	for i := 1; i < len(records); i++ {
		if records[i-1].CreatedAt < records[i].CreatedAt {
			t.Errorf("listing not newest first: %s before %s", records[i-1].CreatedAt, records[i].CreatedAt)
		}
	}
}

func TestListSales_FilterPrecedence(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	seedSale(t, db, 1, 1, 10, "Rahim", "01700", "2025-05-10 09:00:00")
	seedSale(t, db, 2, 1, 20, "Karim", "01800", "2025-06-01 09:00:00")
	seedSale(t, db, 3, 1, 30, "Salma", "01900", "2025-06-15 23:30:00")

	// Explicit range wins over date and month.
	records, _, err := svc.ListSales(context.Background(), 1, Filter{
		StartDate: "2025-06-01",
		EndDate:   "2025-06-15",
		Date:      "2025-05-10",
		Month:     "2025-05",
	}, 1, 10)
	if err != nil {
		t.Fatalf("ListSales failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected range to win with 2 sales, got %d", len(records))
	}

	// Range end includes the whole end day.
	records, _, err = svc.ListSales(context.Background(), 1, Filter{StartDate: "2025-06-15", EndDate: "2025-06-15"}, 1, 10)
	if err != nil {
		t.Fatalf("ListSales failed: %v", err)
	}
	if len(records) != 1 || records[0].ID != 3 {
		t.Fatalf("expected late-evening sale inside range end, got %+v", records)
	}

	// Exact date wins over month.
	records, _, err = svc.ListSales(context.Background(), 1, Filter{Date: "2025-05-10", Month: "2025-06"}, 1, 10)
	if err != nil {
		t.Fatalf("ListSales failed: %v", err)
	}
	if len(records) != 1 || records[0].ID != 1 {
		t.Fatalf("expected exact date to win, got %+v", records)
	}

	// Month alone.
	records, _, err = svc.ListSales(context.Background(), 1, Filter{Month: "2025-06"}, 1, 10)
	if err != nil {
		t.Fatalf("ListSales failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 sales in 2025-06, got %d", len(records))
	}
}

func TestListSales_Search(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	seedSale(t, db, 1, 1, 10, "Rahim Uddin", "01700000000", "2025-06-01 09:00:00")
	seedSale(t, db, 2, 1, 20, "Karim", "01855512345", "2025-06-02 09:00:00")

	records, _, err := svc.ListSales(context.Background(), 1, Filter{Search: "rahim"}, 1, 10)
	if err != nil {
		t.Fatalf("ListSales failed: %v", err)
	}
	if len(records) != 1 || records[0].ID != 1 {
		t.Fatalf("expected case-insensitive name match, got %+v", records)
	}

	records, _, err = svc.ListSales(context.Background(), 1, Filter{Search: "555"}, 1, 10)
	if err != nil {
		t.Fatalf("ListSales failed: %v", err)
	}
	if len(records) != 1 || records[0].ID != 2 {
		t.Fatalf("expected mobile substring match, got %+v", records)
	}
}

func TestAggregate(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	seedSale(t, db, 1, 1, 10, "", "", "2025-06-01 09:00:00")
	seedSale(t, db, 2, 1, 30, "", "", "2025-06-02 09:00:00")

	summary, err := svc.Aggregate(context.Background(), 1, Filter{Month: "2025-06"})
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if summary.TotalRevenue != 40 || summary.TotalOrders != 2 || summary.AverageOrder != 20 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestAggregate_EmptySetYieldsZeros(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	summary, err := svc.Aggregate(context.Background(), 1, Filter{StartDate: "2030-01-01", EndDate: "2030-01-31"})
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if summary.TotalRevenue != 0 || summary.TotalOrders != 0 || summary.AverageOrder != 0 {
		t.Errorf("expected zeros on empty set, got %+v", summary)
	}
}
