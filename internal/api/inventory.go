package api

import (
	"net/http"
	"strconv"

	"pharmapos/m/domain"
)

func (h *Handler) lowStockAlerts(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r)
	if userID <= 0 {
		respondError(w, http.StatusForbidden, "invalid user context")
		return
	}

	var batches []domain.MedicineBatch
	query := `SELECT id, user_id, batch_code, name, quantity, unit_price, expiry_date, low_stock_threshold, created_at, updated_at
	          FROM medicine_batches
	          WHERE user_id = ? AND quantity <= low_stock_threshold
	          ORDER BY quantity ASC, name ASC`
	if err := h.db.SelectContext(r.Context(), &batches, query, userID); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to fetch low stock batches")
		return
	}
	if batches == nil {
		batches = []domain.MedicineBatch{}
	}
	respondJSON(w, http.StatusOK, batches)
}

type expiryAlertResponse struct {
	BatchID    int64  `db:"id" json:"batch_id"`
	Name       string `db:"name" json:"name"`
	Quantity   int64  `db:"quantity" json:"quantity"`
	ExpiryDate string `db:"expiry_date" json:"expiry_date"`
}

func (h *Handler) expiryAlerts(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r)
	if userID <= 0 {
		respondError(w, http.StatusForbidden, "invalid user context")
		return
	}
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	if days <= 0 {
		days = 30
	}

	var items []expiryAlertResponse
	query := `SELECT id, name, quantity, expiry_date
	          FROM medicine_batches
	          WHERE user_id = ?
	          AND quantity > 0
	          AND expiry_date IS NOT NULL
	          AND DATE(expiry_date) <= DATE('now', '+' || ? || ' days')
	          ORDER BY expiry_date ASC`
	if err := h.db.SelectContext(r.Context(), &items, query, userID, days); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to fetch alerts")
		return
	}
	if items == nil {
		items = []expiryAlertResponse{}
	}
	respondJSON(w, http.StatusOK, items)
}
