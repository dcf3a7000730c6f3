package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pharmapos/m/internal/sale"
)

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r)
	if userID <= 0 {
		respondError(w, http.StatusForbidden, "invalid user context")
		return
	}

	var raw sale.RawCart
	if err := decodeJSON(r, &raw); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Validation happens strictly before any transaction is opened.
	cart, verr := sale.ValidateCart(raw)
	if verr != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{"errors": verr.Fields})
		return
	}

	record, alerts, err := h.engine.ExecuteSale(r.Context(), userID, cart)
	if err != nil {
		respondSaleError(w, err)
		return
	}

	// Post-commit only; never awaited.
	h.alerts.LowStock(userID, alerts)

	respondJSON(w, http.StatusCreated, record)
}

func respondSaleError(w http.ResponseWriter, err error) {
	var itemErr *sale.ItemError
	switch {
	case errors.As(err, &itemErr):
		switch {
		case errors.Is(itemErr.Err, sale.ErrNotFound):
			respondError(w, http.StatusNotFound, itemErr.Error())
		case errors.Is(itemErr.Err, sale.ErrUnauthorized):
			respondError(w, http.StatusForbidden, itemErr.Error())
		case errors.Is(itemErr.Err, sale.ErrInsufficientStock):
			respondError(w, http.StatusConflict, itemErr.Error())
		default:
			respondError(w, http.StatusBadRequest, itemErr.Error())
		}
	case errors.Is(err, sale.ErrTxConflict):
		respondError(w, http.StatusServiceUnavailable, "sale conflicted with a concurrent transaction, please retry")
	default:
		respondError(w, http.StatusInternalServerError, "unable to complete sale")
	}
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r)
	if userID <= 0 {
		respondError(w, http.StatusForbidden, "invalid user context")
		return
	}

	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}
	filter.Search = strings.TrimSpace(r.URL.Query().Get("search"))

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = sale.DefaultPageSize
	}

	records, pagination, err := h.engine.ListSales(r.Context(), userID, filter, page, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to fetch sales")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"data": records, "pagination": pagination})
}

func (h *Handler) salesAnalytics(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r)
	if userID <= 0 {
		respondError(w, http.StatusForbidden, "invalid user context")
		return
	}

	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	summary, err := h.engine.Aggregate(r.Context(), userID, filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to aggregate sales")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// parseFilter reads the shared date-filter query parameters, rejecting
// malformed values. It writes the error response itself on failure.
func parseFilter(w http.ResponseWriter, r *http.Request) (sale.Filter, bool) {
	q := r.URL.Query()
	filter := sale.Filter{
		Date:      strings.TrimSpace(q.Get("date")),
		Month:     strings.TrimSpace(q.Get("month")),
		StartDate: strings.TrimSpace(q.Get("start_date")),
		EndDate:   strings.TrimSpace(q.Get("end_date")),
	}

	for name, val := range map[string]string{"date": filter.Date, "start_date": filter.StartDate, "end_date": filter.EndDate} {
		if val == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", val); err != nil {
			respondError(w, http.StatusBadRequest, name+" must be in YYYY-MM-DD format")
			return sale.Filter{}, false
		}
	}
	if filter.Month != "" {
		if _, err := time.Parse("2006-01", filter.Month); err != nil {
			respondError(w, http.StatusBadRequest, "month must be in YYYY-MM format")
			return sale.Filter{}, false
		}
	}
	return filter, true
}
