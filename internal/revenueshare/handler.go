package revenueshare

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

// Handler serves the read-only revenue share endpoints.
type Handler struct {
	Repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo}
}

// ListByTransaction handles GET /transactions/{id}/revenue-shares
func (h *Handler) ListByTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid transaction id", http.StatusBadRequest)
		return
	}

	list, err := h.Repo.ListByTransaction(uint(id))
	if err != nil {
		http.Error(w, "could not list revenue shares", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// ListByRecipient handles GET /agents/{id}/revenue-shares
// Accepts an optional `year` query param restricting results to one
// calendar year; the response carries the rows plus their total.
func (h *Handler) ListByRecipient(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid agent id", http.StatusBadRequest)
		return
	}

	var since, until *time.Time
	if y := r.URL.Query().Get("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			http.Error(w, "invalid year", http.StatusBadRequest)
			return
		}
		start := time.Date(year, 1, 1, 0, 0, 0, 0, time.Local)
		end := start.AddDate(1, 0, 0)
		since, until = &start, &end
	}

	list, err := h.Repo.ListByRecipient(uint(id), since, until)
	if err != nil {
		http.Error(w, "could not list revenue shares", http.StatusInternalServerError)
		return
	}

	var total float64
	for _, rs := range list {
		total += rs.Amount
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"shares": list,
		"total":  total,
	})
}
