package note

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/CrestwoodRealty/api-brokerage/internal/auth"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
	}
}

type noteRequest struct {
	Body string `json:"body"`
}

// Create handles POST /transactions/{id}/notes
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	transactionID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid transaction id", http.StatusBadRequest)
		return
	}

	userID, _ := r.Context().Value(auth.CtxUserID).(uint)

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Body) == "" {
		http.Error(w, "note body is required", http.StatusBadRequest)
		return
	}

	n := Note{
		Body:          req.Body,
		TransactionID: uint(transactionID),
		AuthorID:      userID,
	}
	if err := h.Repository.Create(h.DB, &n); err != nil {
		http.Error(w, "could not save note", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(n)
}

// ListByTransaction handles GET /transactions/{id}/notes
func (h *Handler) ListByTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid transaction id", http.StatusBadRequest)
		return
	}

	notes, err := h.Repository.ListByTransaction(h.DB, uint(transactionID))
	if err != nil {
		http.Error(w, "could not list notes", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(notes)
}

// Update handles PUT /notes/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if _, err := h.Repository.FindByID(h.DB, uint(id)); err != nil {
		http.Error(w, "note not found", http.StatusNotFound)
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	if err := h.Repository.UpdateBody(h.DB, uint(id), req.Body); err != nil {
		http.Error(w, "could not update note", http.StatusInternalServerError)
		return
	}

	n, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "note not found after update", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(n)
}

// Delete handles DELETE /notes/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.Repository.Delete(h.DB, uint(id)); err != nil {
		http.Error(w, "could not delete note", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
