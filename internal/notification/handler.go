package notification

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// Handler manages the webhook registry (admin only).
type Handler struct {
	DB *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

type webhookRequest struct {
	URL    string `json:"url"`
	Event  string `json:"event"`
	Active *bool  `json:"active"`
}

// Create handles POST /webhooks
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if u, err := url.ParseRequestURI(req.URL); err != nil || u.Scheme == "" || u.Host == "" {
		http.Error(w, "invalid webhook url", http.StatusBadRequest)
		return
	}
	if req.Event == "" {
		req.Event = "*"
	}

	hook := Webhook{URL: req.URL, Event: req.Event, Active: true}
	if req.Active != nil {
		hook.Active = *req.Active
	}
	if err := h.DB.Create(&hook).Error; err != nil {
		http.Error(w, "could not save webhook", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(hook)
}

// List handles GET /webhooks
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var hooks []Webhook
	if err := h.DB.Find(&hooks).Error; err != nil {
		http.Error(w, "could not list webhooks", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(hooks)
}

// Update handles PUT /webhooks/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var hook Webhook
	if err := h.DB.First(&hook, id).Error; err != nil {
		http.Error(w, "webhook not found", http.StatusNotFound)
		return
	}

	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if req.URL != "" {
		hook.URL = req.URL
	}
	if req.Event != "" {
		hook.Event = req.Event
	}
	if req.Active != nil {
		hook.Active = *req.Active
	}

	if err := h.DB.Save(&hook).Error; err != nil {
		http.Error(w, "could not update webhook", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(hook)
}

// Delete handles DELETE /webhooks/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := h.DB.Delete(&Webhook{}, id).Error; err != nil {
		http.Error(w, "could not delete webhook", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
