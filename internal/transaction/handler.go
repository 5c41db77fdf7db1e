package transaction

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/CrestwoodRealty/api-brokerage/internal/notification"
	"github.com/CrestwoodRealty/api-brokerage/internal/revenueshare"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Handler is the transaction lifecycle manager: CRUD plus the revenue
// share side effects. The transaction row is the primary entity — a
// failed share regeneration is logged and the row still persists, pending
// the next successful recomputation.
type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Engine     *revenueshare.Engine
	Shares     *revenueshare.Repository
	Notifier   *notification.Notifier
	Validate   *validator.Validate
	Log        *logrus.Logger
}

func NewHandler(db *gorm.DB, engine *revenueshare.Engine, shares *revenueshare.Repository, notifier *notification.Notifier, log *logrus.Logger) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Engine:     engine,
		Shares:     shares,
		Notifier:   notifier,
		Validate:   validator.New(),
		Log:        log,
	}
}

// Create handles POST /transactions
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	txnDate := time.Now()
	if req.TransactionDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.TransactionDate)
		if err != nil {
			http.Error(w, "invalid transactionDate", http.StatusBadRequest)
			return
		}
		txnDate = parsed
	}
	status := req.Status
	if status == "" {
		status = "Pending"
	}

	t := Transaction{
		AgentID:              req.AgentID,
		PropertyAddress:      req.PropertyAddress,
		SaleAmount:           req.SaleAmount,
		CommissionPercentage: req.CommissionPercentage,
		CompanyGCI:           req.CompanyGCI,
		TransactionDate:      txnDate,
		Status:               status,
	}
	if err := h.Repository.Save(h.DB, &t); err != nil {
		http.Error(w, "could not save transaction", http.StatusInternalServerError)
		return
	}

	// Best-effort side effect: the transaction stands even if the
	// fan-out fails; the shares regenerate on the next GCI write.
	if err := h.Engine.Regenerate(h.DB, t.ID, t.AgentID, t.CompanyGCI); err != nil {
		h.Log.WithFields(logrus.Fields{"transactionId": t.ID}).
			WithError(err).Error("revenue share generation failed")
	}

	h.Notifier.Emit("transaction.created", t)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(t)
}

// List handles GET /transactions
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.ListAll(h.DB)
	if err != nil {
		http.Error(w, "could not list transactions", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// ListByAgent handles GET /agents/{id}/transactions
func (h *Handler) ListByAgent(w http.ResponseWriter, r *http.Request) {
	agentID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid agent id", http.StatusBadRequest)
		return
	}

	list, err := h.Repository.ListByAgent(h.DB, uint(agentID))
	if err != nil {
		http.Error(w, "could not list transactions", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// Get handles GET /transactions/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	t, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "transaction not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(t)
}

// Update handles PUT /transactions/{id}. Shares regenerate only when the
// company GCI actually changed value.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	t, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "transaction not found", http.StatusNotFound)
		return
	}

	var patch TransactionUpdate
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	gciChanged, err := patch.Apply(t)
	if err != nil {
		http.Error(w, "invalid transactionDate", http.StatusBadRequest)
		return
	}

	if err := h.Repository.Update(h.DB, t); err != nil {
		http.Error(w, "could not update transaction", http.StatusInternalServerError)
		return
	}

	if gciChanged {
		if err := h.Engine.Regenerate(h.DB, t.ID, t.AgentID, t.CompanyGCI); err != nil {
			h.Log.WithFields(logrus.Fields{"transactionId": t.ID}).
				WithError(err).Error("revenue share regeneration failed")
		}
	}

	h.Notifier.Emit("transaction.updated", t)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(t)
}

// Delete handles DELETE /transactions/{id}. Shares go first, then the
// row, in one database transaction: shares never outlive their owner.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	t, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "transaction not found", http.StatusNotFound)
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := h.Shares.WithDB(tx).DeleteByTransaction(t.ID); err != nil {
			return err
		}
		return h.Repository.Delete(tx, t.ID)
	})
	if err != nil {
		http.Error(w, "could not delete transaction", http.StatusInternalServerError)
		return
	}

	h.Notifier.Emit("transaction.deleted", map[string]uint{"id": t.ID})

	w.WriteHeader(http.StatusNoContent)
}
