package agent

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/CrestwoodRealty/api-brokerage/internal/auth"
	"github.com/CrestwoodRealty/api-brokerage/internal/sponsorship"
	"github.com/CrestwoodRealty/api-brokerage/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// request DTOs
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createAgentRequest struct {
	FirstName string  `json:"firstName" validate:"required"`
	LastName  string  `json:"lastName" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     string  `json:"phone"`
	AgentType string  `json:"agentType" validate:"required,oneof=principal support"`
	CapType   *string `json:"capType" validate:"omitempty,oneof=standard team"`
	SponsorID *uint   `json:"sponsorId"`
	Password  string  `json:"password"`
	IsAdmin   bool    `json:"isAdmin"`
}

type updateAgentRequest struct {
	FirstName string  `json:"firstName" validate:"required"`
	LastName  string  `json:"lastName" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     string  `json:"phone"`
	AgentType string  `json:"agentType" validate:"required,oneof=principal support"`
	CapType   *string `json:"capType" validate:"omitempty,oneof=standard team"`
	SponsorID *uint   `json:"sponsorId"`
}

// Handler wires DB, repository and the share totals used by summaries.
type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Totals     ShareTotals
	Validate   *validator.Validate
	Log        *logrus.Logger
}

func NewHandler(db *gorm.DB, totals ShareTotals, log *logrus.Logger) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Totals:     totals,
		Validate:   validator.New(),
		Log:        log,
	}
}

// Login issues a JWT for valid credentials.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	user, err := h.Repository.FindByEmail(h.DB, req.Email)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		http.Error(w, "could not generate token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": token})
}

// Create registers a new agent. When no password is supplied a temporary
// one is generated and returned once in the response.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.AgentType == string(TypeSupport) && req.CapType != nil {
		http.Error(w, "capType only applies to principal agents", http.StatusBadRequest)
		return
	}

	if req.SponsorID != nil {
		if _, err := h.Repository.FindByID(h.DB, *req.SponsorID); err != nil {
			http.Error(w, "sponsor not found", http.StatusBadRequest)
			return
		}
	}

	tempPassword := ""
	password := req.Password
	if password == "" {
		generated, err := utils.TempPassword()
		if err != nil {
			http.Error(w, "could not generate password", http.StatusInternalServerError)
			return
		}
		password = generated
		tempPassword = generated
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		http.Error(w, "could not process password", http.StatusInternalServerError)
		return
	}

	a := Agent{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              req.Email,
		Phone:              req.Phone,
		AgentType:          AgentType(req.AgentType),
		SponsorID:          req.SponsorID,
		PasswordHash:       hash,
		NeedsPasswordReset: tempPassword != "",
		IsAdmin:            req.IsAdmin,
	}
	if req.CapType != nil {
		ct := CapType(*req.CapType)
		a.CapType = &ct
	}

	if err := h.Repository.Save(h.DB, &a); err != nil {
		http.Error(w, "could not save agent", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if tempPassword != "" {
		json.NewEncoder(w).Encode(map[string]interface{}{"agent": a, "tempPassword": tempPassword})
		return
	}
	json.NewEncoder(w).Encode(a)
}

// List returns every agent for admins, or just the caller's own record.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(auth.CtxUserID).(uint)
	isAdmin, _ := r.Context().Value(auth.CtxIsAdmin).(bool)

	w.Header().Set("Content-Type", "application/json")
	if isAdmin {
		agents, err := h.Repository.ListAll(h.DB)
		if err != nil {
			http.Error(w, "could not list agents", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(agents)
		return
	}

	obj, err := h.Repository.FindByID(h.DB, userID)
	if err != nil {
		http.Error(w, "agent not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode([]Agent{*obj})
}

// Get handles GET /agents/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	a, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "agent not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(a)
}

// Update handles PUT /agents/{id}. Reassigning SponsorID is allowed; the
// walk stays safe even if a bad assignment ever forms a cycle.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	existing, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "agent not found", http.StatusNotFound)
		return
	}

	var req updateAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.SponsorID != nil {
		if *req.SponsorID == existing.ID {
			http.Error(w, "agent cannot sponsor itself", http.StatusBadRequest)
			return
		}
		if _, err := h.Repository.FindByID(h.DB, *req.SponsorID); err != nil {
			http.Error(w, "sponsor not found", http.StatusBadRequest)
			return
		}
	}

	existing.FirstName = req.FirstName
	existing.LastName = req.LastName
	existing.Email = req.Email
	existing.Phone = req.Phone
	existing.AgentType = AgentType(req.AgentType)
	existing.SponsorID = req.SponsorID
	existing.CapType = nil
	if req.CapType != nil {
		ct := CapType(*req.CapType)
		existing.CapType = &ct
	}

	if err := h.Repository.Update(h.DB, existing); err != nil {
		http.Error(w, "could not update agent", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(existing)
}

// Delete handles DELETE /agents/{id}. Blocked while the agent still has
// downline, transactions or revenue shares.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if _, err := h.Repository.FindByID(h.DB, uint(id)); err != nil {
		http.Error(w, "agent not found", http.StatusNotFound)
		return
	}

	blocked, err := h.Repository.HasDependents(h.DB, uint(id))
	if err != nil {
		http.Error(w, "could not check agent dependents", http.StatusInternalServerError)
		return
	}
	if blocked {
		http.Error(w, "agent still has downline, transactions or revenue shares", http.StatusConflict)
		return
	}

	if err := h.Repository.Delete(h.DB, uint(id)); err != nil {
		http.Error(w, "could not delete agent", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Downline handles GET /agents/{id}/downline
func (h *Handler) Downline(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	ids, err := sponsorship.DownlineIDs(h.DB, h.Repository, uint(id), sponsorship.MaxTiers)
	if err != nil {
		http.Error(w, "could not walk downline", http.StatusInternalServerError)
		return
	}

	agents := []Agent{}
	if len(ids) > 0 {
		if err := h.DB.Where("id IN ?", ids).Find(&agents).Error; err != nil {
			http.Error(w, "could not load downline agents", http.StatusInternalServerError)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(agents)
}

// Summary handles GET /agents/{id}/summary
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	a, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "agent not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not load agent", http.StatusInternalServerError)
		return
	}

	children, err := h.Repository.ChildrenOf(h.DB, a.ID)
	if err != nil {
		http.Error(w, "could not count downline", http.StatusInternalServerError)
		return
	}

	ytd, err := h.Totals.TotalReceivedSince(a.ID, startOfYear())
	if err != nil {
		http.Error(w, "could not sum revenue shares", http.StatusInternalServerError)
		return
	}
	allTime, err := h.Totals.TotalReceived(a.ID)
	if err != nil {
		http.Error(w, "could not sum revenue shares", http.StatusInternalServerError)
		return
	}

	dto := AgentSummaryDTO{
		ID:            a.ID,
		FirstName:     a.FirstName,
		LastName:      a.LastName,
		Email:         a.Email,
		AgentType:     a.AgentType,
		CapType:       a.CapType,
		SponsorID:     a.SponsorID,
		DownlineCount: len(children),
		ShareYTD:      ytd,
		ShareAllTime:  allTime,
		MemberSince:   a.CreatedAt,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dto)
}
