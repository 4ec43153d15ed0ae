package handler

import (
	"net/http"
	"strconv"

	"github.com/atelierprint/printshop-service/internal/auth"
	"github.com/atelierprint/printshop-service/internal/material"
	"github.com/atelierprint/printshop-service/internal/material/dto"
	"github.com/atelierprint/printshop-service/internal/middleware"
	"github.com/atelierprint/printshop-service/internal/model"
	"github.com/atelierprint/printshop-service/pkg/httputil"
	"github.com/atelierprint/printshop-service/pkg/logger"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Handler struct {
	uc     material.UseCase
	logger logger.ZapLogger
}

func NewHandler(uc material.UseCase, log logger.ZapLogger) *Handler {
	return &Handler{uc: uc, logger: log}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/materiaux", middleware.RequirePermission(auth.PermMaterialsWrite, h.Create)).Methods(http.MethodPost)
	r.HandleFunc("/materiaux", middleware.RequirePermission(auth.PermMaterialsRead, h.List)).Methods(http.MethodGet)
	r.HandleFunc("/materiaux/stock/faible", middleware.RequirePermission(auth.PermMaterialsRead, h.LowStock)).Methods(http.MethodGet)
	r.HandleFunc("/materiaux/mouvements", middleware.RequirePermission(auth.PermMaterialsRead, h.Movements)).Methods(http.MethodGet)
	r.HandleFunc("/materiaux/{id}", middleware.RequirePermission(auth.PermMaterialsRead, h.Get)).Methods(http.MethodGet)
	r.HandleFunc("/materiaux/{id}", middleware.RequirePermission(auth.PermMaterialsWrite, h.Update)).Methods(http.MethodPut)
	r.HandleFunc("/materiaux/{id}", middleware.RequirePermission(auth.PermMaterialsWrite, h.Delete)).Methods(http.MethodDelete)
	r.HandleFunc("/materiaux/{id}/rouleaux", middleware.RequirePermission(auth.PermMaterialsWrite, h.AddRoll)).Methods(http.MethodPost)
	r.HandleFunc("/materiaux/{id}/stock/verifier", middleware.RequirePermission(auth.PermMaterialsRead, h.CheckStock)).Methods(http.MethodGet)
	r.HandleFunc("/materiaux/{id}/stock/ajuster", middleware.RequirePermission(auth.PermMaterialsWrite, h.AdjustStock)).Methods(http.MethodPost)
}

type createMaterialRequest struct {
	Name      string            `json:"name"`
	Type      string            `json:"type"`
	UnitPrice float64           `json:"unit_price"`
	Unit      string            `json:"unit"`
	Options   model.OptionTable `json:"options"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMaterialRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.Name == "" || req.UnitPrice <= 0 {
		httputil.RespondWithError(w, http.StatusBadRequest, "name and a positive unit_price are required")
		return
	}

	created, err := h.uc.CreateMaterial(r.Context(), &dto.CreateMaterialInput{
		ShopID:    auth.GetShopID(r.Context()),
		Name:      req.Name,
		Type:      req.Type,
		UnitPrice: req.UnitPrice,
		Unit:      req.Unit,
		Options:   req.Options,
	})
	if err != nil {
		h.logger.Error("create material failed", zap.Error(err))
		httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := &dto.MaterialFilters{
		ShopID:   auth.GetShopID(r.Context()),
		Type:     q.Get("type"),
		Search:   q.Get("search"),
		Page:     queryInt(q.Get("page"), 1),
		PageSize: queryInt(q.Get("page_size"), 20),
	}
	if v := q.Get("is_active"); v != "" {
		active := v == "true"
		filters.IsActive = &active
	}

	items, total, err := h.uc.ListMaterials(r.Context(), filters)
	if err != nil {
		h.logger.Error("list materials failed", zap.Error(err))
		httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"total": total,
		"page":  filters.Page,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	m, err := h.uc.GetMaterial(r.Context(), auth.GetShopID(r.Context()), id)
	if err != nil {
		httputil.RespondWithError(w, http.StatusNotFound, "material not found")
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, m)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		createMaterialRequest
		IsActive bool `json:"is_active"`
	}
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	updated, err := h.uc.UpdateMaterial(r.Context(), &dto.UpdateMaterialInput{
		ID:        mux.Vars(r)["id"],
		ShopID:    auth.GetShopID(r.Context()),
		Name:      req.Name,
		Type:      req.Type,
		UnitPrice: req.UnitPrice,
		Unit:      req.Unit,
		Options:   req.Options,
		IsActive:  req.IsActive,
	})
	if err != nil {
		h.logger.Error("update material failed", zap.Error(err))
		httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteMaterial(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.logger.Error("delete material failed", zap.Error(err))
		httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type addRollRequest struct {
	Width          float64 `json:"width"`
	Length         float64 `json:"length"`
	Unit           string  `json:"unit"`
	AlertThreshold float64 `json:"alert_threshold"`
}

func (h *Handler) AddRoll(w http.ResponseWriter, r *http.Request) {
	var req addRollRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.Width <= 0 || req.Length <= 0 {
		httputil.RespondWithError(w, http.StatusBadRequest, "width and length must be positive")
		return
	}

	roll, err := h.uc.AddRoll(r.Context(), &dto.CreateRollInput{
		ShopID:         auth.GetShopID(r.Context()),
		MaterialID:     mux.Vars(r)["id"],
		Width:          req.Width,
		Length:         req.Length,
		Unit:           req.Unit,
		AlertThreshold: req.AlertThreshold,
	})
	if err != nil {
		h.logger.Error("add roll failed", zap.Error(err))
		httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.RespondWithJSON(w, http.StatusCreated, roll)
}

func (h *Handler) LowStock(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rolls, total, err := h.uc.ListLowStock(r.Context(), auth.GetShopID(r.Context()),
		queryInt(q.Get("page"), 1), queryInt(q.Get("page_size"), 20))
	if err != nil {
		h.logger.Error("low stock listing failed", zap.Error(err))
		httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"items": rolls, "total": total})
}

func (h *Handler) Movements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	movements, total, err := h.uc.ListMovements(r.Context(), &dto.MovementFilters{
		ShopID:       auth.GetShopID(r.Context()),
		MaterialID:   q.Get("material_id"),
		RollID:       q.Get("roll_id"),
		MovementType: q.Get("movement_type"),
		Page:         queryInt(q.Get("page"), 1),
		PageSize:     queryInt(q.Get("page_size"), 20),
	})
	if err != nil {
		h.logger.Error("movement listing failed", zap.Error(err))
		httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"items": movements, "total": total})
}

func (h *Handler) CheckStock(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lengthCm, err := strconv.ParseFloat(q.Get("length_cm"), 64)
	if err != nil || lengthCm <= 0 {
		httputil.RespondWithError(w, http.StatusBadRequest, "length_cm must be a positive number")
		return
	}
	quantity := queryInt(q.Get("quantity"), 1)

	result, err := h.uc.CheckStock(r.Context(), auth.GetShopID(r.Context()), mux.Vars(r)["id"], lengthCm, quantity)
	if err != nil {
		httputil.RespondWithError(w, http.StatusNotFound, err.Error())
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, result)
}

type adjustStockRequest struct {
	RollID        string  `json:"roll_id"`
	LengthChange  float64 `json:"length_change"`
	Reason        string  `json:"reason"`
	ReferenceID   string  `json:"reference_id"`
	ReferenceType string  `json:"reference_type"`
}

func (h *Handler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var req adjustStockRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.RollID == "" || req.LengthChange == 0 {
		httputil.RespondWithError(w, http.StatusBadRequest, "roll_id and a non-zero length_change are required")
		return
	}
	if req.ReferenceType == "" {
		req.ReferenceType = "manual_adjustment"
	}

	roll, err := h.uc.AdjustStock(r.Context(), &dto.AdjustStockInput{
		ShopID:        auth.GetShopID(r.Context()),
		MaterialID:    mux.Vars(r)["id"],
		RollID:        req.RollID,
		LengthChange:  req.LengthChange,
		Reason:        req.Reason,
		ReferenceID:   req.ReferenceID,
		ReferenceType: req.ReferenceType,
		UserID:        auth.GetUserID(r.Context()),
	})
	if err != nil {
		h.logger.Error("stock adjustment failed", zap.Error(err))
		httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, roll)
}

func queryInt(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
