package handler

import (
	"net/http"
	"strconv"

	"github.com/atelierprint/printshop-service/internal/auth"
	"github.com/atelierprint/printshop-service/internal/middleware"
	"github.com/atelierprint/printshop-service/internal/model"
	"github.com/atelierprint/printshop-service/internal/order"
	"github.com/atelierprint/printshop-service/internal/order/dto"
	"github.com/atelierprint/printshop-service/internal/order/usecase"
	"github.com/atelierprint/printshop-service/internal/pricing"
	"github.com/atelierprint/printshop-service/pkg/httputil"
	"github.com/atelierprint/printshop-service/pkg/logger"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Handler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewHandler(uc order.UseCase, log logger.ZapLogger) *Handler {
	return &Handler{uc: uc, logger: log}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/commandes/devis", middleware.RequirePermission(auth.PermOrdersRead, h.Quote)).Methods(http.MethodPost)
	r.HandleFunc("/commandes", middleware.RequirePermission(auth.PermOrdersWrite, h.Create)).Methods(http.MethodPost)
	r.HandleFunc("/commandes", middleware.RequirePermission(auth.PermOrdersRead, h.List)).Methods(http.MethodGet)
	r.HandleFunc("/commandes/{id}", middleware.RequirePermission(auth.PermOrdersRead, h.Get)).Methods(http.MethodGet)
	r.HandleFunc("/commandes/{id}/statut", middleware.RequirePermission(auth.PermOrdersProduce, h.UpdateStatus)).Methods(http.MethodPatch)
	r.HandleFunc("/commandes/{id}", middleware.RequirePermission(auth.PermOrdersWrite, h.Delete)).Methods(http.MethodDelete)
}

type orderRequest struct {
	ClientID   string                `json:"client_id"`
	ClientName string                `json:"client_name"`
	MaterialID string                `json:"material_id"`
	WidthCm    float64               `json:"width_cm"`
	LengthCm   float64               `json:"length_cm"`
	Quantity   int                   `json:"quantity"`
	Options    model.SelectedOptions `json:"options"`
	Special    bool                  `json:"special"`
	Notes      string                `json:"notes"`
}

func (r *orderRequest) validate() string {
	if r.MaterialID == "" {
		return "material_id is required"
	}
	if r.WidthCm <= 0 || r.LengthCm <= 0 {
		return "width_cm and length_cm must be positive"
	}
	if r.Quantity <= 0 {
		return "quantity must be at least 1"
	}
	return ""
}

func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if msg := req.validate(); msg != "" {
		httputil.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	price, stock, err := h.uc.Quote(r.Context(), &dto.QuoteInput{
		ShopID:     auth.GetShopID(r.Context()),
		MaterialID: req.MaterialID,
		WidthCm:    req.WidthCm,
		LengthCm:   req.LengthCm,
		Quantity:   req.Quantity,
		Options:    req.Options,
		Special:    req.Special,
	})
	if err != nil {
		if errors.Is(err, pricing.ErrInsufficientStock) {
			httputil.RespondWithJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error": err.Error(),
				"stock": stock,
			})
			return
		}
		h.logger.Error("quote failed", zap.Error(err))
		httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"price": price,
		"stock": stock,
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if msg := req.validate(); msg != "" {
		httputil.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	ctx := r.Context()
	created, err := h.uc.CreateOrder(ctx, &dto.CreateOrderInput{
		ShopID:     auth.GetShopID(ctx),
		ClientID:   req.ClientID,
		ClientName: req.ClientName,
		MaterialID: req.MaterialID,
		WidthCm:    req.WidthCm,
		LengthCm:   req.LengthCm,
		Quantity:   req.Quantity,
		Options:    req.Options,
		Special:    req.Special,
		Notes:      req.Notes,
		UserID:     auth.GetUserID(ctx),
		UserRole:   string(auth.GetRole(ctx)),
	})
	if err != nil {
		if errors.Is(err, pricing.ErrInsufficientStock) {
			httputil.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.logger.Error("create order failed", zap.Error(err))
		httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, total, err := h.uc.ListOrders(r.Context(), &dto.OrderFilters{
		ShopID:      auth.GetShopID(r.Context()),
		Status:      q.Get("status"),
		ClientID:    q.Get("client_id"),
		SearchQuery: q.Get("search"),
		SortBy:      q.Get("sort_by"),
		SortOrder:   q.Get("sort_order"),
		Page:        queryInt(q.Get("page"), 1),
		PageSize:    queryInt(q.Get("page_size"), 20),
	})
	if err != nil {
		h.logger.Error("list orders failed", zap.Error(err))
		httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"total": total,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.uc.GetOrder(r.Context(), auth.GetShopID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		httputil.RespondWithError(w, http.StatusNotFound, "order not found")
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, o)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	ctx := r.Context()
	updated, err := h.uc.UpdateStatus(ctx, &dto.UpdateStatusInput{
		ID:       mux.Vars(r)["id"],
		ShopID:   auth.GetShopID(ctx),
		Status:   model.OrderStatus(req.Status),
		UserID:   auth.GetUserID(ctx),
		UserRole: string(auth.GetRole(ctx)),
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidTransition) {
			httputil.RespondWithError(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("status update failed", zap.Error(err))
		httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteOrder(r.Context(), auth.GetShopID(r.Context()), mux.Vars(r)["id"]); err != nil {
		h.logger.Error("delete order failed", zap.Error(err))
		httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
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
