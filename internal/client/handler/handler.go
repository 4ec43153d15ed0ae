package handler

import (
	"net/http"
	"strconv"

	"github.com/atelierprint/printshop-service/internal/auth"
	"github.com/atelierprint/printshop-service/internal/client"
	"github.com/atelierprint/printshop-service/internal/client/usecase"
	"github.com/atelierprint/printshop-service/internal/middleware"
	"github.com/atelierprint/printshop-service/pkg/httputil"
	"github.com/atelierprint/printshop-service/pkg/logger"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Handler struct {
	uc     client.UseCase
	logger logger.ZapLogger
}

func NewHandler(uc client.UseCase, log logger.ZapLogger) *Handler {
	return &Handler{uc: uc, logger: log}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/clients", middleware.RequirePermission(auth.PermClientsWrite, h.Create)).Methods(http.MethodPost)
	r.HandleFunc("/clients", middleware.RequirePermission(auth.PermClientsRead, h.List)).Methods(http.MethodGet)
	r.HandleFunc("/clients/{id}", middleware.RequirePermission(auth.PermClientsRead, h.Get)).Methods(http.MethodGet)
	r.HandleFunc("/clients/{id}", middleware.RequirePermission(auth.PermClientsWrite, h.Update)).Methods(http.MethodPut)
	r.HandleFunc("/clients/{id}", middleware.RequirePermission(auth.PermClientsWrite, h.Delete)).Methods(http.MethodDelete)
}

type clientRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Company  string `json:"company"`
	Notes    string `json:"notes"`
	IsActive bool   `json:"is_active"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.Name == "" || req.Phone == "" {
		httputil.RespondWithError(w, http.StatusBadRequest, "name and phone are required")
		return
	}

	created, err := h.uc.CreateClient(r.Context(), &client.CreateClientInput{
		ShopID:  auth.GetShopID(r.Context()),
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Company: req.Company,
		Notes:   req.Notes,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrPhoneTaken) {
			httputil.RespondWithError(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("create client failed", zap.Error(err))
		httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := &client.ClientFilters{
		ShopID:   auth.GetShopID(r.Context()),
		Search:   q.Get("search"),
		Page:     queryInt(q.Get("page"), 1),
		PageSize: queryInt(q.Get("page_size"), 20),
	}
	if v := q.Get("is_active"); v != "" {
		active := v == "true"
		filters.IsActive = &active
	}

	items, total, err := h.uc.ListClients(r.Context(), filters)
	if err != nil {
		h.logger.Error("list clients failed", zap.Error(err))
		httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"items": items, "total": total})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.uc.GetClient(r.Context(), auth.GetShopID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		httputil.RespondWithError(w, http.StatusNotFound, "client not found")
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, c)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	updated, err := h.uc.UpdateClient(r.Context(), &client.UpdateClientInput{
		ID:       mux.Vars(r)["id"],
		ShopID:   auth.GetShopID(r.Context()),
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Company:  req.Company,
		Notes:    req.Notes,
		IsActive: req.IsActive,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrPhoneTaken) {
			httputil.RespondWithError(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("update client failed", zap.Error(err))
		httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteClient(r.Context(), auth.GetShopID(r.Context()), mux.Vars(r)["id"]); err != nil {
		h.logger.Error("delete client failed", zap.Error(err))
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
