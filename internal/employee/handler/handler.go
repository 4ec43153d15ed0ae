package handler

import (
	"net/http"
	"strconv"

	"github.com/atelierprint/printshop-service/internal/auth"
	"github.com/atelierprint/printshop-service/internal/employee"
	"github.com/atelierprint/printshop-service/internal/employee/usecase"
	"github.com/atelierprint/printshop-service/internal/middleware"
	"github.com/atelierprint/printshop-service/pkg/httputil"
	"github.com/atelierprint/printshop-service/pkg/logger"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Handler struct {
	uc     employee.UseCase
	logger logger.ZapLogger
}

func NewHandler(uc employee.UseCase, log logger.ZapLogger) *Handler {
	return &Handler{uc: uc, logger: log}
}

// RegisterRoutes mounts the protected employee CRUD. Login is public and is
// registered separately via RegisterPublicRoutes.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/employes", middleware.RequirePermission(auth.PermEmployeesWrite, h.Create)).Methods(http.MethodPost)
	r.HandleFunc("/employes", middleware.RequirePermission(auth.PermEmployeesRead, h.List)).Methods(http.MethodGet)
	r.HandleFunc("/employes/{id}", middleware.RequirePermission(auth.PermEmployeesRead, h.Get)).Methods(http.MethodGet)
	r.HandleFunc("/employes/{id}", middleware.RequirePermission(auth.PermEmployeesWrite, h.Update)).Methods(http.MethodPut)
	r.HandleFunc("/employes/{id}", middleware.RequirePermission(auth.PermEmployeesWrite, h.Delete)).Methods(http.MethodDelete)
}

func (h *Handler) RegisterPublicRoutes(r *mux.Router) {
	r.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.Email == "" || req.Password == "" {
		httputil.RespondWithError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, emp, err := h.uc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			httputil.RespondWithError(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		httputil.RespondWithError(w, http.StatusInternalServerError, "login failed")
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"token":    token,
		"employee": emp,
	})
}

type employeeRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
	IsActive bool   `json:"is_active"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		httputil.RespondWithError(w, http.StatusBadRequest, "full_name, email and password are required")
		return
	}

	created, err := h.uc.CreateEmployee(r.Context(), &employee.CreateEmployeeInput{
		ShopID:   auth.GetShopID(r.Context()),
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Phone:    req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmailTaken):
			httputil.RespondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, usecase.ErrUnknownRole):
			httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("create employee failed", zap.Error(err))
			httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := &employee.EmployeeFilters{
		ShopID:   auth.GetShopID(r.Context()),
		Role:     q.Get("role"),
		Page:     queryInt(q.Get("page"), 1),
		PageSize: queryInt(q.Get("page_size"), 20),
	}
	if v := q.Get("is_active"); v != "" {
		active := v == "true"
		filters.IsActive = &active
	}

	items, total, err := h.uc.ListEmployees(r.Context(), filters)
	if err != nil {
		h.logger.Error("list employees failed", zap.Error(err))
		httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"items": items, "total": total})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.uc.GetEmployee(r.Context(), auth.GetShopID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		httputil.RespondWithError(w, http.StatusNotFound, "employee not found")
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, e)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	updated, err := h.uc.UpdateEmployee(r.Context(), &employee.UpdateEmployeeInput{
		ID:       mux.Vars(r)["id"],
		ShopID:   auth.GetShopID(r.Context()),
		FullName: req.FullName,
		Role:     req.Role,
		Phone:    req.Phone,
		IsActive: req.IsActive,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrUnknownRole) {
			httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("update employee failed", zap.Error(err))
		httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteEmployee(r.Context(), auth.GetShopID(r.Context()), mux.Vars(r)["id"]); err != nil {
		h.logger.Error("delete employee failed", zap.Error(err))
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
