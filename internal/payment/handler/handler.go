package handler

import (
	"net/http"
	"strconv"

	"github.com/atelierprint/printshop-service/internal/auth"
	"github.com/atelierprint/printshop-service/internal/middleware"
	"github.com/atelierprint/printshop-service/internal/model"
	"github.com/atelierprint/printshop-service/internal/payment"
	"github.com/atelierprint/printshop-service/internal/payment/usecase"
	"github.com/atelierprint/printshop-service/pkg/httputil"
	"github.com/atelierprint/printshop-service/pkg/logger"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Handler struct {
	uc     payment.UseCase
	logger logger.ZapLogger
}

func NewHandler(uc payment.UseCase, log logger.ZapLogger) *Handler {
	return &Handler{uc: uc, logger: log}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/paiements", middleware.RequirePermission(auth.PermPaymentsWrite, h.Record)).Methods(http.MethodPost)
	r.HandleFunc("/paiements", middleware.RequirePermission(auth.PermPaymentsRead, h.List)).Methods(http.MethodGet)
	r.HandleFunc("/paiements/{id}", middleware.RequirePermission(auth.PermPaymentsRead, h.Get)).Methods(http.MethodGet)
	r.HandleFunc("/paiements/{id}", middleware.RequirePermission(auth.PermPaymentsWrite, h.Delete)).Methods(http.MethodDelete)
	r.HandleFunc("/commandes/{id}/solde", middleware.RequirePermission(auth.PermPaymentsRead, h.Balance)).Methods(http.MethodGet)
}

type recordPaymentRequest struct {
	OrderID string  `json:"order_id"`
	Amount  float64 `json:"amount"`
	Method  string  `json:"method"`
	Notes   string  `json:"notes"`
}

func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	var req recordPaymentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.OrderID == "" {
		httputil.RespondWithError(w, http.StatusBadRequest, "order_id is required")
		return
	}

	ctx := r.Context()
	created, err := h.uc.RecordPayment(ctx, &payment.CreatePaymentInput{
		ShopID:  auth.GetShopID(ctx),
		OrderID: req.OrderID,
		Amount:  req.Amount,
		Method:  model.PaymentMethod(req.Method),
		UserID:  auth.GetUserID(ctx),
		Notes:   req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrOrderNotFound):
			httputil.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, usecase.ErrOverpayment),
			errors.Is(err, usecase.ErrNegativePayment),
			errors.Is(err, usecase.ErrSpecialOrderPaid),
			errors.Is(err, usecase.ErrOrderCancelled):
			httputil.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			h.logger.Error("record payment failed", zap.Error(err))
			httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, total, err := h.uc.ListPayments(r.Context(), &payment.PaymentFilters{
		ShopID:   auth.GetShopID(r.Context()),
		OrderID:  q.Get("order_id"),
		Method:   q.Get("method"),
		Page:     queryInt(q.Get("page"), 1),
		PageSize: queryInt(q.Get("page_size"), 20),
	})
	if err != nil {
		h.logger.Error("list payments failed", zap.Error(err))
		httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"items": items, "total": total})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.uc.GetPayment(r.Context(), auth.GetShopID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		httputil.RespondWithError(w, http.StatusNotFound, "payment not found")
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, p)
}

func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.uc.Balance(r.Context(), auth.GetShopID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, usecase.ErrOrderNotFound) {
			httputil.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("balance lookup failed", zap.Error(err))
		httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, balance)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeletePayment(r.Context(), auth.GetShopID(r.Context()), mux.Vars(r)["id"]); err != nil {
		h.logger.Error("delete payment failed", zap.Error(err))
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
