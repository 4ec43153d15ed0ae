package handler

import (
	"net/http"
	"strconv"

	"github.com/atelierprint/printshop-service/internal/auth"
	"github.com/atelierprint/printshop-service/internal/middleware"
	"github.com/atelierprint/printshop-service/internal/model"
	"github.com/atelierprint/printshop-service/internal/notification"
	"github.com/atelierprint/printshop-service/pkg/httputil"
	"github.com/atelierprint/printshop-service/pkg/logger"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Handler struct {
	store  notification.Store
	logger logger.ZapLogger
}

func NewHandler(store notification.Store, log logger.ZapLogger) *Handler {
	return &Handler{store: store, logger: log}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/notifications", middleware.RequirePermission(auth.PermNotificationsRW, h.List)).Methods(http.MethodGet)
	r.HandleFunc("/notifications/non-lues", middleware.RequirePermission(auth.PermNotificationsRW, h.Unread)).Methods(http.MethodGet)
	r.HandleFunc("/notifications/tout-lire", middleware.RequirePermission(auth.PermNotificationsRW, h.MarkAllAsRead)).Methods(http.MethodPost)
	r.HandleFunc("/notifications/{id}/lire", middleware.RequirePermission(auth.PermNotificationsRW, h.MarkAsRead)).Methods(http.MethodPost)
	r.HandleFunc("/notifications/{id}", middleware.RequirePermission(auth.PermNotificationsRW, h.Delete)).Methods(http.MethodDelete)
	r.HandleFunc("/notifications", middleware.RequirePermission(auth.PermNotificationsRW, h.ClearAll)).Methods(http.MethodDelete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 50
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	ctx := r.Context()
	var (
		items []model.Notification
		err   error
	)
	switch {
	case q.Get("type") != "":
		items, err = h.store.ByType(ctx, auth.GetShopID(ctx), model.NotificationType(q.Get("type")))
	case q.Get("order_id") != "":
		items, err = h.store.ByOrderID(ctx, auth.GetShopID(ctx), q.Get("order_id"))
	default:
		items, err = h.store.List(ctx, auth.GetShopID(ctx), limit)
	}
	if err != nil {
		h.logger.Error("list notifications failed", zap.Error(err))
		httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// Unread returns the caller's role-targeted unread notifications, which is
// what drives the badge count in each role's screen.
func (h *Handler) Unread(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	items, err := h.store.UnreadByRole(ctx, auth.GetShopID(ctx), string(auth.GetRole(ctx)))
	if err != nil {
		h.logger.Error("unread notifications failed", zap.Error(err))
		httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

func (h *Handler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	if err := h.store.MarkAsRead(r.Context(), auth.GetShopID(r.Context()), mux.Vars(r)["id"]); err != nil {
		h.logger.Error("mark notification read failed", zap.Error(err))
		httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (h *Handler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.store.MarkAllAsRead(ctx, auth.GetShopID(ctx), string(auth.GetRole(ctx))); err != nil {
		h.logger.Error("mark all notifications read failed", zap.Error(err))
		httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), auth.GetShopID(r.Context()), mux.Vars(r)["id"]); err != nil {
		h.logger.Error("delete notification failed", zap.Error(err))
		httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) ClearAll(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearAll(r.Context(), auth.GetShopID(r.Context())); err != nil {
		h.logger.Error("clear notifications failed", zap.Error(err))
		httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
