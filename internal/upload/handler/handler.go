package handler

import (
	"net/http"

	"github.com/atelierprint/printshop-service/internal/auth"
	"github.com/atelierprint/printshop-service/internal/middleware"
	"github.com/atelierprint/printshop-service/internal/upload"
	"github.com/atelierprint/printshop-service/pkg/httputil"
	"github.com/atelierprint/printshop-service/pkg/logger"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Handler struct {
	svc    *upload.Service
	logger logger.ZapLogger
}

func NewHandler(svc *upload.Service, log logger.ZapLogger) *Handler {
	return &Handler{svc: svc, logger: log}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/fichiers", middleware.RequirePermission(auth.PermUploadsWrite, h.Upload)).Methods(http.MethodPost)
}

// Upload accepts a multipart batch under the 'files' field. Either the whole
// batch is stored or nothing is: validation runs on every file before the
// first byte is written, and a save failure discards the files stored so far.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	// 64 MB in-memory ceiling; larger parts spill to temp files.
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		httputil.RespondWithError(w, http.StatusBadRequest, "no files in request")
		return
	}

	if err := h.svc.ValidateBatch(files); err != nil {
		httputil.RespondWithJSON(w, http.StatusRequestEntityTooLarge, err)
		return
	}
	for _, fh := range files {
		if err := h.svc.ValidateFile(fh); err != nil {
			httputil.RespondWithJSON(w, http.StatusUnprocessableEntity, err)
			return
		}
	}

	saved := make([]*upload.SavedFile, 0, len(files))
	for _, fh := range files {
		sf, err := h.svc.Save(fh)
		if err != nil {
			h.logger.Error("file save failed", zap.String("file", fh.Filename), zap.Error(err))
			h.svc.Discard(saved)
			httputil.RespondWithError(w, http.StatusInternalServerError, "failed to store file")
			return
		}
		saved = append(saved, sf)
	}

	httputil.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{"files": saved})
}
