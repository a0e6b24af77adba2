package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/paradoxie/niche-dashboard/internal/application/dto"
	"github.com/paradoxie/niche-dashboard/internal/application/usecase"
	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

const (
	defaultBackupListLimit = 20
	maxBackupListLimit     = 100
)

// DataAPIHandler - выгрузка и загрузка всех данных
type DataAPIHandler struct {
	exportUC       *usecase.ExportDataUseCase
	importUC       *usecase.ImportDataUseCase
	maxImportBytes int64
	logger         *logger.Logger
}

func NewDataAPIHandler(
	exportUC *usecase.ExportDataUseCase,
	importUC *usecase.ImportDataUseCase,
	maxImportBytes int64,
	logger *logger.Logger,
) *DataAPIHandler {
	if maxImportBytes <= 0 {
		maxImportBytes = 20 * 1024 * 1024
	}
	return &DataAPIHandler{
		exportUC:       exportUC,
		importUC:       importUC,
		maxImportBytes: maxImportBytes,
		logger:         logger,
	}
}

func (h *DataAPIHandler) Routes(r chi.Router) {
	r.Get("/export", h.Export)
	r.Post("/import", h.Import)
	r.Get("/backups", h.ListBackups)
}

// Export отдает документ как вложение; ключ копии в S3 - в заголовках
func (h *DataAPIHandler) Export(w http.ResponseWriter, r *http.Request) {
	result, err := h.exportUC.Execute(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	filename := "niche-dashboard-" + result.Document.ExportedAt.UTC().Format("20060102T150405Z") + ".json"
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if result.BackupKey != "" {
		w.Header().Set("X-Backup-Key", result.BackupKey)
	}
	if result.BackupURL != "" {
		w.Header().Set("X-Backup-URL", result.BackupURL)
	}
	writeJSON(w, http.StatusOK, result.Document)
}

func (h *DataAPIHandler) Import(w http.ResponseWriter, r *http.Request) {
	var doc dto.ExportDocument
	if err := decodeJSON(w, r, h.maxImportBytes, &doc); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	result, err := h.importUC.Execute(r.Context(), &doc)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListBackups: ?limit= (по умолчанию 20, максимум 100)
func (h *DataAPIHandler) ListBackups(w http.ResponseWriter, r *http.Request) {
	limit := defaultBackupListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxBackupListLimit {
			writeError(w, r, h.logger, &entity.ValidationError{Field: "limit", Message: "must be between 1 and 100"})
			return
		}
		limit = parsed
	}

	backups, err := h.exportUC.ListBackups(r.Context(), limit)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"backups": backups})
}
