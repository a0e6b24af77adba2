package handler

import (
	"io/fs"
	"net/http"

	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

// DashboardHandler отдает страницу dashboard
type DashboardHandler struct {
	page   []byte
	logger *logger.Logger
}

// NewDashboardHandler читает index.html из встроенных ресурсов
func NewDashboardHandler(assets fs.FS, logger *logger.Logger) (*DashboardHandler, error) {
	page, err := fs.ReadFile(assets, "index.html")
	if err != nil {
		return nil, err
	}
	return &DashboardHandler{page: page, logger: logger}, nil
}

// ShowDashboard отображает главную страницу dashboard
func (h *DashboardHandler) ShowDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := w.Write(h.page); err != nil {
		h.logger.Debug("Failed to write dashboard page", "error", err)
	}
}
