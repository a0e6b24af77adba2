package handler

import (
	"net/http"

	"github.com/paradoxie/niche-dashboard/internal/application/usecase"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

// AnalyticsAPIHandler отдает сводку портфеля
type AnalyticsAPIHandler struct {
	uc     *usecase.GetAnalyticsUseCase
	logger *logger.Logger
}

func NewAnalyticsAPIHandler(uc *usecase.GetAnalyticsUseCase, logger *logger.Logger) *AnalyticsAPIHandler {
	return &AnalyticsAPIHandler{uc: uc, logger: logger}
}

func (h *AnalyticsAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	report, err := h.uc.Execute(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
