package handler

import (
	"net/http"

	"github.com/paradoxie/niche-dashboard/internal/application/usecase"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

// GithubAPIHandler запускает синхронизацию вне расписания
type GithubAPIHandler struct {
	syncUC *usecase.SyncGithubPushesUseCase
	logger *logger.Logger
}

func NewGithubAPIHandler(syncUC *usecase.SyncGithubPushesUseCase, logger *logger.Logger) *GithubAPIHandler {
	return &GithubAPIHandler{syncUC: syncUC, logger: logger}
}

func (h *GithubAPIHandler) Sync(w http.ResponseWriter, r *http.Request) {
	summary, err := h.syncUC.Execute(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
