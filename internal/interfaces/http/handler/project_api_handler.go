package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/paradoxie/niche-dashboard/internal/application/dto"
	"github.com/paradoxie/niche-dashboard/internal/application/usecase"
	"github.com/paradoxie/niche-dashboard/internal/interfaces/http/middleware"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

// ProjectAPIHandler обрабатывает API запросы проектов
type ProjectAPIHandler struct {
	listUC   *usecase.ListProjectsUseCase
	manageUC *usecase.ManageProjectsUseCase
	logger   *logger.Logger
}

func NewProjectAPIHandler(
	listUC *usecase.ListProjectsUseCase,
	manageUC *usecase.ManageProjectsUseCase,
	logger *logger.Logger,
) *ProjectAPIHandler {
	return &ProjectAPIHandler{
		listUC:   listUC,
		manageUC: manageUC,
		logger:   logger,
	}
}

type contentUpdateRequest struct {
	At *time.Time `json:"at"`
}

// Routes монтирует /api/v1/projects
func (h *ProjectAPIHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/health-summary", h.HealthSummary)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
		r.Post("/touch", h.Touch)
		r.Post("/content-update", h.ContentUpdate)
	})
}

// List поддерживает ?health=&adsense=&q=&sort=
func (h *ProjectAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	projects, err := h.listUC.Execute(r.Context(), dto.ProjectFilter{
		Health:  strings.TrimSpace(query.Get("health")),
		Adsense: strings.TrimSpace(query.Get("adsense")),
		Query:   strings.TrimSpace(query.Get("q")),
		Sort:    strings.TrimSpace(query.Get("sort")),
		Locale:  middleware.LocaleFrom(r.Context()),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectAPIHandler) HealthSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.listUC.Summary(r.Context(), middleware.LocaleFrom(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *ProjectAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, err := h.manageUC.Get(r.Context(), chi.URLParam(r, "id"), middleware.LocaleFrom(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input dto.ProjectInput
	if err := decodeJSON(w, r, 0, &input); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	project, err := h.manageUC.Create(r.Context(), input, middleware.LocaleFrom(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (h *ProjectAPIHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input dto.ProjectInput
	if err := decodeJSON(w, r, 0, &input); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	project, err := h.manageUC.Update(r.Context(), chi.URLParam(r, "id"), input, middleware.LocaleFrom(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.manageUC.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProjectAPIHandler) Touch(w http.ResponseWriter, r *http.Request) {
	project, err := h.manageUC.Touch(r.Context(), chi.URLParam(r, "id"), middleware.LocaleFrom(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// ContentUpdate: тело {"at": "..."} необязательно, без него - текущее время
func (h *ProjectAPIHandler) ContentUpdate(w http.ResponseWriter, r *http.Request) {
	var req contentUpdateRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, 0, &req); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
	}

	var at time.Time
	if req.At != nil {
		at = *req.At
	}
	project, err := h.manageUC.RecordContentUpdate(r.Context(), chi.URLParam(r, "id"), at, middleware.LocaleFrom(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}
