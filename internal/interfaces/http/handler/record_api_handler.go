package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/paradoxie/niche-dashboard/internal/application/usecase"
	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

// RecordAPIHandler - одинаковый CRUD для backlinks, resources, expenses и tools
type RecordAPIHandler[T entity.Record] struct {
	uc        *usecase.ManageRecordsUseCase[T]
	newRecord func() T
	// filter строит условие списка из query string; nil - без фильтра
	filter func(r *http.Request) func(T) bool
	logger *logger.Logger
}

func NewRecordAPIHandler[T entity.Record](
	uc *usecase.ManageRecordsUseCase[T],
	newRecord func() T,
	filter func(r *http.Request) func(T) bool,
	logger *logger.Logger,
) *RecordAPIHandler[T] {
	return &RecordAPIHandler[T]{
		uc:        uc,
		newRecord: newRecord,
		filter:    filter,
		logger:    logger,
	}
}

func (h *RecordAPIHandler[T]) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *RecordAPIHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	var match func(T) bool
	if h.filter != nil {
		match = h.filter(r)
	}

	records, err := h.uc.List(r.Context(), match)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if records == nil {
		records = []T{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *RecordAPIHandler[T]) Get(w http.ResponseWriter, r *http.Request) {
	record, err := h.uc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *RecordAPIHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	record := h.newRecord()
	if err := decodeJSON(w, r, 0, record); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	created, err := h.uc.Create(r.Context(), record)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *RecordAPIHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	record := h.newRecord()
	if err := decodeJSON(w, r, 0, record); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	updated, err := h.uc.Update(r.Context(), chi.URLParam(r, "id"), record)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *RecordAPIHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BacklinkFilter: ?project_id=&status=
func BacklinkFilter(r *http.Request) func(*entity.Backlink) bool {
	projectID := r.URL.Query().Get("project_id")
	status := r.URL.Query().Get("status")
	if projectID == "" && status == "" {
		return nil
	}
	return func(b *entity.Backlink) bool {
		if projectID != "" && b.ProjectID != projectID {
			return false
		}
		return status == "" || string(b.Status) == status
	}
}

// ExpenseFilter: ?project_id=&category=
func ExpenseFilter(r *http.Request) func(*entity.Expense) bool {
	projectID := r.URL.Query().Get("project_id")
	category := r.URL.Query().Get("category")
	if projectID == "" && category == "" {
		return nil
	}
	return func(e *entity.Expense) bool {
		if projectID != "" && e.ProjectID != projectID {
			return false
		}
		return category == "" || e.Category == category
	}
}
