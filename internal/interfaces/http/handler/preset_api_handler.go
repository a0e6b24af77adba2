package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/paradoxie/niche-dashboard/internal/application/usecase"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

type PresetAPIHandler struct {
	uc     *usecase.ManagePresetsUseCase
	logger *logger.Logger
}

type createPresetRequest struct {
	Type  string `json:"type" validate:"required"`
	Value string `json:"value" validate:"required,max=100"`
}

func NewPresetAPIHandler(uc *usecase.ManagePresetsUseCase, logger *logger.Logger) *PresetAPIHandler {
	return &PresetAPIHandler{uc: uc, logger: logger}
}

func (h *PresetAPIHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Delete("/{id}", h.Delete)
}

// List: ?type= (пусто - все типы)
func (h *PresetAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	presets, err := h.uc.List(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, presets)
}

func (h *PresetAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPresetRequest
	if err := decodeJSON(w, r, 4<<10, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	preset, err := h.uc.Create(r.Context(), req.Type, req.Value)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, preset)
}

func (h *PresetAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
