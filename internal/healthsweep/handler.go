package healthsweep

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	runner *Runner
}

func NewHandler(runner *Runner) *Handler {
	return &Handler{runner: runner}
}

// Routes монтируется под /api/v1/health-sweep
func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.summary)
	r.Post("/run", h.runNow)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	snapshot := h.runner.Snapshot()

	response := struct {
		Snapshot
		Uptime string `json:"uptime"`
	}{
		Snapshot: snapshot,
		Uptime:   time.Since(snapshot.StartedAt).Round(time.Second).String(),
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) runNow(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	summary, err := h.runner.RunOnce(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status": "error",
			"error":  err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(data)
}
