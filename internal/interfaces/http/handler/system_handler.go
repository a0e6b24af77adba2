package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger - зависимость, проверяемая в /readyz
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler - пробы для оркестратора
type SystemHandler struct {
	checks  map[string]Pinger
	timeout time.Duration
}

func NewSystemHandler(checks map[string]Pinger) *SystemHandler {
	return &SystemHandler{checks: checks, timeout: 2 * time.Second}
}

func (h *SystemHandler) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Readyz пингует все зависимости; любая ошибка - 503
func (h *SystemHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			results[name] = err.Error()
			continue
		}
		results[name] = "ok"
	}

	writeJSON(w, status, map[string]any{
		"ready":  status == http.StatusOK,
		"checks": results,
	})
}
