package handler

import (
	"net/http"
	"time"

	"github.com/paradoxie/niche-dashboard/internal/interfaces/http/middleware"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

type AuthAPIHandler struct {
	authConfig middleware.AuthConfig
	now        func() time.Time
	logger     *logger.Logger
}

type authLoginRequest struct {
	Password string `json:"password" validate:"required,max=512"`
}

func NewAuthAPIHandler(authConfig middleware.AuthConfig, log *logger.Logger) *AuthAPIHandler {
	return &AuthAPIHandler{
		authConfig: authConfig,
		now:        time.Now,
		logger:     log,
	}
}

// Login меняет пароль на подписанную cookie сессии
func (h *AuthAPIHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.authConfig.Enabled {
		writeJSON(w, http.StatusOK, map[string]any{
			"success":      true,
			"auth_enabled": false,
		})
		return
	}

	var req authLoginRequest
	if err := decodeJSON(w, r, 4<<10, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if !middleware.CheckPassword(h.authConfig, req.Password) {
		if h.authConfig.OnFailure != nil {
			h.authConfig.OnFailure()
		}
		h.logger.Warn("Auth login failed", "remote_addr", middleware.ClientIP(r))
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid password"})
		return
	}

	token, expires, err := middleware.IssueSession(h.authConfig, h.now())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	middleware.WriteAuthCookie(w, token, r.TLS != nil, expires)

	h.logger.Info("Auth login succeeded", "remote_addr", middleware.ClientIP(r))
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"auth_enabled": true,
		"token":        token,
		"expires_at":   expires,
	})
}

func (h *AuthAPIHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearAuthCookie(w, r.TLS != nil)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
	})
}

func (h *AuthAPIHandler) Status(w http.ResponseWriter, r *http.Request) {
	err := middleware.ValidateRequestAuth(r, h.authConfig)
	writeJSON(w, http.StatusOK, map[string]any{
		"auth_enabled":   h.authConfig.Enabled,
		"authenticated":  err == nil,
		"cookie_present": hasAuthCookie(r),
	})
}

func hasAuthCookie(r *http.Request) bool {
	c, err := r.Cookie(middleware.AuthCookieName)
	if err != nil {
		return false
	}
	return c.Value != ""
}
