package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

var ErrUnauthorized = errors.New("unauthorized")

type AuthConfig struct {
	Enabled  bool
	Password string
	// SessionTTL - срок жизни cookie сессии
	SessionTTL time.Duration
	// OnFailure вызывается при отклоненном запросе (метрики); может быть nil
	OnFailure func()
}

const AuthCookieName = "niche_session"

// Auth защищает endpoint статическим паролем: Bearer <password> или подписанная cookie сессии.
func Auth(cfg AuthConfig, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := ValidateRequestAuth(r, cfg); err != nil {
				if cfg.OnFailure != nil {
					cfg.OnFailure()
				}
				log.Warn("Unauthorized request",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				w.Header().Set("WWW-Authenticate", `Bearer realm="niche-dashboard"`)
				WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func ValidateRequestAuth(r *http.Request, cfg AuthConfig) error {
	if !cfg.Enabled {
		return nil
	}
	if strings.TrimSpace(cfg.Password) == "" {
		return ErrUnauthorized
	}

	if token := bearerToken(r); token != "" {
		if CheckPassword(cfg, token) || VerifySession(cfg, token, time.Now()) {
			return nil
		}
		return ErrUnauthorized
	}

	if c, err := r.Cookie(AuthCookieName); err == nil && VerifySession(cfg, c.Value, time.Now()) {
		return nil
	}

	// Для WebSocket браузер не может отправить кастомный Authorization header через new WebSocket().
	if token := strings.TrimSpace(r.URL.Query().Get("token")); token != "" && VerifySession(cfg, token, time.Now()) {
		return nil
	}

	return ErrUnauthorized
}

// CheckPassword сравнивает пароль за постоянное время
func CheckPassword(cfg AuthConfig, candidate string) bool {
	expected := sha256.Sum256([]byte(cfg.Password))
	got := sha256.Sum256([]byte(candidate))
	return subtle.ConstantTimeCompare(expected[:], got[:]) == 1
}

func bearerToken(r *http.Request) string {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if authHeader == "" {
		return ""
	}
	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func WriteAuthCookie(w http.ResponseWriter, token string, secure bool, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
	})
}

func ClearAuthCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
