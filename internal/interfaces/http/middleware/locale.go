package middleware

import (
	"context"
	"net/http"

	"github.com/paradoxie/niche-dashboard/internal/application/port"
)

type localeKey struct{}

// Locale выбирает каталог подписей: ?lang=, затем Accept-Language, затем локаль по умолчанию
func Locale(localizer port.Localizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := localizer.Resolve(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
			w.Header().Set("Content-Language", locale)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), localeKey{}, locale)))
		})
	}
}

// LocaleFrom возвращает выбранную локаль ("" вне middleware)
func LocaleFrom(ctx context.Context) string {
	locale, _ := ctx.Value(localeKey{}).(string)
	return locale
}
