package port

import "github.com/paradoxie/niche-dashboard/internal/domain/service"

// Localizer выдает функцию подписи для выбранной локали
type Localizer interface {
	Lookup(locale string) service.Lookup
	// Resolve выбирает поддерживаемую локаль (или локаль по умолчанию)
	Resolve(candidates ...string) string
}
