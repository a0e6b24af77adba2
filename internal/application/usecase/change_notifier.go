package usecase

import (
	"context"

	"github.com/paradoxie/niche-dashboard/internal/application/port"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

// AnalyticsCacheKey - ключ кешированной сводки
const AnalyticsCacheKey = "analytics:overview"

// ChangeNotifier сбрасывает кеш аналитики и публикует событие после записи.
// Cache и publisher опциональны; их ошибки только логируются.
type ChangeNotifier struct {
	cache     port.Cache
	publisher port.EventPublisher
	logger    *logger.Logger
}

func NewChangeNotifier(cache port.Cache, publisher port.EventPublisher, logger *logger.Logger) *ChangeNotifier {
	return &ChangeNotifier{cache: cache, publisher: publisher, logger: logger}
}

// Changed вызывается после успешной записи
func (n *ChangeNotifier) Changed(ctx context.Context, subject string, event interface{}) {
	if n == nil {
		return
	}
	if n.cache != nil {
		if err := n.cache.Delete(ctx, AnalyticsCacheKey); err != nil {
			n.logger.Warn("Failed to invalidate analytics cache", "error", err)
		}
	}
	if n.publisher != nil && subject != "" {
		if err := n.publisher.PublishEvent(ctx, subject, event); err != nil {
			n.logger.Warn("Failed to publish event", "subject", subject, "error", err)
		}
	}
}
