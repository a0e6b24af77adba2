package port

import (
	"context"

	"github.com/paradoxie/niche-dashboard/internal/application/dto"
)

// MetricsPublisher defines the interface for publishing portfolio metrics to external observability platforms.
type MetricsPublisher interface {
	// PublishHealthRollup buffers one health rollup (counts per status).
	PublishHealthRollup(ctx context.Context, rollup dto.HealthRollup) error

	// Flush forces immediate publication of any buffered metrics.
	// Should be called during graceful shutdown to prevent data loss.
	Flush(ctx context.Context) error
}

// JobRecorder counts background job runs (GitHub sync, health sweep)
type JobRecorder interface {
	ObserveJob(job string, seconds float64, err error)
}

// HealthGauge exposes the latest health distribution
type HealthGauge interface {
	SetHealthCounts(counts map[string]int)
}
