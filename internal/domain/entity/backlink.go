package entity

import (
	"strings"
	"time"

	"github.com/paradoxie/niche-dashboard/internal/domain/valueobject"
)

// Backlink - входящая ссылка на проект
type Backlink struct {
	ID         string                     `json:"id"`
	ProjectID  string                     `json:"project_id"`
	ResourceID string                     `json:"resource_id,omitempty"`
	SourceURL  string                     `json:"source_url"`
	TargetURL  string                     `json:"target_url"`
	AnchorText string                     `json:"anchor_text"`
	Status     valueobject.BacklinkStatus `json:"status"`
	CostCents  int64                      `json:"cost_cents"`
	Notes      string                     `json:"notes"`
	AcquiredAt *time.Time                 `json:"acquired_at"`
	CreatedAt  time.Time                  `json:"created_at"`
	UpdatedAt  time.Time                  `json:"updated_at"`
}

func (b *Backlink) RecordID() string { return b.ID }

func (b *Backlink) RecordCreatedAt() time.Time { return b.CreatedAt }

func (b *Backlink) Validate() error {
	if strings.TrimSpace(b.ProjectID) == "" {
		return invalid("project_id", "is required")
	}
	if err := validateURL("source_url", b.SourceURL, true); err != nil {
		return err
	}
	if err := validateURL("target_url", b.TargetURL, false); err != nil {
		return err
	}
	status, err := valueobject.ParseBacklinkStatus(string(b.Status))
	if err != nil {
		return invalid("status", "%s", err.Error())
	}
	b.Status = status
	if b.CostCents < 0 {
		return invalid("cost_cents", "must not be negative")
	}
	return nil
}

// Stamp также проставляет acquiredAt при переходе в live
func (b *Backlink) Stamp(id string, createdAt, now time.Time) {
	b.ID = id
	b.CreatedAt = createdAt
	b.UpdatedAt = now
	b.SourceURL = strings.TrimSpace(b.SourceURL)
	b.TargetURL = strings.TrimSpace(b.TargetURL)
	if b.Status == valueobject.BacklinkLive && b.AcquiredAt == nil {
		acquired := now
		b.AcquiredAt = &acquired
	}
}
