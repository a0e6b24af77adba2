package entity

import (
	"strings"
	"time"

	"github.com/paradoxie/niche-dashboard/internal/domain/valueobject"
)

// Tool - SEO-инструмент в подписке
type Tool struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	URL              string    `json:"url"`
	Category         string    `json:"category"`
	MonthlyCostCents int64     `json:"monthly_cost_cents"`
	Notes            string    `json:"notes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (t *Tool) RecordID() string { return t.ID }

func (t *Tool) RecordCreatedAt() time.Time { return t.CreatedAt }

func (t *Tool) Validate() error {
	if err := requireText("name", t.Name, 200); err != nil {
		return err
	}
	if err := validateURL("url", t.URL, false); err != nil {
		return err
	}
	if t.MonthlyCostCents < 0 {
		return invalid("monthly_cost_cents", "must not be negative")
	}
	return nil
}

func (t *Tool) Stamp(id string, createdAt, now time.Time) {
	t.ID = id
	t.CreatedAt = createdAt
	t.UpdatedAt = now
	t.Name = strings.TrimSpace(t.Name)
}

func (t *Tool) PresetCategory() (valueobject.PresetType, string) {
	return valueobject.PresetToolCategory, t.Category
}
