package entity

import (
	"strings"
	"time"

	"github.com/paradoxie/niche-dashboard/internal/domain/valueobject"
)

// Resource - площадка для link building (каталог, форум, гостевой блог)
type Resource struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	URL          string    `json:"url"`
	Category     string    `json:"category"`
	DomainRating int       `json:"domain_rating"`
	CostCents    int64     `json:"cost_cents"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (r *Resource) RecordID() string { return r.ID }

func (r *Resource) RecordCreatedAt() time.Time { return r.CreatedAt }

func (r *Resource) Validate() error {
	if err := requireText("name", r.Name, 200); err != nil {
		return err
	}
	if err := validateURL("url", r.URL, true); err != nil {
		return err
	}
	if r.DomainRating < 0 || r.DomainRating > 100 {
		return invalid("domain_rating", "must be between 0 and 100")
	}
	if r.CostCents < 0 {
		return invalid("cost_cents", "must not be negative")
	}
	return nil
}

func (r *Resource) Stamp(id string, createdAt, now time.Time) {
	r.ID = id
	r.CreatedAt = createdAt
	r.UpdatedAt = now
	r.Name = strings.TrimSpace(r.Name)
}

func (r *Resource) PresetCategory() (valueobject.PresetType, string) {
	return valueobject.PresetResourceCategory, r.Category
}
