package entity

import (
	"net/url"
	"strings"
	"time"

	"github.com/paradoxie/niche-dashboard/internal/domain/valueobject"
)

// Record - общий контракт простых сущностей справочников (backlinks, expenses, tools, resources)
type Record interface {
	RecordID() string
	RecordCreatedAt() time.Time
	Validate() error
	// Stamp назначает идентификатор и временные метки перед записью
	Stamp(id string, createdAt, now time.Time)
}

// Categorized - сущность, чья категория регистрируется как preset
type Categorized interface {
	Record
	PresetCategory() (valueobject.PresetType, string)
}

func validateURL(field, raw string, required bool) error {
	value := strings.TrimSpace(raw)
	if value == "" {
		if required {
			return invalid(field, "is required")
		}
		return nil
	}
	parsed, err := url.ParseRequestURI(value)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return invalid(field, "must be an absolute http(s) URL")
	}
	return nil
}

func requireText(field, value string, max int) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return invalid(field, "is required")
	}
	if len(trimmed) > max {
		return invalid(field, "must be at most %d characters", max)
	}
	return nil
}
