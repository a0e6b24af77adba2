package entity

import (
	"strings"
	"time"

	"github.com/paradoxie/niche-dashboard/internal/domain/valueobject"
)

// Expense - расход портфеля; суммы хранятся в центах
type Expense struct {
	ID           string                   `json:"id"`
	ProjectID    string                   `json:"project_id,omitempty"`
	Name         string                   `json:"name"`
	Category     string                   `json:"category"`
	AmountCents  int64                    `json:"amount_cents"`
	Currency     string                   `json:"currency"`
	BillingCycle valueobject.BillingCycle `json:"billing_cycle"`
	PaidAt       *time.Time               `json:"paid_at"`
	Notes        string                   `json:"notes"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

func (e *Expense) RecordID() string { return e.ID }

func (e *Expense) RecordCreatedAt() time.Time { return e.CreatedAt }

func (e *Expense) Validate() error {
	if err := requireText("name", e.Name, 200); err != nil {
		return err
	}
	if e.AmountCents < 0 {
		return invalid("amount_cents", "must not be negative")
	}
	currency := strings.ToUpper(strings.TrimSpace(e.Currency))
	if currency == "" {
		currency = "USD"
	}
	if len(currency) != 3 {
		return invalid("currency", "must be a 3-letter ISO code")
	}
	e.Currency = currency
	cycle, err := valueobject.ParseBillingCycle(string(e.BillingCycle))
	if err != nil {
		return invalid("billing_cycle", "%s", err.Error())
	}
	e.BillingCycle = cycle
	return nil
}

func (e *Expense) Stamp(id string, createdAt, now time.Time) {
	e.ID = id
	e.CreatedAt = createdAt
	e.UpdatedAt = now
	e.Name = strings.TrimSpace(e.Name)
}

func (e *Expense) PresetCategory() (valueobject.PresetType, string) {
	return valueobject.PresetExpenseCategory, e.Category
}

// MonthlyCents - повторяющаяся ежемесячная нагрузка
func (e *Expense) MonthlyCents() int64 {
	return e.BillingCycle.MonthlyCents(e.AmountCents)
}
