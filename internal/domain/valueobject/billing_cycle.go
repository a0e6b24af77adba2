package valueobject

import (
	"fmt"
	"strings"
)

type BillingCycle string

const (
	BillingOnce    BillingCycle = "once"
	BillingMonthly BillingCycle = "monthly"
	BillingYearly  BillingCycle = "yearly"
)

func ParseBillingCycle(raw string) (BillingCycle, error) {
	cycle := BillingCycle(strings.ToLower(strings.TrimSpace(raw)))
	if cycle == "" {
		return BillingMonthly, nil
	}
	switch cycle {
	case BillingOnce, BillingMonthly, BillingYearly:
		return cycle, nil
	default:
		return "", fmt.Errorf("invalid billing cycle: %q", raw)
	}
}

// MonthlyCents приводит сумму к ежемесячной; разовые платежи не повторяются
func (c BillingCycle) MonthlyCents(amount int64) int64 {
	switch c {
	case BillingMonthly:
		return amount
	case BillingYearly:
		return amount / 12
	default:
		return 0
	}
}
