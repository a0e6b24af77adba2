package service

import "github.com/paradoxie/niche-dashboard/internal/domain/valueobject"

// Пороговые значения здоровья проекта (в днях)
const (
	ExpiryDangerDays  = 15
	ExpiryWarningDays = 30
	StaleDangerDays   = 60
	StaleWarningDays  = 14

	// NeverUpdatedDays - значение daysSinceUpdate для проекта без единого сигнала активности
	NeverUpdatedDays = 999
)

// Ключи причин; текст получается через Lookup
const (
	ReasonDomainExpired      = "reason.domainExpired"
	ReasonDomainExpiring     = "reason.domainExpiring"
	ReasonDomainExpiringSoon = "reason.domainExpiringSoon"
	ReasonStaleLong          = "reason.staleLong"
	ReasonStaleMedium        = "reason.staleMedium"
	ReasonAdsenseBanned      = "reason.adsenseBanned"
	ReasonAdsenseLimited     = "reason.adsenseLimited"
)

type ruleGroup int

const (
	groupExpiry ruleGroup = iota
	groupStaleness
	groupAdsense
)

// healthFacts - входные данные правил, посчитанные один раз на проект
type healthFacts struct {
	daysSinceUpdate int
	daysUntilExpiry int
	hasExpiry       bool
	adsense         valueobject.AdsenseStatus
}

// healthRule - строка общей таблицы порогов.
// Внутри группы срабатывает первое подходящее правило.
type healthRule struct {
	group   ruleGroup
	status  valueobject.HealthStatus
	reason  string
	applies func(f healthFacts) bool
	days    func(f healthFacts) int
}

// healthRules используется и классификатором, и объяснением причин
var healthRules = []healthRule{
	{
		group:   groupExpiry,
		status:  valueobject.HealthDanger,
		reason:  ReasonDomainExpired,
		applies: expiryBelow(0),
		days:    expiryDays,
	},
	{
		group:   groupExpiry,
		status:  valueobject.HealthDanger,
		reason:  ReasonDomainExpiring,
		applies: expiryBelow(ExpiryDangerDays),
		days:    expiryDays,
	},
	{
		group:   groupExpiry,
		status:  valueobject.HealthWarning,
		reason:  ReasonDomainExpiringSoon,
		applies: expiryBelow(ExpiryWarningDays),
		days:    expiryDays,
	},
	{
		group:   groupStaleness,
		status:  valueobject.HealthDanger,
		reason:  ReasonStaleLong,
		applies: staleAbove(StaleDangerDays),
		days:    staleDays,
	},
	{
		group:   groupStaleness,
		status:  valueobject.HealthWarning,
		reason:  ReasonStaleMedium,
		applies: staleAbove(StaleWarningDays),
		days:    staleDays,
	},
	{
		group:   groupAdsense,
		status:  valueobject.HealthDanger,
		reason:  ReasonAdsenseBanned,
		applies: adsenseIs(valueobject.AdsenseBanned),
	},
	{
		group:   groupAdsense,
		status:  valueobject.HealthWarning,
		reason:  ReasonAdsenseLimited,
		applies: adsenseIs(valueobject.AdsenseLimited),
	},
}

func expiryBelow(limit int) func(healthFacts) bool {
	return func(f healthFacts) bool { return f.hasExpiry && f.daysUntilExpiry < limit }
}

func staleAbove(limit int) func(healthFacts) bool {
	return func(f healthFacts) bool { return f.daysSinceUpdate > limit }
}

func adsenseIs(status valueobject.AdsenseStatus) func(healthFacts) bool {
	return func(f healthFacts) bool { return f.adsense == status }
}

func expiryDays(f healthFacts) int { return f.daysUntilExpiry }

func staleDays(f healthFacts) int { return f.daysSinceUpdate }

// matchRules возвращает сработавшие правила в порядке таблицы, не более одного на группу
func matchRules(f healthFacts) []healthRule {
	fired := make(map[ruleGroup]bool, 3)
	matched := make([]healthRule, 0, 3)
	for _, rule := range healthRules {
		if fired[rule.group] || !rule.applies(f) {
			continue
		}
		fired[rule.group] = true
		matched = append(matched, rule)
	}
	return matched
}
