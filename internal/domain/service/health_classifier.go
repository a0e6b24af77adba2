package service

import (
	"math"
	"time"

	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/internal/domain/valueobject"
)

// Reason - причина статуса: ключ локализации и параметры
type Reason struct {
	Key    string         `json:"key"`
	Params map[string]any `json:"params,omitempty"`
}

// HealthAssessment - результат оценки проекта
type HealthAssessment struct {
	Status          valueobject.HealthStatus
	DaysSinceUpdate int
	// DaysUntilExpiry == nil означает, что дата окончания домена не задана
	DaysUntilExpiry *int
	Reasons         []Reason
}

// HealthClassifier выводит статус здоровья проекта из его полей и текущего времени.
// Все операции чистые и тотальные.
type HealthClassifier struct {
	clock Clock
}

func NewHealthClassifier(clock Clock) *HealthClassifier {
	return &HealthClassifier{clock: clock}
}

// Classify возвращает good, warning или danger
func (c *HealthClassifier) Classify(p *entity.Project) valueobject.HealthStatus {
	return statusOf(matchRules(c.facts(p)))
}

// Explain возвращает причины в фиксированном порядке: домен, активность, AdSense
func (c *HealthClassifier) Explain(p *entity.Project) []Reason {
	f := c.facts(p)
	return reasonsOf(f, matchRules(f))
}

// ExplainReasons рендерит причины через функцию локализации
func (c *HealthClassifier) ExplainReasons(p *entity.Project, lookup Lookup) []string {
	reasons := c.Explain(p)
	texts := make([]string, 0, len(reasons))
	for _, r := range reasons {
		texts = append(texts, lookup(r.Key, r.Params))
	}
	return texts
}

// Assess считает все сразу за один проход
func (c *HealthClassifier) Assess(p *entity.Project) HealthAssessment {
	f := c.facts(p)
	matched := matchRules(f)

	assessment := HealthAssessment{
		Status:          statusOf(matched),
		DaysSinceUpdate: f.daysSinceUpdate,
		Reasons:         reasonsOf(f, matched),
	}
	if f.hasExpiry {
		days := f.daysUntilExpiry
		assessment.DaysUntilExpiry = &days
	}
	return assessment
}

func (c *HealthClassifier) facts(p *entity.Project) healthFacts {
	now := c.clock.Now()

	f := healthFacts{
		daysSinceUpdate: NeverUpdatedDays,
		daysUntilExpiry: math.MaxInt,
		adsense:         p.AdsenseStatus(),
	}

	if last := p.EffectiveLastUpdate(); !isEpochZero(last) {
		f.daysSinceUpdate = valueobject.DaysBetween(last, now, valueobject.Rolling)
	}
	if expiry := p.DomainExpiry(); expiry != nil {
		f.hasExpiry = true
		f.daysUntilExpiry = valueobject.DaysBetween(now, *expiry, valueobject.Rolling)
	}
	return f
}

func statusOf(matched []healthRule) valueobject.HealthStatus {
	status := valueobject.HealthGood
	for _, rule := range matched {
		status = status.Worse(rule.status)
	}
	return status
}

func reasonsOf(f healthFacts, matched []healthRule) []Reason {
	reasons := make([]Reason, 0, len(matched))
	for _, rule := range matched {
		reason := Reason{Key: rule.reason}
		if rule.days != nil {
			days := rule.days(f)
			if days < 0 {
				days = -days
			}
			reason.Params = map[string]any{"days": days}
		}
		reasons = append(reasons, reason)
	}
	return reasons
}

// isEpochZero: отсутствующие значения трактуются как 0 (Unix epoch)
func isEpochZero(t time.Time) bool {
	return t.IsZero() || t.Unix() == 0
}
