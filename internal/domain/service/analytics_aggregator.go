package service

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/internal/domain/valueobject"
)

// PushWindowDays - глубина графика активности GitHub
const PushWindowDays = 30

type ProjectCount struct {
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	Count     int    `json:"count"`
}

type CategoryTotal struct {
	Category     string `json:"category"`
	MonthlyCents int64  `json:"monthly_cents"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// AnalyticsReport - сводка по портфелю
type AnalyticsReport struct {
	GeneratedAt            time.Time                          `json:"generated_at"`
	ProjectsTotal          int                                `json:"projects_total"`
	HealthCounts           map[valueobject.HealthStatus]int   `json:"health_counts"`
	AdsenseCounts          map[valueobject.AdsenseStatus]int  `json:"adsense_counts"`
	BacklinksByStatus      map[valueobject.BacklinkStatus]int `json:"backlinks_by_status"`
	LiveBacklinksByProject []ProjectCount                     `json:"live_backlinks_by_project"`
	BacklinkSpendCents     int64                              `json:"backlink_spend_cents"`
	MonthlyExpenseCents    int64                              `json:"monthly_expense_cents"`
	OneTimeExpenseCents    int64                              `json:"one_time_expense_cents"`
	ExpenseByCategory      []CategoryTotal                    `json:"expense_by_category"`
	MonthlyToolCents       int64                              `json:"monthly_tool_cents"`
	PushesPerDay           []DayCount                         `json:"pushes_per_day"`
}

// AnalyticsInput - данные, уже выбранные из хранилища
type AnalyticsInput struct {
	Projects  []*entity.Project
	Backlinks []*entity.Backlink
	Expenses  []*entity.Expense
	Tools     []*entity.Tool
	Pushes    []*entity.GithubPush
}

// AnalyticsAggregator строит сводку; статусы здоровья считаются классификатором
type AnalyticsAggregator struct {
	classifier *HealthClassifier
	clock      Clock
}

func NewAnalyticsAggregator(classifier *HealthClassifier, clock Clock) *AnalyticsAggregator {
	return &AnalyticsAggregator{classifier: classifier, clock: clock}
}

func (a *AnalyticsAggregator) Build(in AnalyticsInput) *AnalyticsReport {
	now := a.clock.Now()

	report := &AnalyticsReport{
		GeneratedAt:       now,
		ProjectsTotal:     len(in.Projects),
		HealthCounts:      make(map[valueobject.HealthStatus]int, 3),
		AdsenseCounts:     make(map[valueobject.AdsenseStatus]int),
		BacklinksByStatus: make(map[valueobject.BacklinkStatus]int, 4),
	}
	for _, status := range valueobject.AllHealthStatuses() {
		report.HealthCounts[status] = 0
	}
	for _, status := range valueobject.AllBacklinkStatuses() {
		report.BacklinksByStatus[status] = 0
	}

	names := make(map[string]string, len(in.Projects))
	for _, p := range in.Projects {
		names[p.ID()] = p.Name()
		report.HealthCounts[a.classifier.Classify(p)]++
		report.AdsenseCounts[p.AdsenseStatus()]++
	}

	for _, b := range in.Backlinks {
		report.BacklinksByStatus[b.Status]++
		report.BacklinkSpendCents += b.CostCents
	}
	report.LiveBacklinksByProject = liveBacklinksByProject(in.Backlinks, names)

	for _, e := range in.Expenses {
		report.MonthlyExpenseCents += e.MonthlyCents()
		if e.BillingCycle == valueobject.BillingOnce {
			report.OneTimeExpenseCents += e.AmountCents
		}
	}
	report.ExpenseByCategory = expenseByCategory(in.Expenses)

	for _, t := range in.Tools {
		report.MonthlyToolCents += t.MonthlyCostCents
	}

	report.PushesPerDay = pushesPerDay(in.Pushes, now)
	return report
}

func liveBacklinksByProject(backlinks []*entity.Backlink, names map[string]string) []ProjectCount {
	live := lo.Filter(backlinks, func(b *entity.Backlink, _ int) bool {
		return b.Status == valueobject.BacklinkLive
	})
	grouped := lo.GroupBy(live, func(b *entity.Backlink) string { return b.ProjectID })

	counts := make([]ProjectCount, 0, len(grouped))
	for projectID, items := range grouped {
		counts = append(counts, ProjectCount{ProjectID: projectID, Name: names[projectID], Count: len(items)})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Name < counts[j].Name
	})
	return counts
}

func expenseByCategory(expenses []*entity.Expense) []CategoryTotal {
	recurring := lo.Filter(expenses, func(e *entity.Expense, _ int) bool {
		return e.MonthlyCents() > 0
	})
	labels := make(map[string]string)
	grouped := lo.GroupBy(recurring, func(e *entity.Expense) string {
		key := PresetKey(e.Category)
		if key == "" {
			key = "uncategorized"
		}
		if _, ok := labels[key]; !ok {
			labels[key] = NormalizePresetValue(e.Category)
			if labels[key] == "" {
				labels[key] = key
			}
		}
		return key
	})

	totals := make([]CategoryTotal, 0, len(grouped))
	for key, items := range grouped {
		var sum int64
		for _, e := range items {
			sum += e.MonthlyCents()
		}
		totals = append(totals, CategoryTotal{Category: labels[key], MonthlyCents: sum})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].MonthlyCents != totals[j].MonthlyCents {
			return totals[i].MonthlyCents > totals[j].MonthlyCents
		}
		return totals[i].Category < totals[j].Category
	})
	return totals
}

// pushesPerDay заполняет все дни окна, включая дни без коммитов
func pushesPerDay(pushes []*entity.GithubPush, now time.Time) []DayCount {
	today := valueobject.Midnight(now)
	start := today.AddDate(0, 0, -(PushWindowDays - 1))

	byDay := lo.GroupBy(pushes, func(p *entity.GithubPush) string {
		return p.PushedAt.In(now.Location()).Format("2006-01-02")
	})

	days := make([]DayCount, 0, PushWindowDays)
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		days = append(days, DayCount{Date: key, Count: len(byDay[key])})
	}
	return days
}
