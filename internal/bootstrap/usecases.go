package bootstrap

import (
	"github.com/paradoxie/niche-dashboard/internal/application/port"
	"github.com/paradoxie/niche-dashboard/internal/application/usecase"
	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/internal/domain/service"
	"github.com/paradoxie/niche-dashboard/internal/healthsweep"
	"github.com/paradoxie/niche-dashboard/pkg/config"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

// Observers - получатели результатов фоновых задач; любой может быть nil
type Observers struct {
	Jobs     port.JobRecorder
	Gauge    port.HealthGauge
	Notifier port.NotificationService
}

// UseCases - все сценарии приложения поверх одного хранилища
type UseCases struct {
	Classifier *service.HealthClassifier

	ListProjects   *usecase.ListProjectsUseCase
	ManageProjects *usecase.ManageProjectsUseCase
	Presets        *usecase.ManagePresetsUseCase
	Backlinks      *usecase.ManageRecordsUseCase[*entity.Backlink]
	Resources      *usecase.ManageRecordsUseCase[*entity.Resource]
	Expenses       *usecase.ManageRecordsUseCase[*entity.Expense]
	Tools          *usecase.ManageRecordsUseCase[*entity.Tool]
	Analytics      *usecase.GetAnalyticsUseCase
	Export         *usecase.ExportDataUseCase
	Import         *usecase.ImportDataUseCase
	SyncGithub     *usecase.SyncGithubPushesUseCase
	HealthSweep    *healthsweep.Runner
}

func NewUseCases(
	cfg *config.Config,
	infra *Infrastructure,
	github port.GitHubClient,
	localizer port.Localizer,
	clock service.Clock,
	observers Observers,
	log *logger.Logger,
) *UseCases {
	store := infra.Store
	classifier := service.NewHealthClassifier(clock)
	presenter := usecase.NewProjectPresenter(classifier, service.NewTimeFormatter(clock), localizer)
	notifier := usecase.NewChangeNotifier(infra.Cache, infra.Events, log)
	presets := usecase.NewManagePresetsUseCase(store.Presets(), clock, notifier, log)

	return &UseCases{
		Classifier:     classifier,
		ListProjects:   usecase.NewListProjectsUseCase(store.Projects(), presenter, log),
		ManageProjects: usecase.NewManageProjectsUseCase(store.Projects(), presenter, clock, notifier, log),
		Presets:        presets,
		Backlinks: usecase.NewManageRecordsUseCase(store.Backlinks(), store.Projects(), presets, clock, notifier, log,
			usecase.RecordOptions[*entity.Backlink]{
				Kind:      "backlink",
				ProjectOf: func(b *entity.Backlink) string { return b.ProjectID },
			}),
		Resources: usecase.NewManageRecordsUseCase(store.Resources(), store.Projects(), presets, clock, notifier, log,
			usecase.RecordOptions[*entity.Resource]{Kind: "resource"}),
		Expenses: usecase.NewManageRecordsUseCase(store.Expenses(), store.Projects(), presets, clock, notifier, log,
			usecase.RecordOptions[*entity.Expense]{
				Kind:      "expense",
				ProjectOf: func(e *entity.Expense) string { return e.ProjectID },
			}),
		Tools: usecase.NewManageRecordsUseCase(store.Tools(), store.Projects(), presets, clock, notifier, log,
			usecase.RecordOptions[*entity.Tool]{Kind: "tool"}),
		Analytics: usecase.NewGetAnalyticsUseCase(usecase.AnalyticsRepositories{
			Projects:  store.Projects(),
			Backlinks: store.Backlinks(),
			Expenses:  store.Expenses(),
			Tools:     store.Tools(),
			Pushes:    store.GithubPushes(),
		}, service.NewAnalyticsAggregator(classifier, clock), clock, infra.Cache, log),
		Export: usecase.NewExportDataUseCase(store.Snapshots(), infra.Backups, clock,
			usecase.ExportDataConfig{KeyPrefix: cfg.S3.KeyPrefix}, log),
		Import: usecase.NewImportDataUseCase(store.Snapshots(), clock, notifier, log),
		SyncGithub: usecase.NewSyncGithubPushesUseCase(store.Projects(), store.GithubPushes(), github, clock, notifier, observers.Jobs,
			usecase.SyncGithubPushesConfig{
				CommitsPerPage: cfg.GitHub.CommitsPerPage,
				Concurrency:    cfg.GitHub.Concurrency,
			}, log),
		HealthSweep: healthsweep.NewRunner(
			healthsweep.NewService(store.Projects(), classifier, clock),
			healthsweep.Sinks{
				Events:   infra.Events,
				Notifier: observers.Notifier,
				Gauge:    observers.Gauge,
				Metrics:  infra.Metrics,
				Jobs:     observers.Jobs,
			},
			log.With("component", healthsweep.JobName),
			cfg.HealthSweep.Timeout,
		),
	}
}
