// niche-sync - разовый запуск синхронизации GitHub и прохода здоровья (для cron/k8s CronJob)
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/paradoxie/niche-dashboard/internal/bootstrap"
	"github.com/paradoxie/niche-dashboard/internal/domain/service"
	"github.com/paradoxie/niche-dashboard/internal/infrastructure/github"
	"github.com/paradoxie/niche-dashboard/internal/infrastructure/i18n"
	"github.com/paradoxie/niche-dashboard/pkg/config"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

type syncOptions struct {
	skipSync bool
	timeout  time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &syncOptions{}

	cmd := &cobra.Command{
		Use:   "niche-sync",
		Short: "Run GitHub push sync and one health sweep, then exit",
		Long: `niche-sync runs the same GitHub sync and health sweep jobs as the dashboard scheduler,
once, for external schedulers (cron, Kubernetes CronJob).

Examples:
  niche-sync                     # sync pushes, then sweep
  niche-sync --skip-sync         # sweep only
  niche-sync --timeout 2m        # cap the whole run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			log := logger.NewWithOptions(cfg.Log.Level, cfg.Log.Format, cmd.OutOrStdout()).With("component", "niche-sync")

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			if err := run(ctx, cfg, log, opts.skipSync); err != nil {
				log.Error("Run failed", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.skipSync, "skip-sync", false, "skip GitHub push sync, run only the health sweep")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Minute, "overall run timeout")
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	root.SilenceUsage = true
	root.SilenceErrors = true
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "niche-sync: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger, skipSync bool) error {
	infra, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := infra.Close(closeCtx); err != nil {
			log.Error("Failed to close infrastructure", err)
		}
	}()

	catalog, err := i18n.Load(cfg.Locale.Default)
	if err != nil {
		return fmt.Errorf("failed to load locale catalog: %w", err)
	}

	clock := service.SystemClock{Location: cfg.Locale.Location}
	ucs := bootstrap.NewUseCases(cfg, infra, github.NewClient(ctx, cfg.GitHub), catalog, clock, bootstrap.Observers{}, log)

	if !skipSync {
		summary, err := ucs.SyncGithub.Execute(ctx)
		if err != nil {
			return fmt.Errorf("github sync: %w", err)
		}
		log.Info("GitHub sync finished",
			"checked", summary.ProjectsChecked,
			"updated", summary.ProjectsUpdated,
			"pushes", summary.PushesStored,
			"failures", len(summary.Failures),
		)
		for _, f := range summary.Failures {
			log.Warn("Project sync failed", "project_id", f.ProjectID, "repo", f.Repo, "error", f.Error)
		}
	}

	sweep, err := ucs.HealthSweep.RunOnce(ctx)
	if err != nil {
		return fmt.Errorf("health sweep: %w", err)
	}
	log.Info("Health sweep finished",
		"projects", sweep.ProjectsTotal,
		"overall", sweep.OverallStatus,
		"transitions", len(sweep.Transitions),
	)
	return nil
}
