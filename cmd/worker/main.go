package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"records-atlas/internal/handler/http/respond"
	"records-atlas/internal/infra/checker"
	"records-atlas/internal/infra/db"
	"records-atlas/internal/infra/gazette"
	"records-atlas/internal/infra/notifier"
	workerPkg "records-atlas/internal/infra/worker"
	"records-atlas/internal/observability/logging"
	"records-atlas/internal/repository"

	checkUC "records-atlas/internal/usecase/linkcheck"
	"records-atlas/internal/usecase/notify"
	watchUC "records-atlas/internal/usecase/watch"

	pgRepo "records-atlas/internal/infra/adapter/persistence/postgres"
	sqliteRepo "records-atlas/internal/infra/adapter/persistence/sqlite"
)

// notifyMaxConcurrent bounds parallel webhook deliveries when a sweep
// surfaces many dead links at once.
const notifyMaxConcurrent = 10

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workerMetrics := workerPkg.NewWorkerMetrics()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("sweep_schedule", workerConfig.SweepSchedule),
		slog.String("poll_schedule", workerConfig.PollSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("sweep_timeout", workerConfig.SweepTimeout),
		slog.Duration("poll_timeout", workerConfig.PollTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	notifyService := setupAlertService(logger)

	startMetricsServer(ctx, logger, notifyService)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	sweepSvc, pollSvc := setupServices(logger, database, notifyService)

	startScheduler(logger, sweepSvc, pollSvc, workerConfig, workerMetrics, healthServer)
}

// initDatabase opens the database and waits for the API's migrations to
// land, since the worker and API share a schema and may start together.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	waitForMigrations(logger, database)
	return database
}

func waitForMigrations(logger *slog.Logger, database *sql.DB) {
	const probe = "SELECT 1 FROM jurisdictions LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := database.Exec(probe); err == nil {
			return
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		time.Sleep(3 * time.Second)
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
}

type workerRepos struct {
	Jurisdictions repository.JurisdictionRepository
	Resources     repository.ResourceRepository
	Notices       repository.NoticeRepository
}

func newRepos(database *sql.DB) workerRepos {
	if db.Driver() == db.DriverSQLite {
		return workerRepos{
			Jurisdictions: sqliteRepo.NewJurisdictionRepo(database),
			Resources:     sqliteRepo.NewResourceRepo(database),
			Notices:       sqliteRepo.NewNoticeRepo(database),
		}
	}
	return workerRepos{
		Jurisdictions: pgRepo.NewJurisdictionRepo(database),
		Resources:     pgRepo.NewResourceRepo(database),
		Notices:       pgRepo.NewNoticeRepo(database),
	}
}

// setupAlertService wires the enabled dead-link alert channels.
func setupAlertService(logger *slog.Logger) notify.Service {
	var channels []notify.Channel

	discordConfig := loadDiscordConfig(logger)
	if discordConfig.Enabled {
		channels = append(channels, notify.NewDiscordChannel(discordConfig))
		logger.Info("Discord alert channel initialized")
	} else {
		logger.Info("Discord alert channel disabled")
	}

	slackConfig := loadSlackConfig(logger)
	if slackConfig.Enabled {
		channels = append(channels, notify.NewSlackChannel(slackConfig))
		logger.Info("Slack alert channel initialized")
	} else {
		logger.Info("Slack alert channel disabled")
	}

	svc := notify.NewService(channels, notifyMaxConcurrent)
	logger.Info("alert service initialized",
		slog.Int("channels", len(channels)),
		slog.Int("max_concurrent", notifyMaxConcurrent))
	return svc
}

// setupServices builds the link sweep and gazette poll services.
func setupServices(logger *slog.Logger, database *sql.DB, notifyService notify.Service) (checkUC.Service, watchUC.Service) {
	r := newRepos(database)

	checkerCfg := checker.LoadConfigFromEnv()
	prober := checker.NewChecker(checkerCfg, logger)
	sweepSvc := checkUC.NewService(
		r.Resources,
		r.Jurisdictions,
		prober,
		notifyService,
		checkerCfg.Parallelism,
		checkerCfg.Interval,
	)

	poller := gazette.NewFeedPoller(createFeedHTTPClient())
	pollSvc := watchUC.NewService(r.Resources, r.Notices, poller, 0)

	return sweepSvc, pollSvc
}

// createFeedHTTPClient builds the HTTP client used for gazette feed polls.
// TLS 1.2+ is enforced.
func createFeedHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}

// loadDiscordConfig loads and validates the Discord webhook configuration.
// Any validation failure disables the channel rather than failing startup.
func loadDiscordConfig(logger *slog.Logger) notifier.DiscordConfig {
	enabled := os.Getenv("DISCORD_ENABLED") == "true"
	webhookURL := os.Getenv("DISCORD_WEBHOOK_URL")

	if !enabled {
		return notifier.DiscordConfig{Enabled: false}
	}

	if webhookURL == "" {
		logger.Warn("Discord webhook URL is empty, disabling alerts")
		return notifier.DiscordConfig{Enabled: false}
	}

	u, err := url.Parse(webhookURL)
	if err != nil {
		logger.Warn("invalid Discord webhook URL format, disabling alerts", slog.Any("error", err))
		return notifier.DiscordConfig{Enabled: false}
	}
	if u.Scheme != "https" {
		logger.Warn("Discord webhook URL must use HTTPS, disabling alerts")
		return notifier.DiscordConfig{Enabled: false}
	}
	if u.Host != "discord.com" {
		logger.Warn("invalid Discord webhook host, disabling alerts", slog.String("host", u.Host))
		return notifier.DiscordConfig{Enabled: false}
	}
	if !strings.HasPrefix(u.Path, "/api/webhooks/") {
		logger.Warn("invalid Discord webhook path, disabling alerts", slog.String("path", u.Path))
		return notifier.DiscordConfig{Enabled: false}
	}

	return notifier.DiscordConfig{
		Enabled:    true,
		WebhookURL: webhookURL,
		Timeout:    30 * time.Second,
	}
}

// loadSlackConfig loads and validates the Slack webhook configuration.
func loadSlackConfig(logger *slog.Logger) notifier.SlackConfig {
	enabled := os.Getenv("SLACK_ENABLED") == "true"
	webhookURL := os.Getenv("SLACK_WEBHOOK_URL")

	if !enabled {
		return notifier.SlackConfig{Enabled: false}
	}

	if webhookURL == "" {
		logger.Warn("Slack webhook URL is empty, disabling alerts")
		return notifier.SlackConfig{Enabled: false}
	}

	u, err := url.Parse(webhookURL)
	if err != nil {
		logger.Warn("invalid Slack webhook URL format, disabling alerts", slog.Any("error", err))
		return notifier.SlackConfig{Enabled: false}
	}
	if u.Scheme != "https" {
		logger.Warn("Slack webhook URL must use HTTPS, disabling alerts")
		return notifier.SlackConfig{Enabled: false}
	}
	if u.Host != "hooks.slack.com" {
		logger.Warn("invalid Slack webhook host, disabling alerts", slog.String("host", u.Host))
		return notifier.SlackConfig{Enabled: false}
	}
	if !strings.HasPrefix(u.Path, "/services/") {
		logger.Warn("invalid Slack webhook path, disabling alerts", slog.String("path", u.Path))
		return notifier.SlackConfig{Enabled: false}
	}

	return notifier.SlackConfig{
		Enabled:    true,
		WebhookURL: webhookURL,
		Timeout:    30 * time.Second,
	}
}

// startScheduler registers both jobs on a timezone-aware cron scheduler and
// blocks forever.
func startScheduler(
	logger *slog.Logger,
	sweepSvc checkUC.Service,
	pollSvc watchUC.Service,
	cfg *workerPkg.WorkerConfig,
	metrics *workerPkg.WorkerMetrics,
	healthServer *workerPkg.HealthServer,
) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	if _, err := c.AddFunc(cfg.SweepSchedule, func() {
		runSweepJob(logger, sweepSvc, cfg, metrics)
	}); err != nil {
		logger.Error("failed to add sweep job", slog.Any("error", err))
		os.Exit(1)
	}

	if _, err := c.AddFunc(cfg.PollSchedule, func() {
		runPollJob(logger, pollSvc, cfg, metrics)
	}); err != nil {
		logger.Error("failed to add poll job", slog.Any("error", err))
		os.Exit(1)
	}

	c.Start()

	healthServer.SetReady(true)
	logger.Info("worker marked as ready")

	logger.Info("worker started",
		slog.String("sweep_schedule", cfg.SweepSchedule),
		slog.String("poll_schedule", cfg.PollSchedule),
		slog.String("timezone", cfg.Timezone))
	select {}
}

// runSweepJob executes one link sweep with timeout and error handling.
func runSweepJob(logger *slog.Logger, svc checkUC.Service, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics) {
	startTime := time.Now()
	logger.Info("link sweep started")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.SweepTimeout)
	defer cancel()

	stats, err := svc.SweepAll(ctx)
	if err != nil {
		logger.Error("link sweep failed", slog.Any("error", respond.SanitizeError(err)))
		metrics.RecordJobRun(workerPkg.JobSweep, "failure")
		metrics.RecordJobDuration(workerPkg.JobSweep, time.Since(startTime).Seconds())
		return
	}

	metrics.RecordJobRun(workerPkg.JobSweep, "success")
	metrics.RecordJobDuration(workerPkg.JobSweep, time.Since(startTime).Seconds())
	metrics.RecordLinksChecked(int(stats.Checked))
	metrics.RecordLastSuccess(workerPkg.JobSweep)

	logger.Info("link sweep completed",
		slog.Int("due", stats.Due),
		slog.Int64("checked", stats.Checked),
		slog.Int64("alive", stats.Alive),
		slog.Int64("dead", stats.Dead),
		slog.Int64("errors", stats.Errors),
		slog.Duration("duration", stats.Duration))
}

// runPollJob executes one gazette feed poll with timeout and error handling.
func runPollJob(logger *slog.Logger, svc watchUC.Service, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics) {
	startTime := time.Now()
	logger.Info("gazette poll started")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PollTimeout)
	defer cancel()

	stats, err := svc.PollAll(ctx)
	if err != nil {
		logger.Error("gazette poll failed", slog.Any("error", respond.SanitizeError(err)))
		metrics.RecordJobRun(workerPkg.JobPoll, "failure")
		metrics.RecordJobDuration(workerPkg.JobPoll, time.Since(startTime).Seconds())
		return
	}

	metrics.RecordJobRun(workerPkg.JobPoll, "success")
	metrics.RecordJobDuration(workerPkg.JobPoll, time.Since(startTime).Seconds())
	metrics.RecordLastSuccess(workerPkg.JobPoll)

	logger.Info("gazette poll completed",
		slog.Int("watched", stats.Watched),
		slog.Int64("items", stats.Items),
		slog.Int64("inserted", stats.Inserted),
		slog.Int64("duplicated", stats.Duplicated),
		slog.Int64("poll_errors", stats.PollErrors),
		slog.Duration("duration", stats.Duration))
}
