package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"digestbot/internal/app"
	"digestbot/internal/config"
	workerPkg "digestbot/internal/infra/worker"
	"digestbot/internal/observability/logging"
	"digestbot/internal/usecase/feedwatch"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("failed to load .env", slog.Any("error", err))
		os.Exit(1)
	}

	cfg, err := config.LoadAppConfig()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger := initLogger(cfg.Log)

	if err := run(logger, cfg); err != nil {
		logger.Error("worker stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

// initLogger builds the process logger and makes it the slog default.
func initLogger(cfg config.LogConfig) *slog.Logger {
	logger := logging.NewLogger(logging.Options{Level: cfg.Level, Format: cfg.Format})
	slog.SetDefault(logger)
	return logger
}

func run(logger *slog.Logger, cfg config.AppConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workerConfig, err := workerPkg.LoadConfigFromEnv(cfg.Feeds.PollInterval)
	if err != nil {
		logger.Warn("using default worker configuration", slog.Any("error", err))
	}
	logger.Info("worker configuration loaded",
		slog.String("schedule", workerConfig.Schedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("poll_timeout", workerConfig.PollTimeout),
		slog.Bool("poll_on_start", workerConfig.PollOnStart))

	container, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	if err := seedFeeds(ctx, logger, cfg.Feeds.File, container.Watcher); err != nil {
		return err
	}

	metrics := workerPkg.NewWorkerMetrics()
	metrics.MustRegister(prometheus.DefaultRegisterer)

	server := workerPkg.NewServer(fmt.Sprintf(":%d", cfg.MetricsPort), logger,
		prometheus.DefaultGatherer, container.Notify.Channels)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx)
	})
	g.Go(func() error {
		return runScheduler(gctx, logger, workerConfig, container.Watcher, metrics, server)
	})
	return g.Wait()
}

// seedFeeds adds every feed listed in path. A feed that cannot be read is
// logged and skipped.
func seedFeeds(ctx context.Context, logger *slog.Logger, path string, watcher *feedwatch.Watcher) error {
	if path == "" {
		logger.Info("no feeds file configured, watch list starts empty")
		return nil
	}

	feeds, err := config.LoadFeedsFile(path)
	if err != nil {
		return err
	}
	for _, f := range feeds {
		if _, err := watcher.AddFeed(ctx, f); err != nil {
			logger.Warn("skipping feed", slog.String("url", f.URL), slog.Any("error", err))
		}
	}
	logger.Info("feeds loaded",
		slog.String("file", path),
		slog.Int("configured", len(feeds)),
		slog.Int("watched", len(watcher.List())))
	return nil
}

// runScheduler polls the watcher on the configured schedule until ctx is done.
// A poll still running when the next one is due makes the next one skip.
func runScheduler(ctx context.Context, logger *slog.Logger, cfg workerPkg.WorkerConfig, watcher *feedwatch.Watcher, metrics *workerPkg.WorkerMetrics, server *workerPkg.Server) error {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(
		cron.WithLocation(cfg.Location()),
		cron.WithLogger(cronLogger),
	)

	job := cron.NewChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)).Then(&pollJob{
		ctx:     ctx,
		logger:  logger,
		watcher: watcher,
		metrics: metrics,
		timeout: cfg.PollTimeout,
	})
	if _, err := c.AddJob(cfg.Schedule, job); err != nil {
		return fmt.Errorf("add poll job: %w", err)
	}

	c.Start()
	server.SetReady(true)
	logger.Info("worker started", slog.String("schedule", cfg.Schedule))

	var startup sync.WaitGroup
	if cfg.PollOnStart {
		startup.Add(1)
		go func() {
			defer startup.Done()
			job.Run()
		}()
	}

	<-ctx.Done()
	server.SetReady(false)

	logger.Info("waiting for running poll to finish")
	<-c.Stop().Done()
	startup.Wait()
	logger.Info("worker stopped")
	return nil
}

// pollJob runs one poll of every watched feed.
type pollJob struct {
	ctx     context.Context
	logger  *slog.Logger
	watcher *feedwatch.Watcher
	metrics *workerPkg.WorkerMetrics
	timeout time.Duration
}

func (j *pollJob) Run() {
	ctx, cancel := context.WithTimeout(j.ctx, j.timeout)
	defer cancel()

	j.logger.Info("feed poll started")
	start := time.Now()
	report := j.watcher.Poll(ctx)
	j.metrics.RecordPoll(time.Since(start), report.Announced, report.Failed == 0 && report.Undelivered == 0)
}
