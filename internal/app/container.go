// Package app builds the object graph shared by the command line and the
// worker from a validated configuration.
package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"digestbot/internal/config"
	"digestbot/internal/infra/completion"
	"digestbot/internal/infra/feed"
	"digestbot/internal/infra/fetcher"
	"digestbot/internal/infra/youtube"
	"digestbot/internal/usecase/digest"
	"digestbot/internal/usecase/extract"
	"digestbot/internal/usecase/feedwatch"
	"digestbot/internal/usecase/notify"
	"digestbot/internal/usecase/summarize"
	"digestbot/internal/utils/text"
)

const feedReadTimeout = 30 * time.Second

// Container holds the wired services.
type Container struct {
	Config  config.AppConfig
	Digest  *digest.Service
	Notify  *notify.Service
	Feeds   *feed.Reader
	Watcher *feedwatch.Watcher
}

// New wires every service for cfg. Infrastructure settings that are not part
// of AppConfig (fetcher and YouTube knobs) are read from the environment here.
func New(cfg config.AppConfig, logger *slog.Logger) (*Container, error) {
	fetchCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("content fetch configuration: %w", err)
	}
	ytCfg, err := youtube.LoadConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("youtube configuration: %w", err)
	}

	channels := []notify.Channel{
		notify.NewDiscordChannel(cfg.Notify.DiscordWebhookURL, cfg.Notify.Timeout),
		notify.NewSlackChannel(cfg.Notify.SlackWebhookURL, cfg.Notify.Timeout),
	}
	notifySvc := notify.NewService(channels...)
	for _, ch := range channels {
		logger.Info("delivery channel configured",
			slog.String("channel", ch.Name()),
			slog.Bool("enabled", ch.IsEnabled()))
	}

	formatter := text.NewFormatter(cfg.Message.ChunkSize)
	summarizer := summarize.NewService(completion.NewClient(cfg.Completion), cfg.Completion.ContextLength)

	digestSvc := digest.NewService(digest.Deps{
		ParseVideoID: youtube.ParseVideoID,
		Transcripts:  extract.NewTranscriptExtractor(youtube.NewClient(ytCfg)),
		Articles:     extract.NewArticleExtractor(fetcher.NewArticleFetcher(fetchCfg)),
		Summarizer:   summarizer,
		Formatter:    formatter,
		Deliverer:    notifySvc,
	})

	feeds := feed.NewReader(&http.Client{Timeout: feedReadTimeout})
	watcher := feedwatch.NewWatcher(
		feeds,
		digestSvc,
		notifySvc,
		formatter,
	)

	logger.Info("services initialized",
		slog.String("article_extractor", string(fetchCfg.Mode)),
		slog.Int("chunk_size", cfg.Message.ChunkSize),
		slog.Any("delivery_channels", notifySvc.Channels()))

	return &Container{
		Config:  cfg,
		Digest:  digestSvc,
		Notify:  notifySvc,
		Feeds:   feeds,
		Watcher: watcher,
	}, nil
}
