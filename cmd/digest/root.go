package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"digestbot/internal/app"
	"digestbot/internal/config"
	"digestbot/internal/observability/logging"
)

// rootOptions holds the flags shared by every subcommand.
type rootOptions struct {
	envFile  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "digest",
		Short:         "Summarize videos, articles and feeds into chat-sized messages",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "file to load environment variables from")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")

	cmd.AddCommand(
		newYouTubeCmd(opts),
		newWebCmd(opts),
		newFeedsCmd(opts),
	)
	return cmd
}

// container loads the configuration and wires the services. Logs go to the
// command's error stream so that stdout only carries the digest.
func (o *rootOptions) container(cmd *cobra.Command) (*app.Container, error) {
	if err := config.LoadDotEnv(o.envFile); err != nil {
		return nil, err
	}
	cfg, err := config.LoadAppConfig()
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	logger := logging.NewLogger(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	slog.SetDefault(logger)

	return app.New(cfg, logger)
}

// printChunks writes the chunks separated by a blank line.
func printChunks(w io.Writer, chunks []string) error {
	for i, chunk := range chunks {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, chunk); err != nil {
			return err
		}
	}
	return nil
}
