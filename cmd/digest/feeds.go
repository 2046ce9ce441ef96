package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"digestbot/internal/config"
	"digestbot/internal/infra/feed"
)

func newFeedsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feeds",
		Short: "Work with the watched RSS/Atom feeds",
	}
	cmd.AddCommand(newFeedsPollCmd(opts), newFeedsCheckCmd(opts))
	return cmd
}

// feedsFilePath returns flagValue, or FEEDS_FILE when the flag is empty.
func feedsFilePath(flagValue string, cfg config.AppConfig) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if cfg.Feeds.File != "" {
		return cfg.Feeds.File, nil
	}
	return "", errors.New("no feeds file: pass --file or set FEEDS_FILE")
}

func newFeedsPollCmd(opts *rootOptions) *cobra.Command {
	var (
		file  string
		since time.Duration
	)
	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Announce the feed entries published recently, once",
		Long: `Read every feed of the feeds file and announce the entries published
within --since to the configured webhooks.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.container(cmd)
			if err != nil {
				return err
			}
			path, err := feedsFilePath(file, c.Config)
			if err != nil {
				return err
			}
			if len(c.Notify.Channels()) == 0 {
				slog.Warn("no delivery channel enabled, announcements will be dropped")
			}

			feeds, err := config.LoadFeedsFile(path)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			cutoff := time.Now().Add(-since)
			for _, f := range feeds {
				f.LastSeen = cutoff
				if _, err := c.Watcher.AddFeed(ctx, f); err != nil {
					slog.Warn("skipping feed", slog.String("url", f.URL), slog.Any("error", err))
				}
			}

			report := c.Watcher.Poll(ctx)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "feeds: %d polled, %d failed; entries: %d announced, %d undelivered\n",
				report.Feeds, report.Failed, report.Announced, report.Undelivered)
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "feeds file (default: FEEDS_FILE)")
	cmd.Flags().DurationVar(&since, "since", 24*time.Hour, "announce entries published within this window")
	return cmd
}

func newFeedsCheckCmd(opts *rootOptions) *cobra.Command {
	var (
		file   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Read every feed of the feeds file once and report its health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.container(cmd)
			if err != nil {
				return err
			}
			path, err := feedsFilePath(file, c.Config)
			if err != nil {
				return err
			}
			feeds, err := config.LoadFeedsFile(path)
			if err != nil {
				return err
			}

			diagnostics := make([]feed.Diagnostic, 0, len(feeds))
			unhealthy := 0
			for _, f := range feeds {
				d := c.Feeds.Diagnose(cmd.Context(), f.URL)
				if !d.Healthy() {
					unhealthy++
				}
				diagnostics = append(diagnostics, d)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(diagnostics); err != nil {
					return err
				}
			} else if err := writeDiagnostics(cmd, diagnostics); err != nil {
				return err
			}

			if unhealthy > 0 {
				return fmt.Errorf("%d of %d feeds unhealthy", unhealthy, len(diagnostics))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "feeds file (default: FEEDS_FILE)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func writeDiagnostics(cmd *cobra.Command, diagnostics []feed.Diagnostic) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tITEMS\tLATEST\tTIME\tURL")
	for _, d := range diagnostics {
		latest := "-"
		if d.Latest != nil {
			latest = d.Latest.UTC().Format(time.DateOnly)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%dms\t%s\n", d.Status, d.ItemCount, latest, d.ResponseTime, d.URL)
		if d.Error != "" {
			fmt.Fprintf(tw, "\t\t\t\t  %s\n", d.Error)
		}
	}
	return tw.Flush()
}
