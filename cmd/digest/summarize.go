package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"digestbot/internal/app"
)

type summarizeFlags struct {
	lang    string
	deliver bool
}

func (f *summarizeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.lang, "lang", "l", "", "language of the summary (default: the source language)")
	cmd.Flags().BoolVar(&f.deliver, "deliver", false, "also post the summary to the configured webhooks")
}

func newYouTubeCmd(opts *rootOptions) *cobra.Command {
	flags := &summarizeFlags{}
	cmd := &cobra.Command{
		Use:   "youtube URL",
		Short: "Summarize a YouTube video from its transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummarize(cmd, opts, flags, func(ctx context.Context, c *app.Container) []string {
				return c.Digest.YouTube(ctx, args[0], flags.lang)
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newWebCmd(opts *rootOptions) *cobra.Command {
	flags := &summarizeFlags{}
	cmd := &cobra.Command{
		Use:   "web URL",
		Short: "Summarize the main content of a web page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummarize(cmd, opts, flags, func(ctx context.Context, c *app.Container) []string {
				return c.Digest.Web(ctx, args[0], flags.lang)
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func runSummarize(cmd *cobra.Command, opts *rootOptions, flags *summarizeFlags, summarize func(context.Context, *app.Container) []string) error {
	c, err := opts.container(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	chunks := summarize(ctx, c)
	if err := printChunks(cmd.OutOrStdout(), chunks); err != nil {
		return err
	}

	if !flags.deliver {
		return nil
	}
	if err := c.Digest.Deliver(ctx, chunks); err != nil {
		return fmt.Errorf("deliver: %w", err)
	}
	return nil
}
