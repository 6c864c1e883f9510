// Package main provides the stategallery CLI entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/gauthierbraillon/stategallery/internal/catalog"
	"github.com/gauthierbraillon/stategallery/internal/config"
	"github.com/gauthierbraillon/stategallery/internal/display"
	"github.com/gauthierbraillon/stategallery/internal/gallery"
	"github.com/gauthierbraillon/stategallery/internal/logging"
	"github.com/gauthierbraillon/stategallery/internal/thumbnail"
	"github.com/gauthierbraillon/stategallery/internal/youtube"
	"github.com/gauthierbraillon/stategallery/pkg/browser"
)

var version = "dev"

const embedHost = "www.youtube.com"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries what PersistentPreRunE prepares for every subcommand.
type app struct {
	cfg    config.Config
	logger *zap.Logger
}

// newRootCmd creates the root command for stategallery CLI.
func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}
	var verbose bool

	rootCmd := &cobra.Command{
		Use:          "stategallery",
		Short:        "Browse the state video archive",
		Long:         "Stategallery lists the state's videos newest first, resolves the best available thumbnail for each and opens the player.",
		Version:      currentVersion(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg

			logger, err := logging.New(cfg.LogLevel, verbose)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	rootCmd.SetVersionTemplate("stategallery version {{.Version}}\n")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	rootCmd.AddCommand(newVideosCmd(a))
	rootCmd.AddCommand(newThumbnailCmd(a))
	rootCmd.AddCommand(newEmbedCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))

	return rootCmd
}

// newVideosCmd creates the videos subcommand.
func newVideosCmd(a *app) *cobra.Command {
	var pages int
	var noThumbnails bool
	var timeout time.Duration
	var play string
	var open bool

	cmd := &cobra.Command{
		Use:   "videos",
		Short: "Display the video gallery",
		Long:  "Display the newest videos with their thumbnails. Each --pages step loads more videos.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pages < 0 {
				return fmt.Errorf("invalid --pages %d: must not be negative", pages)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			cat, err := a.loadCatalog()
			if err != nil {
				return err
			}

			resolver := a.newResolver()
			defer resolver.Close()

			g := gallery.New(cat.Videos(), resolver,
				gallery.WithPageSize(a.cfg.PageSize, a.cfg.PageStep),
				gallery.WithLogger(a.logger))
			defer g.Close()

			for i := 0; i < pages; i++ {
				if !g.LoadMore(ctx) {
					break
				}
			}

			if !noThumbnails {
				g.Start(ctx)
				if err := g.Wait(ctx); err != nil {
					a.logger.Warn("Not every thumbnail settled", zap.Error(err))
				}
			}

			formatter := display.NewTerminalFormatter()
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGallery(g.Summary(), g.Cards()))

			if play == "" {
				return nil
			}
			embedURL, err := g.Select(play)
			if err != nil {
				return err
			}
			return a.showEmbed(cmd.OutOrStdout(), embedURL, open)
		},
	}

	cmd.Flags().IntVarP(&pages, "pages", "p", 0, "Number of load-more steps after the first page")
	cmd.Flags().BoolVar(&noThumbnails, "no-thumbnails", false, "Skip thumbnail resolution")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 30*time.Second, "Overall time allowed for thumbnail resolution")
	cmd.Flags().StringVar(&play, "play", "", "Open the player overlay for a visible video ID")
	cmd.Flags().BoolVar(&open, "open", false, "Open the player in the browser (with --play)")

	return cmd
}

// newThumbnailCmd creates the thumbnail subcommand.
func newThumbnailCmd(a *app) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "thumbnail <youtube-id>",
		Short: "Resolve the best available thumbnail for a video",
		Long:  "Walk the thumbnail quality tiers for a YouTube video ID and print the image that will be displayed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID := args[0]
			if videoID == "" {
				return errors.New("youtube id must not be empty")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			resolver := a.newResolver()
			defer resolver.Close()

			resolver.Resolve(ctx, videoID)
			s, err := resolver.Wait(ctx, videoID)
			if err != nil {
				return fmt.Errorf("thumbnail resolution interrupted: %w", err)
			}

			out := cmd.OutOrStdout()
			switch s.Phase {
			case thumbnail.Loaded:
				fmt.Fprintf(out, "Thumbnail: %s\n", s.URL)
				fmt.Fprintf(out, "Tier: %s (%d attempts", s.Tier, s.Attempts)
				if s.Upgraded {
					fmt.Fprint(out, ", upgraded")
				}
				fmt.Fprintln(out, ")")
			case thumbnail.Failed:
				fmt.Fprintf(out, "Thumbnail unavailable after %d attempts: showing placeholder\n", s.Attempts)
			default:
				return fmt.Errorf("thumbnail resolution for %s did not finish", videoID)
			}
			return nil
		},
	}

	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 30*time.Second, "Time allowed for resolution")

	return cmd
}

// newEmbedCmd creates the embed subcommand.
func newEmbedCmd(a *app) *cobra.Command {
	var open bool

	cmd := &cobra.Command{
		Use:   "embed <video-id>",
		Short: "Print the player URL for a video",
		Long:  "Print the embedded player and watch URLs for a video from the archive.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.loadCatalog()
			if err != nil {
				return err
			}

			v, ok := cat.ByID(args[0])
			if !ok {
				return fmt.Errorf("unknown video %q", args[0])
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", v.Title)
			fmt.Fprintf(cmd.OutOrStdout(), "Watch: %s\n", youtube.WatchURL(v.ExternalVideoID))
			return a.showEmbed(cmd.OutOrStdout(), youtube.EmbedURL(v.ExternalVideoID), open)
		},
	}

	cmd.Flags().BoolVar(&open, "open", false, "Open the player in the browser")

	return cmd
}

// newConfigCmd creates the config subcommand.
func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show configuration",
		Long:  "Show the effective stategallery configuration after reading .env and the environment.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			videos := a.cfg.VideosFile
			if videos == "" {
				videos = "(built-in)"
			}
			fmt.Fprintf(out, "Videos file: %s\n", videos)
			fmt.Fprintf(out, "Thumbnail host: %s\n", a.cfg.ThumbnailHost)
			fmt.Fprintf(out, "Tier timeout: %s\n", a.cfg.TierTimeout)
			fmt.Fprintf(out, "Probe rate: %g/s (burst %d)\n", a.cfg.ProbeRate, a.cfg.ProbeBurst)
			fmt.Fprintf(out, "Page size: %d (step %d)\n", a.cfg.PageSize, a.cfg.PageStep)
			fmt.Fprintf(out, "Upgrade: %t\n", a.cfg.Upgrade)
			fmt.Fprintf(out, "Log level: %s\n", a.cfg.LogLevel)
			return nil
		},
	}

	return cmd
}

func (a *app) loadCatalog() (*catalog.Catalog, error) {
	if a.cfg.VideosFile == "" {
		return catalog.Default()
	}
	return catalog.Load(a.cfg.VideosFile)
}

func (a *app) newResolver() *thumbnail.Resolver {
	client := youtube.NewClient(youtube.WithThumbnailHost(a.cfg.ThumbnailHost))

	opts := []thumbnail.Option{
		thumbnail.WithTierTimeout(a.cfg.TierTimeout),
		thumbnail.WithUpgrade(a.cfg.Upgrade),
		thumbnail.WithLogger(a.logger),
	}
	if a.cfg.ProbeRate > 0 {
		opts = append(opts, thumbnail.WithLimiter(rate.NewLimiter(rate.Limit(a.cfg.ProbeRate), a.cfg.ProbeBurst)))
	}

	return thumbnail.NewResolver(client, client.ThumbnailURL, opts...)
}

func (a *app) showEmbed(out io.Writer, embedURL string, open bool) error {
	fmt.Fprintf(out, "Player: %s\n", embedURL)
	if !open {
		return nil
	}

	opener := browser.NewOpener(browser.WithAllowedHosts(embedHost))
	if err := opener.Open(embedURL); err != nil {
		fmt.Fprintf(out, "Could not open browser. Please visit:\n%s\n", embedURL)
		a.logger.Warn("Browser open failed", zap.Error(err))
	}
	return nil
}
