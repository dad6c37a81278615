package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/uww-referees/internal/logger"
	"github.com/pfrederiksen/uww-referees/internal/notifier"
	"github.com/pfrederiksen/uww-referees/internal/referee"
	"github.com/pfrederiksen/uww-referees/internal/storage"
)

func newNotifyCmd() *cobra.Command {
	var (
		dryRun   bool
		maxPosts int
	)

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Post announcements for new, promoted and retired referees",
		Long: `Posts one announcement per new referee, category change and retirement
between the register in last/ and the current one.

Posting to Twitter requires TWITTER_API_KEY, TWITTER_API_SECRET,
TWITTER_ACCESS_TOKEN and TWITTER_ACCESS_SECRET.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("dry-run") {
				cfg.Notify.DryRun = dryRun
			}
			if cmd.Flags().Changed("max-posts") {
				cfg.Notify.MaxPosts = maxPosts
			}

			store, err := storage.New(cfg.DataDir)
			if err != nil {
				return fmt.Errorf("initializing storage: %w", err)
			}
			previous, err := store.LoadLast()
			if err != nil {
				return err
			}
			current, err := store.LoadCurrent()
			if err != nil {
				return err
			}

			announcements := notifier.FromDiff(referee.Diff(previous, current), cfg.SiteURL)
			if len(announcements) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No announcements to post")
				return nil
			}
			if limit := cfg.Notify.MaxPosts; limit > 0 && len(announcements) > limit {
				logger.Warn("Limiting announcements", logger.Fields{"total": len(announcements), "max_posts": limit}, nil)
				announcements = announcements[:limit]
			}

			var n notifier.Notifier
			if cfg.Notify.DryRun {
				n = notifier.NewDryRunNotifierTo(cmd.OutOrStdout())
			} else {
				tw, err := notifier.NewTwitterNotifier()
				if err != nil {
					return err
				}
				n = tw
			}

			if err := n.Notify(announcements); err != nil {
				return fmt.Errorf("posting announcements: %w", err)
			}
			if !cfg.Notify.DryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "Posted %d announcements\n", len(announcements))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print posts without posting (overrides notify.dry_run)")
	cmd.Flags().IntVar(&maxPosts, "max-posts", 0, "Maximum number of posts (overrides notify.max_posts)")

	return cmd
}
