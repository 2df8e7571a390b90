package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/ru-menu/internal/menu"
)

func newSendCmd(a *app) *cobra.Command {
	var (
		mealName string
		force    bool
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Deliver the menu once",
		Long: `Delivers one meal (lunch by default) to the configured Telegram chat, and
to Twitter when enabled. Weekends and national holidays are skipped unless
--force is given. Suitable for running from cron.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			meal, ok := menu.ParseMeal(mealName)
			if !ok {
				return fmt.Errorf("%w: %q", menu.ErrUnknownMeal, mealName)
			}

			n, err := a.newNotifier(cmd.OutOrStdout(), dryRun)
			if err != nil {
				return err
			}

			svc, err := a.newService(true)
			if err != nil {
				return err
			}

			res, err := svc.Deliver(cmd.Context(), meal, n, force)
			if err != nil {
				return err
			}
			if !res.Sent {
				fmt.Fprintf(cmd.ErrOrStderr(), "Not a service day (%s), nothing sent.\n", res.Reason)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mealName, "meal", "almoco", "Meal to send: desjejum, almoco or jantar")
	cmd.Flags().BoolVar(&force, "force", false, "Send even on weekends and holidays")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the message instead of sending it")
	cmd.Flags().Bool("twitter", false, "Also post to Twitter (needs TWITTER_* credentials)")
	a.bindFlags(cmd, map[string]string{"twitter": "twitter"}, false)

	return cmd
}
