package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pfrederiksen/ru-menu/internal/bot"
	"github.com/pfrederiksen/ru-menu/internal/config"
	"github.com/pfrederiksen/ru-menu/internal/logger"
	"github.com/pfrederiksen/ru-menu/internal/scheduler"
)

func newBotCmd(a *app) *cobra.Command {
	var noSchedule bool

	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		Long: `Answers /desjejum, /almoco, /jantar and /hoje, and delivers the lunch menu
to CHAT_ID every service day at --send-at. Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.newTelegramClient()
			if err != nil {
				return err
			}
			svc, err := a.newService(true)
			if err != nil {
				return err
			}

			var daily *scheduler.Daily
			switch {
			case noSchedule:
				logger.Info("Daily delivery disabled", nil)
			case a.cfg.ChatID == "":
				logger.Warn("CHAT_ID not set, daily delivery disabled", nil)
			default:
				n, err := a.newNotifier(cmd.OutOrStdout(), false)
				if err != nil {
					return err
				}
				loc, _ := a.cfg.Location()
				daily, err = scheduler.NewDaily(a.cfg.SendAt, loc, lunchJob(svc, n))
				if err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			g, ctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				return bot.New(client, svc).Run(ctx)
			})
			if daily != nil {
				g.Go(func() error {
					return daily.Run(ctx)
				})
			}

			logger.Info("Bot started", logger.Fields{
				"chat_id":  a.cfg.ChatID,
				"send_at":  a.cfg.SendAt,
				"schedule": daily != nil,
			})

			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			logger.Info("Bot stopped", nil)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSchedule, "no-schedule", false, "Only answer commands, never deliver on a schedule")
	cmd.Flags().String("send-at", config.DefaultSendAt, "Daily delivery time (HH:MM)")
	cmd.Flags().String("chat-id", "", "Delivery chat (default: CHAT_ID)")
	a.bindFlags(cmd, map[string]string{"send_at": "send-at", "chat_id": "chat-id"}, false)

	return cmd
}
