package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/college360hub/hub-booking/internal/config"
	"github.com/college360hub/hub-booking/internal/logging"
	"github.com/college360hub/hub-booking/internal/notify"
	"github.com/college360hub/hub-booking/internal/queue"
)

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Consume confirmation events and send e-mails",
		Long:  "Runs only the broker consumer.  Requires NOTIFY_TRANSPORT=rabbitmq or kafka; pair with 'serve --consumer=false'.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Env)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			mailer := notify.NewMailer(newSender(cfg.Mail, logger), cfg.Mail.SiteURL, logger)
			c, err := newConsumer(cfg.Notify, queue.NewHandler(mailer, logger), logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			logger.Info("worker started", zap.String("transport", cfg.Notify.Transport))
			return c.Run(ctx)
		},
	}
}
