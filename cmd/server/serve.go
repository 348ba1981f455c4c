package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/college360hub/hub-booking/internal/config"
	"github.com/college360hub/hub-booking/internal/database"
	"github.com/college360hub/hub-booking/internal/handler"
	"github.com/college360hub/hub-booking/internal/logging"
	"github.com/college360hub/hub-booking/internal/middleware"
	"github.com/college360hub/hub-booking/internal/notify"
	"github.com/college360hub/hub-booking/internal/payment"
	"github.com/college360hub/hub-booking/internal/queue"
	"github.com/college360hub/hub-booking/internal/repository"
	"github.com/college360hub/hub-booking/internal/router"
	"github.com/college360hub/hub-booking/internal/service"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	var embedConsumer bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(embedConsumer)
		},
	}
	cmd.Flags().BoolVar(&embedConsumer, "consumer", true, "also consume broker events in this process (rabbitmq and kafka transports)")
	return cmd
}

func serve(embedConsumer bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Env)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(cfg.DB, database.Up, logger); err != nil {
			return err
		}
	}
	db, err := database.Open(cfg.DB)
	if err != nil {
		return err
	}
	store, err := repository.New(cfg.DB.Driver, db, logger)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing store", zap.Error(err))
		}
	}()

	mailer := notify.NewMailer(newSender(cfg.Mail, logger), cfg.Mail.SiteURL, logger)
	notifier, closeNotifier, err := newNotifier(cfg.Notify, mailer, logger)
	if err != nil {
		return err
	}
	gateway := payment.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.Currency, logger)
	confirmations := service.NewConfirmationService(store, gateway, notifier, cfg.Stripe.VerifyIntents, logger)

	rdb, err := config.NewRedisClient(config.LoadRedisConfig())
	if err != nil {
		logger.Warn("redis unavailable, rate limiting and caching disabled", zap.Error(err))
	}

	e := router.New(logger, cfg.CORSOrigins)
	router.RegisterRoutes(e, &handler.HealthHandler{Store: store, Logger: logger})
	router.RegisterPublic(e, &handler.AvailabilityHandler{},
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb, logger))
	router.RegisterCheckout(e,
		&handler.PaymentHandler{Gateway: gateway, Logger: logger},
		&handler.ConfirmationHandler{Service: confirmations},
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, logger))
	router.RegisterAdmin(e, &handler.AdminHandler{Reports: service.NewReporter(store), Logger: logger})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	if embedConsumer && cfg.Notify.Transport != config.TransportDirect {
		consumer, err := newConsumer(cfg.Notify, queue.NewHandler(mailer, logger), logger)
		if err != nil {
			return err
		}
		g.Go(func() error { return consumer.Run(gctx) })
	}

	g.Go(func() error {
		addr := ":" + cfg.Port
		logger.Info("listening", zap.String("addr", addr), zap.String("db", store.Driver()), zap.String("notify", cfg.Notify.Transport))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(sctx); err != nil {
			logger.Warn("http shutdown", zap.Error(err))
		}
		if err := closeNotifier(sctx); err != nil {
			logger.Warn("closing notifier", zap.Error(err))
		}
		closeRedis(rdb, logger)
		return nil
	})
	return g.Wait()
}

func newSender(cfg config.MailConfig, logger *zap.Logger) notify.Sender {
	if cfg.ResendAPIKey == "" {
		logger.Warn("RESEND_API_KEY not set, confirmation e-mails are only logged")
		return notify.NewLogSender(logger)
	}
	return notify.NewResendSender(cfg.ResendAPIKey, cfg.From, logger)
}

// newNotifier picks the dispatch path behind the confirmation service.
// The returned func flushes or closes it on shutdown.
func newNotifier(cfg config.NotifyConfig, mailer *notify.Mailer, logger *zap.Logger) (notify.Notifier, func(context.Context) error, error) {
	switch cfg.Transport {
	case config.TransportDirect:
		n := notify.NewAsyncNotifier(mailer, cfg.Workers, cfg.QueueSize, logger)
		return n, n.Close, nil
	case config.TransportRabbitMQ:
		p := queue.NewRabbitPublisher(cfg.RabbitURL, logger)
		return p, func(context.Context) error { return p.Close() }, nil
	case config.TransportKafka:
		p := queue.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		return p, func(context.Context) error { return p.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unsupported notify transport %q", cfg.Transport)
}

type consumer interface {
	Run(ctx context.Context) error
}

func newConsumer(cfg config.NotifyConfig, h *queue.Handler, logger *zap.Logger) (consumer, error) {
	switch cfg.Transport {
	case config.TransportRabbitMQ:
		return queue.NewRabbitConsumer(cfg.RabbitURL, h, logger), nil
	case config.TransportKafka:
		return queue.NewKafkaConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID, h, logger), nil
	}
	return nil, fmt.Errorf("transport %q has no broker to consume from", cfg.Transport)
}

func closeRedis(rdb *redis.Client, logger *zap.Logger) {
	if rdb == nil {
		return
	}
	if err := rdb.Close(); err != nil {
		logger.Warn("closing redis", zap.Error(err))
	}
}
