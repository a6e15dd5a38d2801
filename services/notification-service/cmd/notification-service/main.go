package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/config"
	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/db"
	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/httpx"
	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/kafkax"
	otelx "github.com/dhruvldrp9/Doctor-Appointment-System/libs/otel"
	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/runtime"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/notification-service/internal/consumer"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/notification-service/internal/email"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/notification-service/internal/handlers"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/notification-service/internal/inbox"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/notification-service/internal/notify"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/notification-service/internal/outbox"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/notification-service/internal/sms"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/notification-service/internal/storage"
)

func main() {
	service := config.String("SERVICE_NAME", "notification-service")
	port, err := config.Port("PORT", "8085")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}

	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	inboxRepo := inbox.NewRepository(pool)
	contactsRepo := storage.NewContactsRepository(pool)
	notificationsRepo := storage.NewNotificationsRepository(pool)
	outboxRepo := outbox.NewRepository(pool)
	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   config.String("KAFKA_BROKERS", ""),
		PollEvery: 2 * time.Second,
		BatchSize: 50,
	})
	go outboxPublisher.Run(ctx)

	emailSender := email.NewSMTPSender(
		config.String("SMTP_HOST", "mailpit"),
		config.String("SMTP_PORT", "1025"),
		config.String("SMTP_FROM", "no-reply@docappoint.local"),
	)

	var smsSender sms.Sender
	switch strings.ToLower(config.String("SMS_PROVIDER", "noop")) {
	case "webhook":
		smsSender = sms.NewWebhookSender(config.String("SMS_WEBHOOK_URL", ""), config.String("SMS_WEBHOOK_TOKEN", ""))
	default:
		smsSender = sms.NewNoopSender()
	}

	notifier := notify.New(pool, contactsRepo, notificationsRepo, outboxRepo, emailSender, smsSender, logger)

	brokers := config.String("KAFKA_BROKERS", "")
	groupID := config.String("KAFKA_GROUP_ID", "notification-service")
	startConsumer := func(topic string, handler consumer.Handler) {
		if brokers == "" || strings.TrimSpace(topic) == "" {
			return
		}
		c := consumer.New(logger, inboxRepo, consumer.Config{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
		}, handler)
		go c.Run(ctx)
	}

	startConsumer(notify.TopicUserCreated, func(ctx context.Context, msg kafka.Message) error {
		return notifier.HandleUserCreated(ctx, msg.Value)
	})
	for _, topic := range []string{
		notify.TopicAppointmentRequested,
		notify.TopicAppointmentConfirmed,
		notify.TopicAppointmentCancelled,
	} {
		topic := topic
		startConsumer(topic, func(ctx context.Context, msg kafka.Message) error {
			return notifier.HandleAppointmentEvent(ctx, topic, msg.Value)
		})
	}

	notificationsHandler := handlers.NewNotificationsHandler(notificationsRepo, logger)
	mux := runtime.NewBaseMuxWithReady(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
		runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)},
	)
	mux.HandleFunc("/api/v1/notifications", notificationsHandler.List)
	mux.HandleFunc("/api/v1/notifications/read", notificationsHandler.MarkRead)
	handler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
	)
	handler = otelhttp.NewHandler(handler, "notification")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
