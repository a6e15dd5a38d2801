package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/config"
	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/db"
	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/httpx"
	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/kafkax"
	otelx "github.com/dhruvldrp9/Doctor-Appointment-System/libs/otel"
	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/runtime"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/booking"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/consumer"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/handlers"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/inbox"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/model"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/outbox"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/storage"
)

func main() {
	service := config.String("SERVICE_NAME", "scheduling-service")
	port, err := config.Port("PORT", "8083")
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

	scheduleRepo := storage.NewScheduleRepository(pool)
	apptRepo := storage.NewAppointmentRepository(pool)
	outboxRepo := outbox.NewRepository(pool)

	bookingCfg := booking.Config{
		HorizonDays:        config.Int("BOOKING_HORIZON_DAYS", 7),
		DefaultSlotMinutes: config.Int("DEFAULT_SLOT_MINUTES", 30),
	}

	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   config.String("KAFKA_BROKERS", ""),
		PollEvery: 2 * time.Second,
		BatchSize: 50,
	})
	go outboxPublisher.Run(ctx)

	// Mirror doctor identities published by auth-service into the local
	// directory so slot and booking lookups never call across services.
	inboxRepo := inbox.NewRepository(pool)
	if brokers := config.String("KAFKA_BROKERS", ""); brokers != "" {
		directoryConsumer := consumer.New(logger, inboxRepo, consumer.Config{
			Brokers: brokers,
			GroupID: config.String("KAFKA_GROUP_ID", "scheduling-service"),
			Topic:   config.String("KAFKA_CONSUME_TOPIC", "auth.user.created.v1"),
		}, func(ctx context.Context, msg kafka.Message) error {
			var payload struct {
				UserID         string `json:"user_id"`
				Role           string `json:"role"`
				FirstName      string `json:"first_name"`
				LastName       string `json:"last_name"`
				Specialization string `json:"specialization"`
			}
			if err := json.Unmarshal(msg.Value, &payload); err != nil {
				logger.Error("invalid event payload", "err", err, "topic", msg.Topic)
				return nil
			}
			if payload.Role != "doctor" || payload.UserID == "" {
				return nil
			}
			return scheduleRepo.UpsertDoctor(ctx, model.Doctor{
				ID:             payload.UserID,
				FirstName:      payload.FirstName,
				LastName:       payload.LastName,
				Specialization: payload.Specialization,
			})
		})
		go directoryConsumer.Run(ctx)
	}

	scheduleHandler := handlers.NewScheduleHandler(scheduleRepo, logger, nil)
	bookingHandler := handlers.NewBookingHandler(scheduleRepo, apptRepo, outboxRepo, logger, bookingCfg, nil)
	apptHandler := handlers.NewAppointmentsHandler(apptRepo, outboxRepo, logger, nil)
	adminHandler := handlers.NewAdminHandler(apptRepo, logger, nil)

	mux := runtime.NewBaseMuxWithReady(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
		runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(config.String("KAFKA_BROKERS", ""))},
	)
	mux.HandleFunc("/api/v1/schedule/windows", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			scheduleHandler.ListWindows(w, r)
			return
		}
		scheduleHandler.CreateWindow(w, r)
	})
	mux.HandleFunc("/api/v1/schedule/windows/delete", scheduleHandler.DeleteWindow)
	mux.HandleFunc("/api/v1/public/doctors", bookingHandler.Doctors)
	mux.HandleFunc("/api/v1/public/slots", bookingHandler.Slots)
	mux.HandleFunc("/api/v1/public/book", bookingHandler.Book)
	mux.HandleFunc("/api/v1/appointments", apptHandler.List)
	mux.HandleFunc("/api/v1/appointments/confirm", apptHandler.Confirm)
	mux.HandleFunc("/api/v1/appointments/cancel", apptHandler.Cancel)
	mux.HandleFunc("/api/v1/admin/stats", adminHandler.Stats)

	if err := startGrpcServer(ctx, logger, scheduleRepo); err != nil {
		logger.Error("grpc server failed to start", "err", err)
	}

	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "scheduling")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
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
