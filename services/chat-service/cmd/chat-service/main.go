package main

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/config"
	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/httpx"
	otelx "github.com/dhruvldrp9/Doctor-Appointment-System/libs/otel"
	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/runtime"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/chat-service/internal/clients"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/chat-service/internal/handlers"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/chat-service/internal/session"
)

func main() {
	service := config.String("SERVICE_NAME", "chat-service")
	port, err := config.Port("PORT", "8084")
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

	redisDB := 0
	if v, err := strconv.Atoi(config.String("REDIS_DB", "0")); err == nil && v >= 0 {
		redisDB = v
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.String("REDIS_ADDR", "redis:6379"),
		Password: config.String("REDIS_PASSWORD", ""),
		DB:       redisDB,
	})
	defer func() { _ = rdb.Close() }()

	sessionTTL := 30 * time.Minute
	if v, err := strconv.Atoi(config.String("SESSION_TTL_MINUTES", "30")); err == nil && v > 0 {
		sessionTTL = time.Duration(v) * time.Minute
	}
	store := session.NewStore(rdb, sessionTTL)

	env := &clients.Env{
		Auth:       clients.NewAuthClient(config.String("AUTH_URL", "http://auth-service:8081")),
		Scheduling: clients.NewSchedulingClient(config.String("SCHEDULING_URL", "http://scheduling-service:8083")),
	}
	setupDirectory(ctx, env, logger)

	chatHandler := handlers.NewChatHandler(store, env, logger)

	mux := runtime.NewBaseMuxWithReady(
		runtime.ReadyCheck{Name: "redis", Check: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}},
	)
	mux.HandleFunc("/api/v1/chat/message", chatHandler.Message)

	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "chat")
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
