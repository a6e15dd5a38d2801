//go:build protogen

package main

import (
	"context"
	"log/slog"

	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/config"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/chat-service/internal/clients"
)

func setupDirectory(ctx context.Context, env *clients.Env, logger *slog.Logger) {
	addr := config.String("DIRECTORY_GRPC_ADDR", "scheduling-service:9093")
	directory, err := clients.NewGRPCDirectory(addr)
	if err != nil {
		logger.Error("directory client init failed", "err", err)
		return
	}

	go func() {
		<-ctx.Done()
		_ = directory.Close()
	}()

	env.Directory = directory
	logger.Info("doctor directory using grpc", "addr", addr)
}
