//go:build protogen

package main

import (
	"context"
	"log/slog"
	"net"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"

	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/config"
	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/grpcx"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/directory"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/storage"
)

func startGrpcServer(ctx context.Context, logger *slog.Logger, repo *storage.ScheduleRepository) error {
	port := config.String("GRPC_PORT", "9093")
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return err
	}

	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(grpcx.UnaryServerRequestIDInterceptor()),
	)
	directory.Register(srv, repo)

	go func() {
		logger.Info("grpc server starting", "addr", lis.Addr().String())
		if err := srv.Serve(lis); err != nil {
			logger.Error("grpc server error", "err", err)
		}
	}()

	go func() {
		<-ctx.Done()
		srv.GracefulStop()
	}()

	return nil
}
