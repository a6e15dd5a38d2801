//go:build !protogen

package main

import (
	"context"
	"log/slog"

	"github.com/dhruvldrp9/Doctor-Appointment-System/services/chat-service/internal/clients"
)

// Without generated proto code the doctor directory falls back to the
// scheduling service's HTTP endpoint.
func setupDirectory(_ context.Context, _ *clients.Env, _ *slog.Logger) {}
