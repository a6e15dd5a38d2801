//go:build protogen

package clients

import (
	"context"
	"time"

	"google.golang.org/grpc"

	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/grpcx"
	directoryv1 "github.com/dhruvldrp9/Doctor-Appointment-System/protos/gen/directory/v1"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/chat-service/internal/flow"
)

// GRPCDirectory lists doctors over the scheduling service's gRPC port.
type GRPCDirectory struct {
	conn   *grpc.ClientConn
	client directoryv1.DirectoryServiceClient
}

func NewGRPCDirectory(addr string) (*GRPCDirectory, error) {
	conn, err := grpcx.Dial(context.Background(), addr, grpcx.DialOptions{
		Timeout: 5 * time.Second,
	})
	if err != nil {
		return nil, err
	}

	return &GRPCDirectory{
		conn:   conn,
		client: directoryv1.NewDirectoryServiceClient(conn),
	}, nil
}

func (d *GRPCDirectory) Close() error {
	return d.conn.Close()
}

func (d *GRPCDirectory) ListDoctors(ctx context.Context) ([]flow.Doctor, error) {
	resp, err := d.client.ListDoctors(ctx, &directoryv1.ListDoctorsRequest{})
	if err != nil {
		return nil, err
	}

	doctors := make([]flow.Doctor, 0, len(resp.GetDoctors()))
	for _, d := range resp.GetDoctors() {
		doctors = append(doctors, flow.Doctor{
			ID:             d.GetDoctorId(),
			Name:           d.GetName(),
			Specialization: d.GetSpecialization(),
		})
	}
	return doctors, nil
}
