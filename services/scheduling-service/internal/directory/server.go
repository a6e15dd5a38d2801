//go:build protogen

package directory

import (
	"context"

	directoryv1 "github.com/dhruvldrp9/Doctor-Appointment-System/protos/gen/directory/v1"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/storage"
	"google.golang.org/grpc"
)

type server struct {
	directoryv1.UnimplementedDirectoryServiceServer
	repo *storage.ScheduleRepository
}

func Register(grpcServer *grpc.Server, repo *storage.ScheduleRepository) {
	directoryv1.RegisterDirectoryServiceServer(grpcServer, &server{repo: repo})
}

func (s *server) ListDoctors(ctx context.Context, _ *directoryv1.ListDoctorsRequest) (*directoryv1.ListDoctorsResponse, error) {
	doctors, err := s.repo.ListDoctors(ctx)
	if err != nil {
		return nil, err
	}

	resp := &directoryv1.ListDoctorsResponse{}
	for _, d := range doctors {
		resp.Doctors = append(resp.Doctors, &directoryv1.Doctor{
			DoctorId:       d.ID,
			Name:           d.DisplayName(),
			Specialization: d.Specialization,
		})
	}
	return resp, nil
}
