package impl

import (
	"context"
	"log/slog"

	deliverycontext "medtracker/internal/delivery/context"
	"medtracker/internal/domain/entity"
	domainerrors "medtracker/internal/domain/errors"
	"medtracker/internal/domain/repository"
	"medtracker/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// hospitalService implements the HospitalUsecase interface.
type hospitalService struct {
	hospitalRepo     repository.HospitalRepository
	availabilityRepo repository.AvailabilityRepository
	logger           *slog.Logger
}

// HospitalServiceParams holds dependencies for hospitalService, injected by Fx.
type HospitalServiceParams struct {
	fx.In

	HospitalRepo     repository.HospitalRepository
	AvailabilityRepo repository.AvailabilityRepository
	Logger           *slog.Logger
}

// NewHospitalService is the constructor for hospitalService.
func NewHospitalService(params HospitalServiceParams) usecase.HospitalUsecase {
	return &hospitalService{
		hospitalRepo:     params.HospitalRepo,
		availabilityRepo: params.AvailabilityRepo,
		logger:           params.Logger,
	}
}

func (srv *hospitalService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListHospitals returns every hospital with a normalized snapshot. The joined
// query is the fast path; if it fails, two plain list queries and an
// in-process join produce the same view.
func (srv *hospitalService) ListHospitals(ctx context.Context) ([]*entity.HospitalAvailability, error) {
	hospitals, availability, err := srv.hospitalRepo.ListWithAvailability(ctx)
	if err != nil {
		srv.log(ctx).Warn("Joined hospital query failed, falling back to separate queries", slog.Any("error", err))

		hospitals, availability, err = srv.listSeparately(ctx)
		if err != nil {
			return nil, err
		}
	}

	result := make([]*entity.HospitalAvailability, 0, len(hospitals))
	for _, hospital := range hospitals {
		result = append(result, &entity.HospitalAvailability{
			Hospital:     hospital,
			Availability: entity.NormalizeAvailability(availability[hospital.ID]),
		})
	}

	return result, nil
}

func (srv *hospitalService) listSeparately(ctx context.Context) ([]*entity.Hospital, map[int64][]*entity.Availability, error) {
	hospitals, err := srv.hospitalRepo.List(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to list hospitals")
	}

	rows, err := srv.availabilityRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to list availability")
	}

	availability := make(map[int64][]*entity.Availability, len(rows))
	for _, row := range rows {
		availability[row.HospitalID] = append(availability[row.HospitalID], row)
	}

	return hospitals, availability, nil
}

// GetHospital returns one hospital with its normalized snapshot.
func (srv *hospitalService) GetHospital(ctx context.Context, id int64) (*entity.HospitalAvailability, error) {
	hospital, err := srv.hospitalRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrHospitalNotFound) {
			return nil, domainerrors.ErrHospitalNotFound.WrapMessage("hospital not found")
		}

		return nil, errors.Wrap(err, "failed to find hospital")
	}

	row, err := srv.availabilityRepo.FindByHospitalID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load availability")
	}

	var rows []*entity.Availability
	if row != nil {
		rows = append(rows, row)
	}

	return &entity.HospitalAvailability{
		Hospital:     hospital,
		Availability: entity.NormalizeAvailability(rows),
	}, nil
}
