package impl

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	deliverycontext "medtracker/internal/delivery/context"
	"medtracker/internal/domain/entity"
	domainerrors "medtracker/internal/domain/errors"
	"medtracker/internal/domain/repository"
	"medtracker/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// availabilityService implements the AvailabilityUsecase interface.
//
// A submission moves through four phases in order: validate the typed
// counts, authorize and resolve the target hospital from the caller's role,
// write the snapshot, and read back the refreshed view. Failure in any phase
// aborts the rest; there is no retry.
type availabilityService struct {
	userRepo         repository.UserRepository
	hospitalRepo     repository.HospitalRepository
	availabilityRepo repository.AvailabilityRepository
	logger           *slog.Logger
}

// AvailabilityServiceParams holds dependencies for availabilityService, injected by Fx.
type AvailabilityServiceParams struct {
	fx.In

	UserRepo         repository.UserRepository
	HospitalRepo     repository.HospitalRepository
	AvailabilityRepo repository.AvailabilityRepository
	Logger           *slog.Logger
}

// NewAvailabilityService is the constructor for availabilityService.
func NewAvailabilityService(params AvailabilityServiceParams) usecase.AvailabilityUsecase {
	return &availabilityService{
		userRepo:         params.UserRepo,
		hospitalRepo:     params.HospitalRepo,
		availabilityRepo: params.AvailabilityRepo,
		logger:           params.Logger,
	}
}

func (srv *availabilityService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// UpdateAvailability runs one submission through the full sequence.
func (srv *availabilityService) UpdateAvailability(ctx context.Context, userID uuid.UUID, input usecase.UpdateAvailabilityInput) (*usecase.UpdateAvailabilityOutput, error) {
	beds, oxygen, err := parseCounts(input.Beds, input.Oxygen)
	if err != nil {
		return nil, err
	}

	hospitalID, err := srv.resolveTarget(ctx, userID, input.SelectedHospitalID)
	if err != nil {
		srv.log(ctx).Warn("Availability write rejected", slog.Any("userID", userID), slog.Any("error", err))

		return nil, err
	}

	if err := srv.writeSnapshot(ctx, hospitalID, beds, oxygen, userID); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Availability updated",
		slog.Int64("hospitalID", hospitalID),
		slog.Int("beds", beds),
		slog.Int("oxygen", oxygen),
		slog.Any("updatedBy", userID),
	)

	return srv.refreshView(ctx, hospitalID)
}

// parseCounts validates the submitted strings as non-negative integers and
// names every offending field in the error.
func parseCounts(bedsRaw, oxygenRaw string) (int, int, error) {
	var invalid []string

	beds, err := strconv.Atoi(strings.TrimSpace(bedsRaw))
	if err != nil || beds < 0 {
		invalid = append(invalid, "available_beds")
	}

	oxygen, err := strconv.Atoi(strings.TrimSpace(oxygenRaw))
	if err != nil || oxygen < 0 {
		invalid = append(invalid, "available_oxygen")
	}

	if len(invalid) > 0 {
		return 0, 0, domainerrors.ErrValidationFailed.
			WithDetails("invalid fields: " + strings.Join(invalid, ", ")).
			WrapMessage("counts must be non-negative integers")
	}

	return beds, oxygen, nil
}

// resolveTarget loads the caller's profile and derives the hospital the
// write applies to. Hospital administrators always write to their own
// facility; a stray selection is ignored for them. When an admin profile has
// lost its hospital link, the hospitals table is the fallback source.
func (srv *availabilityService) resolveTarget(ctx context.Context, userID uuid.UUID, selected *int64) (int64, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to load user for availability write")
	}
	if user.Profile == nil {
		return 0, domainerrors.ErrProfileNotFound.WrapMessage("profile missing for this account")
	}

	actor := entity.Actor{
		UserID:     userID,
		Role:       user.Profile.Role,
		HospitalID: user.Profile.HospitalID,
	}

	if actor.Role == entity.RoleHospitalAdmin && actor.HospitalID == nil {
		hospital, findErr := srv.hospitalRepo.FindByAdminID(ctx, userID)
		switch {
		case findErr == nil:
			actor.HospitalID = &hospital.ID
		case !errors.Is(findErr, repository.ErrHospitalNotFound):
			// A storage failure is not "no hospital linked"; surface it
			// instead of letting resolution report a missing link.
			return 0, errors.Wrap(findErr, "failed to resolve managed hospital")
		}
	}

	hospitalID, err := actor.ResolveTarget(selected)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrWriteNotPermitted):
			return 0, domainerrors.ErrForbidden.WrapMessage("role may not update availability")
		case errors.Is(err, entity.ErrNoManagedHospital):
			return 0, domainerrors.ErrHospitalNotFound.WrapMessage("no hospital linked to this administrator")
		case errors.Is(err, entity.ErrNoHospitalSelected):
			return 0, domainerrors.ErrValidationFailed.WrapMessage("a hospital must be selected")
		default:
			return 0, err
		}
	}

	return hospitalID, nil
}

// writeSnapshot is update-then-insert: mutate the existing row in place, and
// only when no row exists yet create the first one. The two statements are
// deliberately not atomic; the unique constraint on hospital_id backstops
// the first-write race, and a lost race surfaces as a conflict.
func (srv *availabilityService) writeSnapshot(ctx context.Context, hospitalID int64, beds, oxygen int, userID uuid.UUID) error {
	row := &entity.Availability{
		HospitalID:      hospitalID,
		AvailableBeds:   beds,
		AvailableOxygen: oxygen,
		LastUpdated:     time.Now().UTC(),
		UpdatedBy:       userID,
	}

	affected, err := srv.availabilityRepo.UpdateCounts(ctx, row)
	if err != nil {
		return errors.Wrap(err, "failed to update availability")
	}
	if affected > 0 {
		return nil
	}

	if err := srv.availabilityRepo.Insert(ctx, row); err != nil {
		if errors.Is(err, repository.ErrDuplicateAvailability) {
			srv.log(ctx).Warn("Lost availability first-write race", slog.Int64("hospitalID", hospitalID))

			return domainerrors.ErrAvailabilityConflict.WrapMessage("availability was updated concurrently, submit again")
		}

		return errors.Wrap(err, "failed to insert availability")
	}

	return nil
}

// refreshView reads the just-written state back from storage so the caller
// sees what every other reader now sees, not what it submitted.
func (srv *availabilityService) refreshView(ctx context.Context, hospitalID int64) (*usecase.UpdateAvailabilityOutput, error) {
	hospital, err := srv.hospitalRepo.FindByID(ctx, hospitalID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to refresh hospital view")
	}

	row, err := srv.availabilityRepo.FindByHospitalID(ctx, hospitalID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to refresh availability view")
	}

	var rows []*entity.Availability
	if row != nil {
		rows = append(rows, row)
	}

	return &usecase.UpdateAvailabilityOutput{
		Hospital: &entity.HospitalAvailability{
			Hospital:     hospital,
			Availability: entity.NormalizeAvailability(rows),
		},
	}, nil
}
