package main

import (
	"context"
	"log/slog"
	"os"

	"medtracker/config"
	"medtracker/internal/delivery"
	"medtracker/internal/delivery/http"
	httpmiddleware "medtracker/internal/delivery/http/middleware"
	"medtracker/internal/delivery/http/router/handler"
	deliverymiddleware "medtracker/internal/delivery/middleware"
	"medtracker/internal/domain/service"
	"medtracker/internal/infra/auth"
	logs "medtracker/internal/infra/log"
	"medtracker/internal/infra/persistence/postgres"
	"medtracker/internal/infra/storage"
	"medtracker/internal/usecase/impl"

	"go.uber.org/fx"

	// Driver for local filesystem buckets; s3blob or gcsblob can be swapped
	// in via the storage bucket URL without code changes.
	_ "gocloud.dev/blob/fileblob"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
		storage.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewAuthRepository,
			postgres.NewHospitalRepository,
			postgres.NewAvailabilityRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			newPasswordHasher,
			auth.NewJWTService,
		),
	)
}

// newPasswordHasher creates the bcrypt hasher with the configured cost
func newPasswordHasher(cfg *config.Config) service.PasswordHasher {
	if cfg.Auth == nil {
		return auth.NewBcryptHasher()
	}

	return auth.NewBcryptHasherWithCost(cfg.Auth.BcryptCost)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewUserService,
			impl.NewProfileService,
			impl.NewHospitalService,
			impl.NewAvailabilityService,
			impl.NewSessionService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			deliverymiddleware.NewRequestIDMiddleware,
			deliverymiddleware.NewLoggerMiddleware,
			httpmiddleware.NewAuthMiddleware,
			httpmiddleware.NewErrorMiddleware,
			httpmiddleware.NewMetricsMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewUserHandler,
			handler.NewProfileHandler,
			handler.NewHospitalHandler,
			handler.NewSessionHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
