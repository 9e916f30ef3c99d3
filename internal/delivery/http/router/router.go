// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"medtracker/internal/delivery/http/middleware"
	"medtracker/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler       *handler.UserHandler
	ProfileHandler    *handler.ProfileHandler
	HospitalHandler   *handler.HospitalHandler
	SessionHandler    *handler.SessionHandler
	AuthMiddleware    *middleware.AuthMiddleware
	MetricsMiddleware *middleware.MetricsMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler       *handler.UserHandler
	profileHandler    *handler.ProfileHandler
	hospitalHandler   *handler.HospitalHandler
	sessionHandler    *handler.SessionHandler
	authMiddleware    *middleware.AuthMiddleware
	metricsMiddleware *middleware.MetricsMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:       params.UserHandler,
		profileHandler:    params.ProfileHandler,
		hospitalHandler:   params.HospitalHandler,
		sessionHandler:    params.SessionHandler,
		authMiddleware:    params.AuthMiddleware,
		metricsMiddleware: params.MetricsMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Operational endpoints
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(r.metricsMiddleware.Registry(), promhttp.HandlerOpts{})))

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register/patient", r.userHandler.RegisterPatient)
		authGroup.POST("/register/hospital-admin", r.userHandler.RegisterHospitalAdmin)
		authGroup.POST("/login", r.userHandler.Login)
		authGroup.POST("/refresh", r.userHandler.RefreshToken)
		authGroup.POST("/logout", r.userHandler.Logout)
	}

	// Public hospital read side
	e.GET("/hospitals", r.hospitalHandler.ListHospitals)
	e.GET("/hospitals/:id", r.hospitalHandler.GetHospital)

	// Session view for the authenticated caller
	e.GET("/session", r.sessionHandler.GetSession, r.authMiddleware.Authenticate)

	// Profile routes that require authentication
	profileGroup := e.Group("/profile")
	profileGroup.Use(r.authMiddleware.Authenticate)
	{
		profileGroup.GET("", r.profileHandler.GetProfile)
		profileGroup.PUT("", r.profileHandler.UpdateProfile)
		profileGroup.POST("/avatar", r.profileHandler.UploadAvatar)
		profileGroup.DELETE("/avatar", r.profileHandler.RemoveAvatar)
	}

	// Availability write side. Any authenticated caller may attempt a write;
	// role resolution (own facility, selected facility, or rejection) is
	// business logic, not routing.
	e.PUT("/availability", r.hospitalHandler.UpdateAvailability, r.authMiddleware.Authenticate)
}
