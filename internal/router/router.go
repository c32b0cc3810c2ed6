package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/med-schedule-service/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/med-schedule-service/internal/middleware" // import middleware for JWT authentication
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Operations that do not require an existing session: register, login and
	// the refresh flows.  Each handler generates or exchanges tokens itself.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout does not require JWT authentication; the handler accepts either
	// a bearer token (revoke all sessions) or a refresh_token in the body
	// (revoke one session).
	g.POST("/logout", a.Logout)

	// Protected group: every route registered here runs the JWTAuth
	// middleware first.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)

	// Same handler reachable without the /auth prefix so clients can call
	// either /v1/auth/logout or /v1/logout.
	e.POST("/v1/logout", a.Logout)
}

// APIHandlers bundles the domain handlers registered under the protected /v1
// group.
type APIHandlers struct {
	Medicines     *handler.MedicineHandler
	Prescriptions *handler.PrescriptionHandler
	Schedules     *handler.ScheduleHandler
	Timings       *handler.TimingHandler
	Intake        *handler.IntakeHandler
	Calendar      *handler.CalendarHandler
}

// RegisterAPI registers the medication endpoints under /v1.  All routes
// require a valid JWT.  extra middleware (rate limiting) applies to the whole
// group; cacheMW, when non-nil, applies only to the calendar reads since
// those are the expensive projections worth caching.
func RegisterAPI(e *echo.Echo, h APIHandlers, jwtSecret string, cacheMW echo.MiddlewareFunc, extra ...echo.MiddlewareFunc) {
	mws := append([]echo.MiddlewareFunc{middleware.JWTAuth(jwtSecret)}, extra...)
	g := e.Group("/v1", mws...)

	// medicine catalogue
	g.GET("/medicines", h.Medicines.List)
	g.POST("/medicines", h.Medicines.Create)
	g.GET("/medicines/:id", h.Medicines.Get)

	// prescriptions and their medicine links
	g.GET("/prescriptions", h.Prescriptions.List)
	g.POST("/prescriptions", h.Prescriptions.Create)
	g.GET("/prescriptions/:id", h.Prescriptions.Get)
	g.POST("/prescriptions/:id/medicines", h.Prescriptions.AddMedicine)
	g.DELETE("/prescriptions/:id", h.Prescriptions.Delete)

	// medication schedules and generated timings
	g.GET("/schedules", h.Schedules.List)
	g.POST("/schedules", h.Schedules.Create)
	g.GET("/schedules/:id", h.Schedules.Get)
	g.PATCH("/schedules/:id/active", h.Schedules.SetActive)
	g.DELETE("/schedules/:id", h.Schedules.Delete)
	g.GET("/schedules/:id/timings", h.Timings.ListBySchedule)
	g.PATCH("/timings/:id", h.Timings.Update)
	g.DELETE("/timings/:id", h.Timings.Delete)

	// intake logs
	g.GET("/intake-logs", h.Intake.List)
	g.POST("/intake-logs", h.Intake.Create)
	g.PATCH("/intake-logs/:id", h.Intake.Update)
	g.DELETE("/intake-logs/:id", h.Intake.Delete)

	// dose calendar
	if cacheMW != nil {
		g.GET("/calendar", h.Calendar.Get, cacheMW)
		g.GET("/calendar.ics", h.Calendar.GetICS, cacheMW)
	} else {
		g.GET("/calendar", h.Calendar.Get)
		g.GET("/calendar.ics", h.Calendar.GetICS)
	}
}
