package http

import (
	"github.com/labstack/echo/v4"

	"loanrisk-backend/internal/adapter/middleware"
)

type Handlers struct {
	Health   *Handler
	Auth     *AuthHandler
	Loans    *LoanHandler
	Decision *DecisionHandler
	Activity *ActivityHandler
}

// Guards holds the middleware the routes depend on. Idempotency may be nil
// when no redis is configured.
type Guards struct {
	Auth        echo.MiddlewareFunc
	Idempotency echo.MiddlewareFunc
}

func RegisterRoutes(e *echo.Echo, h Handlers, g Guards) {
	user := []echo.MiddlewareFunc{g.Auth}
	admin := []echo.MiddlewareFunc{g.Auth, middleware.RequireAdmin}
	create := user
	if g.Idempotency != nil {
		create = []echo.MiddlewareFunc{g.Auth, g.Idempotency}
	}

	e.GET("/health", h.Health.Health)

	e.POST("/auth/register", h.Auth.Register)
	e.POST("/auth/login", h.Auth.Login)
	e.POST("/auth/logout", h.Auth.Logout, user...)

	e.POST("/loans", h.Loans.CreateLoan, create...)
	e.GET("/loans/my", h.Loans.ListMine, user...)
	e.GET("/loans/my-loans", h.Loans.ListMine, user...)
	e.GET("/loans/my/:loan_id", h.Loans.GetLoan, user...)
	e.GET("/loans/pending", h.Loans.ListPending, admin...)
	e.GET("/loans/all", h.Loans.ListAll, admin...)
	e.POST("/loans/:loan_id/decision", h.Decision.Decide, admin...)

	e.DELETE("/users/:user_id", h.Auth.DeleteUser, admin...)

	e.POST("/logs/calculation", h.Activity.LogCalculation, user...)
	e.POST("/logs/activity", h.Activity.LogActivity, user...)
	e.GET("/logs/user/activities", h.Activity.ListActivities, user...)
	e.GET("/logs/user/calculations", h.Activity.ListCalculations, user...)
}
