package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"loanrisk-backend/internal/adapter/middleware"
	"loanrisk-backend/internal/auth"
	"loanrisk-backend/internal/domain/audit"
	domainLoan "loanrisk-backend/internal/domain/loan"
	"loanrisk-backend/internal/domain/user"
	"loanrisk-backend/internal/usecase/account"
	ucLoan "loanrisk-backend/internal/usecase/loan"
)

// bindAndValidate writes the 400/422 response itself and reports false
// when the request should stop.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

// caller returns the identity placed by RequireAuth. When it is missing the
// 401 has already been written and the returned error must be passed on.
func caller(c echo.Context) (auth.Identity, bool, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return auth.Identity{}, false, c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing bearer token"})
	}
	return id, true, nil
}

// respondError maps domain errors to HTTP codes. Unknown errors are logged
// once here and reported as 500.
func respondError(c echo.Context, log *zap.Logger, err error) error {
	var conflict *domainLoan.ConflictError
	switch {
	case errors.As(err, &conflict):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: conflict.Error()})
	case errors.Is(err, domainLoan.ErrConflict):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: domainLoan.ErrConflict.Error()})
	case errors.Is(err, domainLoan.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "loan not found"})
	case errors.Is(err, user.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
	case errors.Is(err, user.ErrEmailTaken):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "email already registered"})
	case errors.Is(err, account.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case errors.Is(err, account.ErrAdminSignupDisabled):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, account.ErrInvalidRole), errors.Is(err, ucLoan.ErrInvalidInput):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, audit.ErrUnavailable):
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "audit log service unavailable"})
	}
	log.Error("request failed",
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
