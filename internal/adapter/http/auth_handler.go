package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"loanrisk-backend/internal/domain/user"
	"loanrisk-backend/internal/usecase/account"
)

type AuthHandler struct {
	uc  *account.Usecase
	log *zap.Logger
}

func NewAuthHandler(uc *account.Usecase, log *zap.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, log: log}
}

type registerReq struct {
	FullName        string `json:"full_name"        validate:"required,min=3,max=100"`
	Email           string `json:"email"            validate:"required,email"`
	Password        string `json:"password"         validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	Role            string `json:"role"             validate:"omitempty,oneof=USER ADMIN"`
}

type loginReq struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Register(c.Request().Context(), account.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     user.Role(req.Role),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	id, ok, err := caller(c)
	if !ok {
		return err
	}
	h.uc.Logout(c.Request().Context(), id)
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

type deleteUserReq struct {
	UserID string `param:"user_id" validate:"required,hex32"`
}

// DeleteUser removes a user and every loan application they own.
func (h *AuthHandler) DeleteUser(c echo.Context) error {
	admin, ok, err := caller(c)
	if !ok {
		return err
	}
	var req deleteUserReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	if err := h.uc.DeleteUser(c.Request().Context(), admin, req.UserID); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "user deleted", "user_id": req.UserID})
}
