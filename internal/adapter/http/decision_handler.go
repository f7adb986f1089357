package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"loanrisk-backend/internal/usecase/decision"
)

type DecisionHandler struct {
	uc  *decision.Usecase
	log *zap.Logger
}

func NewDecisionHandler(uc *decision.Usecase, log *zap.Logger) *DecisionHandler {
	return &DecisionHandler{uc: uc, log: log}
}

// An empty body (or no action) lets the automatic policy decide.
type decideReq struct {
	LoanID string `param:"loan_id" json:"-" validate:"required,hex32"`
	Action string `json:"action"             validate:"omitempty,oneof=APPROVED REJECTED"`
}

func (h *DecisionHandler) Decide(c echo.Context) error {
	admin, ok, err := caller(c)
	if !ok {
		return err
	}
	var req decideReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Decide(c.Request().Context(), admin, req.LoanID, req.Action)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}
