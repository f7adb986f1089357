package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"loanrisk-backend/internal/usecase/activity"
)

type ActivityHandler struct {
	uc  *activity.Usecase
	log *zap.Logger
}

func NewActivityHandler(uc *activity.Usecase, log *zap.Logger) *ActivityHandler {
	return &ActivityHandler{uc: uc, log: log}
}

type calculationReq struct {
	LoanID      string  `json:"loan_id"      validate:"omitempty,hex32"`
	Amount      float64 `json:"amount"       validate:"gt=0"`
	Income      float64 `json:"income"       validate:"gte=0"`
	CreditScore int     `json:"credit_score" validate:"gte=300,lte=850"`
	TermMonths  int     `json:"term_months"  validate:"gt=0"`

	DebtRatio    float64 `json:"debt_ratio"    validate:"gte=0"`
	CreditFactor float64 `json:"credit_factor" validate:"gte=0"`
	TermFactor   float64 `json:"term_factor"   validate:"gte=0"`
	RiskScore    float64 `json:"risk_score"    validate:"gte=0,lte=1"`
}

type activityReq struct {
	Action  string         `json:"action"  validate:"required,max=64"`
	Details map[string]any `json:"details"`
}

func (h *ActivityHandler) LogCalculation(c echo.Context) error {
	id, ok, err := caller(c)
	if !ok {
		return err
	}
	var req calculationReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	logID, err := h.uc.LogCalculation(c.Request().Context(), id, activity.CalculationInput(req))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, logged(logID, "Calculation logged successfully"))
}

func (h *ActivityHandler) LogActivity(c echo.Context) error {
	id, ok, err := caller(c)
	if !ok {
		return err
	}
	var req activityReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	logID, err := h.uc.LogActivity(c.Request().Context(), id, activity.ActivityInput(req))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, logged(logID, "Activity logged successfully"))
}

func (h *ActivityHandler) ListActivities(c echo.Context) error {
	id, ok, err := caller(c)
	if !ok {
		return err
	}
	out, err := h.uc.ListActivities(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "count": len(out), "activities": out})
}

func (h *ActivityHandler) ListCalculations(c echo.Context) error {
	id, ok, err := caller(c)
	if !ok {
		return err
	}
	out, err := h.uc.ListCalculations(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "count": len(out), "calculations": out})
}

func logged(logID, msg string) map[string]any {
	return map[string]any{"success": true, "log_id": logID, "message": msg}
}
