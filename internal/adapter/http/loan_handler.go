package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"loanrisk-backend/internal/usecase/loan"
)

type LoanHandler struct {
	uc  *loan.Usecase
	log *zap.Logger
}

func NewLoanHandler(uc *loan.Usecase, log *zap.Logger) *LoanHandler {
	return &LoanHandler{uc: uc, log: log}
}

type createLoanReq struct {
	Amount      float64 `json:"amount"       validate:"gt=0"`
	Income      float64 `json:"income"       validate:"gt=0"`
	CreditScore int     `json:"credit_score" validate:"gte=300,lte=850"`
	TermMonths  int     `json:"term_months"  validate:"gte=6,lte=360"`
}

type loanIDReq struct {
	LoanID string `param:"loan_id" json:"-" validate:"required,hex32"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	id, ok, err := caller(c)
	if !ok {
		return err
	}
	var req createLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), id, loan.CreateLoanInput(req))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	id, ok, err := caller(c)
	if !ok {
		return err
	}
	var req loanIDReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Get(c.Request().Context(), id, req.LoanID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ListMine(c echo.Context) error {
	id, ok, err := caller(c)
	if !ok {
		return err
	}
	out, err := h.uc.ListMine(c.Request().Context(), id, c.QueryParam("status_filter"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) ListPending(c echo.Context) error {
	out, err := h.uc.ListPending(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) ListAll(c echo.Context) error {
	out, err := h.uc.ListAll(c.Request().Context(), c.QueryParam("status_filter"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}
