package http

import (
	"net/http"

	"microlending/internal/usecase/loan"
	"microlending/internal/usecase/protocol"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct {
	base
	uc *loan.Usecase
}

func NewLoanHandler(ops Submitter, heights HeightSource, uc *loan.Usecase) *LoanHandler {
	return &LoanHandler{base: base{ops: ops, heights: heights}, uc: uc}
}

type repayReq struct {
	Amount uint64 `json:"amount" validate:"required,gt=0"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req loan.CreateInput
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	return h.submit(c, http.StatusCreated, protocol.CreateLoanRequest(req))
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	id, ok := loanIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id path param"})
	}
	l, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *LoanHandler) ActivateLoan(c echo.Context) error {
	id, ok := loanIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id path param"})
	}
	return h.submit(c, http.StatusOK, protocol.ActivateLoan{LoanID: id})
}

func (h *LoanHandler) RepayLoan(c echo.Context) error {
	id, ok := loanIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id path param"})
	}
	var req repayReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	return h.submit(c, http.StatusOK, protocol.Repay{LoanID: id, Amount: req.Amount})
}

func (h *LoanHandler) LiquidateLoan(c echo.Context) error {
	id, ok := loanIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id path param"})
	}
	return h.submit(c, http.StatusOK, protocol.LiquidateLoan{LoanID: id})
}

// CheckLiquidation evaluates both triggers at the current height without changing anything.
func (h *LoanHandler) CheckLiquidation(c echo.Context) error {
	id, ok := loanIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id path param"})
	}
	call, err := h.call(c)
	if err != nil {
		return writeError(c, err)
	}
	v, err := h.uc.CheckLiquidation(c.Request().Context(), id, call.Height)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"verdict":      v,
		"liquidatable": v.Liquidatable(),
	})
}
