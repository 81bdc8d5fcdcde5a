package http

import (
	"net/http"

	"microlending/internal/domain/platform"
	"microlending/internal/usecase/loan"
	"microlending/internal/usecase/reputation"

	"github.com/labstack/echo/v4"
)

type BorrowerHandler struct {
	loans       *loan.Usecase
	reputations *reputation.Usecase
}

func NewBorrowerHandler(loans *loan.Usecase, reps *reputation.Usecase) *BorrowerHandler {
	return &BorrowerHandler{loans: loans, reputations: reps}
}

func principalParam(c echo.Context) (string, bool) {
	p := c.Param("principal")
	return p, platform.ValidPrincipal(p)
}

func (h *BorrowerHandler) Loans(c echo.Context) error {
	p, ok := principalParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid principal path param"})
	}
	out, err := h.loans.BorrowerLoans(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *BorrowerHandler) Reputation(c echo.Context) error {
	p, ok := principalParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid principal path param"})
	}
	rep, err := h.reputations.Get(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rep)
}
