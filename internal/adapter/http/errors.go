package http

import (
	"context"
	"errors"
	"net/http"

	"microlending/internal/domain/apperr"
	"microlending/internal/usecase/protocol"

	"github.com/labstack/echo/v4"
)

var errHeightUnavailable = errors.New("chain height unavailable")

var kindStatus = map[apperr.Kind]int{
	apperr.KindNotAuthorized:          http.StatusForbidden,
	apperr.KindAssetNotFound:          http.StatusNotFound,
	apperr.KindLoanNotFound:           http.StatusNotFound,
	apperr.KindInsufficientCollateral: http.StatusUnprocessableEntity,
	apperr.KindOverpayment:            http.StatusUnprocessableEntity,
	apperr.KindPriceStale:             http.StatusUnprocessableEntity,
	apperr.KindInvalidState:           http.StatusConflict,
	apperr.KindNotLiquidatable:        http.StatusConflict,
	apperr.KindAssetInUse:             http.StatusConflict,
	apperr.KindEmergencyStopActive:    http.StatusServiceUnavailable,
	apperr.KindInvalidArgument:        http.StatusBadRequest,
}

func statusOf(err error) int {
	if s, ok := kindStatus[apperr.KindOf(err)]; ok {
		return s
	}
	switch {
	case errors.Is(err, protocol.ErrSequencerStopped),
		errors.Is(err, errHeightUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeError renders protocol rejections with their kind and code. Infrastructure failures are not
// described to the client; echo's logger still records the status.
func writeError(c echo.Context, err error) error {
	status := statusOf(err)
	resp := ErrorResponse{Error: err.Error()}
	if k := apperr.KindOf(err); k != apperr.KindUnknown {
		resp.Kind = k.String()
		resp.Code = k.Code()
	} else if status == http.StatusInternalServerError {
		c.Logger().Error(err)
		resp.Error = "internal error"
	}
	return c.JSON(status, resp)
}

func invalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
}

func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Details: ToFieldErrors(err),
	})
}
