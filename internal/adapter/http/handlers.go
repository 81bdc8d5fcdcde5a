package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"microlending/internal/adapter/middleware"
	"microlending/internal/domain/platform"
	"microlending/internal/usecase/admin"
	"microlending/internal/usecase/protocol"

	"github.com/labstack/echo/v4"
)

// Submitter queues an operation and waits for its result. *protocol.Sequencer satisfies it.
type Submitter interface {
	Submit(ctx context.Context, call platform.Call, op protocol.Operation) (protocol.Result, error)
}

// HeightSource reports the current chain height.
type HeightSource interface {
	Current(ctx context.Context) (uint64, error)
}

type base struct {
	ops     Submitter
	heights HeightSource
}

func (b base) call(c echo.Context) (platform.Call, error) {
	h, err := b.heights.Current(c.Request().Context())
	if err != nil {
		return platform.Call{}, fmt.Errorf("%w: %v", errHeightUnavailable, err)
	}
	return platform.Call{Caller: middleware.PrincipalFrom(c), Height: h}, nil
}

func (b base) submit(c echo.Context, status int, op protocol.Operation) error {
	call, err := b.call(c)
	if err != nil {
		return writeError(c, err)
	}
	res, err := b.ops.Submit(c.Request().Context(), call, op)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(status, res)
}

func loanIDParam(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("loan_id"), 10, 64)
	return id, err == nil && id > 0
}

type Handler struct {
	base
	admin *admin.Usecase
}

func NewHandler(ops Submitter, heights HeightSource, adm *admin.Usecase) *Handler {
	return &Handler{base: base{ops: ops, heights: heights}, admin: adm}
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

type statusResp struct {
	*platform.State
	Height uint64 `json:"height"`
}

func (h *Handler) Status(c echo.Context) error {
	call, err := h.call(c)
	if err != nil {
		return writeError(c, err)
	}
	st, err := h.admin.Status(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, statusResp{State: st, Height: call.Height})
}

func (h *Handler) ToggleEmergencyStop(c echo.Context) error {
	return h.submit(c, http.StatusOK, protocol.ToggleEmergencyStop{})
}
