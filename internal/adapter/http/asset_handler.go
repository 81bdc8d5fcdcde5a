package http

import (
	"net/http"

	"microlending/internal/usecase/oracle"
	"microlending/internal/usecase/protocol"
	"microlending/internal/usecase/registry"

	"github.com/labstack/echo/v4"
)

type AssetHandler struct {
	base
	assets *registry.Usecase
	oracle *oracle.Usecase
}

func NewAssetHandler(ops Submitter, heights HeightSource, assets *registry.Usecase, px *oracle.Usecase) *AssetHandler {
	return &AssetHandler{base: base{ops: ops, heights: heights}, assets: assets, oracle: px}
}

type addAssetReq struct {
	Symbol string `json:"symbol" validate:"required,symbol"`
}

type updatePriceReq struct {
	Price uint64 `json:"price" validate:"required,gt=0"` // micro-USD
}

func (h *AssetHandler) AddAsset(c echo.Context) error {
	var req addAssetReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	return h.submit(c, http.StatusOK, protocol.AddCollateralAsset{Symbol: req.Symbol})
}

func (h *AssetHandler) RemoveAsset(c echo.Context) error {
	return h.submit(c, http.StatusOK, protocol.RemoveCollateralAsset{Symbol: c.Param("symbol")})
}

func (h *AssetHandler) GetAsset(c echo.Context) error {
	a, err := h.assets.Get(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *AssetHandler) ListAssets(c echo.Context) error {
	as, err := h.assets.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, as)
}

func (h *AssetHandler) UpdatePrice(c echo.Context) error {
	var req updatePriceReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	return h.submit(c, http.StatusOK, protocol.UpdateAssetPrice{Symbol: c.Param("symbol"), Price: req.Price})
}

func (h *AssetHandler) GetPrice(c echo.Context) error {
	p, err := h.oracle.GetPrice(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
