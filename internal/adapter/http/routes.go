package http

import "github.com/labstack/echo/v4"

type Routes struct {
	Core      *Handler
	Assets    *AssetHandler
	Loans     *LoanHandler
	Borrowers *BorrowerHandler
}

func (r Routes) Register(e *echo.Echo) {
	e.GET("/health", r.Core.Health)

	e.GET("/admin/status", r.Core.Status)
	e.POST("/admin/emergency-stop", r.Core.ToggleEmergencyStop)

	e.GET("/assets", r.Assets.ListAssets)
	e.POST("/assets", r.Assets.AddAsset)
	e.GET("/assets/:symbol", r.Assets.GetAsset)
	e.DELETE("/assets/:symbol", r.Assets.RemoveAsset)
	e.GET("/assets/:symbol/price", r.Assets.GetPrice)
	e.PUT("/assets/:symbol/price", r.Assets.UpdatePrice)

	e.POST("/loans", r.Loans.CreateLoan)
	e.GET("/loans/:loan_id", r.Loans.GetLoan)
	e.POST("/loans/:loan_id/activate", r.Loans.ActivateLoan)
	e.POST("/loans/:loan_id/repay", r.Loans.RepayLoan)
	e.POST("/loans/:loan_id/liquidate", r.Loans.LiquidateLoan)
	e.GET("/loans/:loan_id/liquidation", r.Loans.CheckLiquidation)

	e.GET("/borrowers/:principal/loans", r.Borrowers.Loans)
	e.GET("/borrowers/:principal/reputation", r.Borrowers.Reputation)
}
