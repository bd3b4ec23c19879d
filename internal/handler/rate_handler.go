package handler

import (
	"net/http"

	"shoptobd/internal/middleware"
	"shoptobd/internal/security"
	"shoptobd/internal/service"
	"shoptobd/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RateHandler struct {
	rateService service.RateService
	tokens      security.TokenIssuer
	errorWriter
}

func NewRateHandler(rateService service.RateService, tokens security.TokenIssuer, logger *zap.Logger) *RateHandler {
	return &RateHandler{
		rateService: rateService,
		tokens:      tokens,
		errorWriter: errorWriter{logger: logger},
	}
}

type RatesResponse struct {
	USDToBDTRate   string `json:"usd_to_bdt_rate"`
	TaxRatePercent string `json:"tax_rate_percent"`
}

func (h *RateHandler) RegisterRoutes(router *gin.RouterGroup) {
	rates := router.Group("/api/rates")
	rates.Use(middleware.RequireRole(h.tokens))
	{
		rates.GET("", h.GetRates)
	}
}

// GetRates returns the exchange and tax rate new orders are priced with
// @Summary      Current rates
// @Tags         rates
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=handler.RatesResponse}
// @Failure      503  {object}  response.Response
// @Router       /api/rates [get]
func (h *RateHandler) GetRates(c *gin.Context) {
	rates, err := h.rateService.GetRates(c.Request.Context())
	if err != nil {
		h.write(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Rates retrieved", RatesResponse{
		USDToBDTRate:   rates.ExchangeRate.StringFixed(4),
		TaxRatePercent: rates.TaxRatePercent.StringFixed(2),
	}))
}
