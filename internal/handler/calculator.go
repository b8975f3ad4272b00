package handler

import (
	"log/slog"
	"net/http"

	"juros-justos/internal/calculator"

	"github.com/gin-gonic/gin"
)

type CalculatorHandler struct {
	calc *calculator.Calculator
}

func NewCalculatorHandler(calc *calculator.Calculator) *CalculatorHandler {
	return &CalculatorHandler{calc: calc}
}

// Calculate godoc
// @Summary Classify a contracted monthly rate
// @Accept json
// @Produce json
// @Param request body calculator.Input true "Calculator fields"
// @Success 200 {object} CalculateResponse
// @Failure 400 {object} ErrorsResponse
// @Failure 404 {object} ErrorsResponse
// @Router /api/v1/calculadora [post]
func (h *CalculatorHandler) Calculate(c *gin.Context) {
	var in calculator.Input
	if !bindBody(c, &in) {
		return
	}

	result, err := h.calc.Calculate(c.Request.Context(), in)
	if err != nil {
		errs, known := calculator.ErrorsOf(err)
		switch {
		case !known:
			slog.Error("Calculate failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		case errs.General != "":
			c.JSON(http.StatusNotFound, ErrorsResponse{Errors: errs})
		default:
			c.JSON(http.StatusBadRequest, ErrorsResponse{Errors: errs})
		}
		return
	}

	c.JSON(http.StatusOK, CalculateResponse{Result: result, CTALabel: ctaLabel(result)})
}

func ctaLabel(r *calculator.Result) string {
	if r.ShowCTA {
		return calculator.CTALabel
	}
	return ""
}

// === DTO ===

type CalculateResponse struct {
	Result   *calculator.Result `json:"resultado"`
	CTALabel string             `json:"rotulo_cta,omitempty"`
}

type ErrorsResponse struct {
	Errors any `json:"errors"`
}
