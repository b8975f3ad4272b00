package handler

import (
	"net/http"

	"juros-justos/internal/domain"
	"juros-justos/internal/rates"

	"github.com/gin-gonic/gin"
)

type ReferenceHandler struct {
	table *rates.Table
}

func NewReferenceHandler(table *rates.Table) *ReferenceHandler {
	return &ReferenceHandler{table: table}
}

// CreditTypes godoc
// @Summary List the credit products in display order
// @Success 200 {array} domain.CreditType
// @Router /api/v1/tipos-credito [get]
func (h *ReferenceHandler) CreditTypes(c *gin.Context) {
	c.JSON(http.StatusOK, h.table.CreditTypes())
}

// Periods godoc
// @Summary Years for the year select and, for one product, its periods
// @Param tipo_credito query string false "Credit type key"
// @Success 200 {object} PeriodsResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/periodos [get]
func (h *ReferenceHandler) Periods(c *gin.Context) {
	resp := PeriodsResponse{Years: h.table.Years(), Periods: []string{}}

	if creditType := c.Query("tipo_credito"); creditType != "" {
		if !h.table.Has(creditType) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown credit type"})
			return
		}
		resp.Periods = h.table.Periods(creditType)
	}
	c.JSON(http.StatusOK, resp)
}

// Rates godoc
// @Summary Reference thresholds for one product and period
// @Param tipo_credito query string true "Credit type key"
// @Param periodo query string true "Period in YYYY-MM format"
// @Success 200 {object} RatesResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/taxas [get]
func (h *ReferenceHandler) Rates(c *gin.Context) {
	var q RatesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query"})
		return
	}
	if err := validateStruct(q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	row, ok := h.table.Lookup(q.CreditType, q.Period)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dados não encontrados para o período selecionado"})
		return
	}
	label, _ := h.table.Label(q.CreditType)
	c.JSON(http.StatusOK, RatesResponse{
		CreditType: q.CreditType,
		Label:      label,
		Period:     q.Period,
		Row:        row,
	})
}

// === DTO ===

type PeriodsResponse struct {
	Years   []int    `json:"anos"`
	Periods []string `json:"periodos"`
}

type RatesQuery struct {
	CreditType string `form:"tipo_credito" validate:"required,notblank"`
	Period     string `form:"periodo" validate:"required,yearmonth"`
}

type RatesResponse struct {
	CreditType string         `json:"tipo_credito"`
	Label      string         `json:"rotulo"`
	Period     string         `json:"periodo"`
	Row        domain.RateRow `json:"dados"`
}
