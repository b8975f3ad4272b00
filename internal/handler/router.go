package handler

import (
	"log/slog"

	"juros-justos/internal/analytics"
	"juros-justos/internal/calculator"
	"juros-justos/internal/lead"
	"juros-justos/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Deps are the collaborators the HTTP surface is built from. Tracker,
// Health and Telegram may be nil.
type Deps struct {
	Calculator  *calculator.Calculator
	Leads       *lead.Service
	Tracker     analytics.Tracker
	Health      Pinger
	Telegram    UpdateHandler
	CORSOrigins []string
	Logger      *slog.Logger
}

func NewRouter(d Deps) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(logger))

	router.GET("/health", Health(d.Health))

	if d.Telegram != nil {
		router.POST("/telegram", middleware.LimitBody(middleware.MaxBodyBytes), TelegramWebhook(d.Telegram))
	}

	calc := NewCalculatorHandler(d.Calculator)
	ref := NewReferenceHandler(d.Calculator.Table())
	leads := NewLeadHandler(d.Leads, d.Tracker)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.CORS(d.CORSOrigins), middleware.LimitBody(middleware.MaxBodyBytes))
	{
		v1.OPTIONS("/*path", func(*gin.Context) {})
		v1.GET("/tipos-credito", ref.CreditTypes)
		v1.GET("/periodos", ref.Periods)
		v1.GET("/taxas", ref.Rates)
		v1.POST("/calculadora", calc.Calculate)
		v1.POST("/consultoria/aberta", leads.CaptureOpened)
		v1.POST("/leads", leads.Submit)
	}
	return router
}
