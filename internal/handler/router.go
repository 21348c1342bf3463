package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"slotbook/internal/handler/api"
	"slotbook/internal/handler/middleware"
	"slotbook/internal/pkg/config"
	"slotbook/internal/worker"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	availabilityHandler *api.AvailabilityHandler,
	holdHandler *api.HoldHandler,
	bookingHandler *api.BookingHandler,
	webhookHandler *api.WebhookHandler,
	reaper *worker.Reaper,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, availabilityHandler, holdHandler, bookingHandler, webhookHandler, reaper)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	availabilityHandler *api.AvailabilityHandler,
	holdHandler *api.HoldHandler,
	bookingHandler *api.BookingHandler,
	webhookHandler *api.WebhookHandler,
	reaper *worker.Reaper,
) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/professionals/:id/availability", Handler: availabilityHandler.ListSlots},

			{Method: http.MethodPost, Path: "/holds", Handler: holdHandler.CreateHold},
			{Method: http.MethodDelete, Path: "/holds/:id", Handler: holdHandler.ReleaseHold},
			{Method: http.MethodPost, Path: "/holds/:id/checkout", Handler: holdHandler.Checkout},

			{Method: http.MethodGet, Path: "/bookings/:id", Handler: bookingHandler.GetBooking},
			{Method: http.MethodPost, Path: "/bookings/:id/cancel", Handler: bookingHandler.CancelBooking},

			{Method: http.MethodPost, Path: "/webhooks/payments", Handler: webhookHandler.HandlePaymentEvent},
		})

		admin := apiGroup.Group("/admin")
		{
			admin.POST("/holds/sweep", func(c *gin.Context) {
				released := reaper.Sweep(c.Request.Context())
				c.JSON(http.StatusOK, gin.H{"released": released})
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, r.Handler)
		case http.MethodPost:
			g.POST(r.Path, r.Handler)
		case http.MethodPut:
			g.PUT(r.Path, r.Handler)
		case http.MethodPatch:
			g.PATCH(r.Path, r.Handler)
		case http.MethodDelete:
			g.DELETE(r.Path, r.Handler)
		default:
			g.Any(r.Path, r.Handler)
		}
	}
}
