package http

import (
	"net/http"

	"github.com/BalbekovAD/lipt-soft-small-bank/internal/pkg/logging"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(handler *LedgerHandler, metrics *Metrics, logger logging.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		NewRequestIDMiddleware(),
		NewLoggingMiddleware(logger),
		metrics.Middleware(),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})))

	api := router.Group("/api")
	{
		api.POST("/clients", handler.CreateClient)
		api.POST("/clients/:"+ClientIDKey+"/accounts", handler.CreateAccount)
		api.GET("/clients/:"+ClientIDKey+"/accounts", handler.ListAccounts)
		api.POST("/transfer", handler.Transfer)
	}

	return router
}
