// Package router wires the analysis service routes.
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/venturescout/venturescout/internal/scout/handler"
)

// Register registers all analysis service routes onto the engine.
func Register(engine *gin.Engine, analysisHandler *handler.AnalysisHandler) {
	logger.Info("Registering analysis routes...")

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "operational",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	v1 := engine.Group("/v1")
	{
		analysis := v1.Group("/analysis")
		{
			analysis.POST("", analysisHandler.Analyze)
			analysis.GET("/:id", analysisHandler.Get)
		}
		v1.GET("/stats", analysisHandler.Stats)
	}

	logger.Info("HTTP routes registered")
}
