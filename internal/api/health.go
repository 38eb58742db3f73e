package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"news_review/internal/connectivity"
)

func RegisterHealthRoutes(r *gin.Engine, network connectivity.Provider) {
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"reachable": network.IsReachable(),
		})
	})
}
