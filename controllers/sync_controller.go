package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gonzalofarias/distribuidora-api/config"
	"github.com/gonzalofarias/distribuidora-api/services"
)

// FetchData handles POST /api/sync - runs the client, supplier, and
// product pulls concurrently and reports each outcome independently
func FetchData(c *gin.Context) {
	svc := services.NewSyncService(config.GetDB(), services.GetZetaFetcher())
	report := svc.SyncAll()

	if !report.Clients.Success && !report.Suppliers.Success && !report.Products.Success {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SYNC_ERROR",
				"message": "All synchronizations failed",
			},
			"data": report,
		})
		return
	}
	respondData(c, http.StatusOK, report)
}
