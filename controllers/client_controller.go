package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gonzalofarias/distribuidora-api/config"
	"github.com/gonzalofarias/distribuidora-api/models"
	"github.com/gonzalofarias/distribuidora-api/services"
)

// ListClients handles GET /api/clients
func ListClients(c *gin.Context) {
	db := config.GetDB()
	var clients []models.Client
	if err := db.Order("clicod").Find(&clients).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list clients")
		return
	}
	respondData(c, http.StatusOK, clients)
}

// GetClient handles GET /api/clients/:id
func GetClient(c *gin.Context) {
	db := config.GetDB()
	var client models.Client
	if err := db.First(&client, "clicod = ?", c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Client not found")
		return
	}
	respondData(c, http.StatusOK, client)
}

// CreateClient handles POST /api/clients
func CreateClient(c *gin.Context) {
	var client models.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		respondValidationError(c, err)
		return
	}
	if client.CliCod == "" {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "clicod is required")
		return
	}

	db := config.GetDB()
	if err := db.Create(&client).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err))
		return
	}
	respondData(c, http.StatusCreated, client)
}

// UpdateClient handles PATCH /api/clients/:id - fully replaces the
// writable fields
func UpdateClient(c *gin.Context) {
	db := config.GetDB()
	var client models.Client
	if err := db.First(&client, "clicod = ?", c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Client not found")
		return
	}

	var input models.Client
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}

	updates := map[string]interface{}{
		"clicodbit": input.CliCodBit,
		"clinom":    input.CliNom,
		"clirazsoc": input.CliRazSoc,
		"cliruc":    input.CliRuc,
		"clidir":    input.CliDir,
		"cliest":    input.CliEst,
	}
	if err := db.Model(&client).Updates(updates).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err))
		return
	}
	respondData(c, http.StatusOK, client)
}

// DeleteClient handles DELETE /api/clients/:id
func DeleteClient(c *gin.Context) {
	db := config.GetDB()
	result := db.Delete(&models.Client{}, "clicod = ?", c.Param("id"))
	if result.Error != nil {
		respondServiceError(c, services.TranslateDBError(result.Error))
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Client not found")
		return
	}
	respondData(c, http.StatusOK, gin.H{"deleted": result.RowsAffected})
}

// FetchClients handles POST /api/clients/fetch - pulls clients from the
// vendor ERP and reconciles them into the local table
func FetchClients(c *gin.Context) {
	svc := services.NewSyncService(config.GetDB(), services.GetZetaFetcher())
	count, err := svc.SyncClients()
	if err != nil {
		respondError(c, http.StatusBadGateway, "SYNC_ERROR", err.Error())
		return
	}
	respondData(c, http.StatusOK, gin.H{"synced": count})
}
