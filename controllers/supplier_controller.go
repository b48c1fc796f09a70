package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gonzalofarias/distribuidora-api/config"
	"github.com/gonzalofarias/distribuidora-api/models"
	"github.com/gonzalofarias/distribuidora-api/services"
)

// ListSuppliers handles GET /api/suppliers
func ListSuppliers(c *gin.Context) {
	db := config.GetDB()
	var suppliers []models.Supplier
	if err := db.Order("provcod").Find(&suppliers).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list suppliers")
		return
	}
	respondData(c, http.StatusOK, suppliers)
}

// GetSupplier handles GET /api/suppliers/:id
func GetSupplier(c *gin.Context) {
	db := config.GetDB()
	var supplier models.Supplier
	if err := db.First(&supplier, "provcod = ?", c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Supplier not found")
		return
	}
	respondData(c, http.StatusOK, supplier)
}

// CreateSupplier handles POST /api/suppliers
func CreateSupplier(c *gin.Context) {
	var supplier models.Supplier
	if err := c.ShouldBindJSON(&supplier); err != nil {
		respondValidationError(c, err)
		return
	}
	if supplier.ProvCod == "" {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "provcod is required")
		return
	}

	db := config.GetDB()
	if err := db.Create(&supplier).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err))
		return
	}
	respondData(c, http.StatusCreated, supplier)
}

// UpdateSupplier handles PATCH /api/suppliers/:id
func UpdateSupplier(c *gin.Context) {
	db := config.GetDB()
	var supplier models.Supplier
	if err := db.First(&supplier, "provcod = ?", c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Supplier not found")
		return
	}

	var input models.Supplier
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}

	if err := db.Model(&supplier).Update("provnom", input.ProvNom).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err))
		return
	}
	respondData(c, http.StatusOK, supplier)
}

// DeleteSupplier handles DELETE /api/suppliers/:id
func DeleteSupplier(c *gin.Context) {
	db := config.GetDB()
	result := db.Delete(&models.Supplier{}, "provcod = ?", c.Param("id"))
	if result.Error != nil {
		respondServiceError(c, services.TranslateDBError(result.Error))
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Supplier not found")
		return
	}
	respondData(c, http.StatusOK, gin.H{"deleted": result.RowsAffected})
}

// FetchSuppliers handles POST /api/suppliers/fetch - pulls suppliers from
// the vendor ERP and reconciles them into the local table
func FetchSuppliers(c *gin.Context) {
	svc := services.NewSyncService(config.GetDB(), services.GetZetaFetcher())
	count, err := svc.SyncSuppliers()
	if err != nil {
		respondError(c, http.StatusBadGateway, "SYNC_ERROR", err.Error())
		return
	}
	respondData(c, http.StatusOK, gin.H{"synced": count})
}
