package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gonzalofarias/distribuidora-api/config"
	"github.com/gonzalofarias/distribuidora-api/services"
)

// ListProducts handles GET /api/products
func ListProducts(c *gin.Context) {
	svc := services.NewProductService(config.GetDB())
	products, err := svc.ListProducts()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, products)
}

// GetProduct handles GET /api/products/:id - returns the product plus its
// components
func GetProduct(c *gin.Context) {
	svc := services.NewProductService(config.GetDB())
	product, components, err := svc.GetProduct(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"product":    product,
		"components": components,
	})
}

// CreateProduct handles POST /api/products
func CreateProduct(c *gin.Context) {
	var input services.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}

	svc := services.NewProductService(config.GetDB())
	product, err := svc.CreateProduct(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, product)
}

// UpdateProduct handles PATCH /api/products/:id
func UpdateProduct(c *gin.Context) {
	var input services.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}

	svc := services.NewProductService(config.GetDB())
	product, err := svc.UpdateProduct(c.Param("id"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, product)
}

// SetProductComponentsRequest carries the component codes to attach
type SetProductComponentsRequest struct {
	Components []string `json:"components" binding:"required"`
}

// SetProductComponents handles POST /api/products/:id/components - points
// the given products at this one as their parent
func SetProductComponents(c *gin.Context) {
	var req SetProductComponentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	svc := services.NewProductService(config.GetDB())
	if err := svc.SetComponents(c.Param("id"), req.Components); err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"parent": c.Param("id"), "components": req.Components})
}

// DeleteProduct handles DELETE /api/products/:id
func DeleteProduct(c *gin.Context) {
	svc := services.NewProductService(config.GetDB())
	if err := svc.DeleteProduct(c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// FetchProducts handles POST /api/products/fetch - pulls articles from the
// vendor ERP and reconciles products, product types, and suppliers
func FetchProducts(c *gin.Context) {
	svc := services.NewSyncService(config.GetDB(), services.GetZetaFetcher())
	count, err := svc.SyncProducts()
	if err != nil {
		respondError(c, http.StatusBadGateway, "SYNC_ERROR", err.Error())
		return
	}
	respondData(c, http.StatusOK, gin.H{"synced": count})
}
