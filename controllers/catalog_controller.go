package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gonzalofarias/distribuidora-api/config"
	"github.com/gonzalofarias/distribuidora-api/models"
	"github.com/gonzalofarias/distribuidora-api/services"
)

// Reference-data endpoints. These tables are small and change rarely, so
// the handlers hit the database directly.

// ListCurrencies handles GET /api/currencies
func ListCurrencies(c *gin.Context) {
	var currencies []models.Currency
	if err := config.GetDB().Order("moncod").Find(&currencies).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list currencies")
		return
	}
	respondData(c, http.StatusOK, currencies)
}

// CreateCurrency handles POST /api/currencies
func CreateCurrency(c *gin.Context) {
	var currency models.Currency
	if err := c.ShouldBindJSON(&currency); err != nil {
		respondValidationError(c, err)
		return
	}
	if err := config.GetDB().Create(&currency).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err))
		return
	}
	respondData(c, http.StatusCreated, currency)
}

// ListPaymentMethods handles GET /api/payment-methods
func ListPaymentMethods(c *gin.Context) {
	var payments []models.PaymentMethod
	if err := config.GetDB().Order("pagocod").Find(&payments).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list payment methods")
		return
	}
	respondData(c, http.StatusOK, payments)
}

// CreatePaymentMethod handles POST /api/payment-methods
func CreatePaymentMethod(c *gin.Context) {
	var payment models.PaymentMethod
	if err := c.ShouldBindJSON(&payment); err != nil {
		respondValidationError(c, err)
		return
	}
	if err := config.GetDB().Create(&payment).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err))
		return
	}
	respondData(c, http.StatusCreated, payment)
}

// ListOrderStates handles GET /api/order-states
func ListOrderStates(c *gin.Context) {
	var states []models.OrderState
	if err := config.GetDB().Order("estcod").Find(&states).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list order states")
		return
	}
	respondData(c, http.StatusOK, states)
}

// CreateOrderState handles POST /api/order-states
func CreateOrderState(c *gin.Context) {
	var state models.OrderState
	if err := c.ShouldBindJSON(&state); err != nil {
		respondValidationError(c, err)
		return
	}
	if err := config.GetDB().Create(&state).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err))
		return
	}
	respondData(c, http.StatusCreated, state)
}

// ListProductTypes handles GET /api/product-types
func ListProductTypes(c *gin.Context) {
	var types []models.ProductType
	if err := config.GetDB().Order("tipprodcod").Find(&types).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list product types")
		return
	}
	respondData(c, http.StatusOK, types)
}

// CreateProductType handles POST /api/product-types
func CreateProductType(c *gin.Context) {
	var productType models.ProductType
	if err := c.ShouldBindJSON(&productType); err != nil {
		respondValidationError(c, err)
		return
	}
	if productType.TipProdCod == "" {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "tipprodcod is required")
		return
	}
	if err := config.GetDB().Create(&productType).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err))
		return
	}
	respondData(c, http.StatusCreated, productType)
}

// ListSalespeople handles GET /api/salespeople
func ListSalespeople(c *gin.Context) {
	var salespeople []models.Salesperson
	if err := config.GetDB().Order("vendcod").Find(&salespeople).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list salespeople")
		return
	}
	respondData(c, http.StatusOK, salespeople)
}

// CreateSalesperson handles POST /api/salespeople
func CreateSalesperson(c *gin.Context) {
	var salesperson models.Salesperson
	if err := c.ShouldBindJSON(&salesperson); err != nil {
		respondValidationError(c, err)
		return
	}
	if salesperson.VendCod == "" {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "vendcod is required")
		return
	}
	if err := config.GetDB().Create(&salesperson).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err))
		return
	}
	respondData(c, http.StatusCreated, salesperson)
}
