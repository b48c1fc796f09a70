package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gonzalofarias/distribuidora-api/config"
	"github.com/gonzalofarias/distribuidora-api/services"
)

// ListOrders handles GET /api/orders - lists non-cancelled orders with
// resolved names and profit figures
func ListOrders(c *gin.Context) {
	svc := services.NewOrderService(config.GetDB())
	orders, err := svc.ListOrders()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, orders)
}

// GetOrder handles GET /api/orders/order/:id - returns the full order detail
func GetOrder(c *gin.Context) {
	ordCod, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Order id must be an integer")
		return
	}

	svc := services.NewOrderService(config.GetDB())
	detail, err := svc.GetOrder(ordCod)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, detail)
}

// CreateOrder handles POST /api/orders/create - creates an order with its
// lines and items in one transaction
func CreateOrder(c *gin.Context) {
	var input services.OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}

	svc := services.NewOrderService(config.GetDB())
	result, err := svc.CreateOrder(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, result)
}

// UpdateOrder handles PATCH /api/orders/update/:id - fully replaces the
// order header and its line set
func UpdateOrder(c *gin.Context) {
	ordCod, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Order id must be an integer")
		return
	}

	var input services.OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}

	svc := services.NewOrderService(config.GetDB())
	result, err := svc.UpdateOrder(ordCod, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

// DeleteOrdersRequest carries the order keys to delete
type DeleteOrdersRequest struct {
	Orders []int `json:"orders" binding:"required,min=1"`
}

// DeleteOrders handles POST /api/orders/delete - removes orders together
// with their lines and items
func DeleteOrders(c *gin.Context) {
	var req DeleteOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	svc := services.NewOrderService(config.GetDB())
	deletedOrders, deletedLines, err := svc.DeleteOrders(req.Orders)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"deletedOrders": deletedOrders,
		"deletedLines":  deletedLines,
	})
}

// DuplicateOrderRequest carries the order key to duplicate
type DuplicateOrderRequest struct {
	OrdCod int `json:"ordcod" binding:"required"`
}

// DuplicateOrder handles POST /api/orders/duplicate - clones an order with
// its lines and items under fresh keys
func DuplicateOrder(c *gin.Context) {
	var req DuplicateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	svc := services.NewOrderService(config.GetDB())
	newOrdCod, err := svc.DuplicateOrder(req.OrdCod)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, gin.H{"ordcod": newOrdCod})
}
