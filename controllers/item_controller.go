package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gonzalofarias/distribuidora-api/config"
	"github.com/gonzalofarias/distribuidora-api/services"
)

// ListItems handles GET /api/items - optionally filtered by ?prodcod=
func ListItems(c *gin.Context) {
	svc := services.NewItemService(config.GetDB())
	items, err := svc.ListItems(c.Query("prodcod"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, items)
}

// GetItem handles GET /api/items/:id
func GetItem(c *gin.Context) {
	itemCod, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Item id must be an integer")
		return
	}

	svc := services.NewItemService(config.GetDB())
	item, err := svc.GetItem(itemCod)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, item)
}

// CreateItem handles POST /api/items
func CreateItem(c *gin.Context) {
	var input services.StandaloneItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}

	svc := services.NewItemService(config.GetDB())
	item, err := svc.CreateItem(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, item)
}

// UpdateItem handles PATCH /api/items/:id
func UpdateItem(c *gin.Context) {
	itemCod, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Item id must be an integer")
		return
	}

	var input services.StandaloneItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}

	svc := services.NewItemService(config.GetDB())
	item, err := svc.UpdateItem(itemCod, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, item)
}

// DeleteItem handles DELETE /api/items/:id
func DeleteItem(c *gin.Context) {
	itemCod, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Item id must be an integer")
		return
	}

	svc := services.NewItemService(config.GetDB())
	if err := svc.DeleteItem(itemCod); err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"deleted": itemCod})
}
