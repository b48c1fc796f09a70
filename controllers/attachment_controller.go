package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gonzalofarias/distribuidora-api/config"
	"github.com/gonzalofarias/distribuidora-api/models"
	"github.com/gonzalofarias/distribuidora-api/services"
	"github.com/gonzalofarias/distribuidora-api/utils"
)

// orderFromParam resolves the :id parameter to an existing order
func orderFromParam(c *gin.Context) (*models.Order, bool) {
	ordCod, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Order id must be an integer")
		return nil, false
	}
	var order models.Order
	if err := config.GetDB().First(&order, "ordcod = ?", ordCod).Error; err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Order not found")
		return nil, false
	}
	return &order, true
}

// UploadOrderFile handles POST /api/orders/:id/files - attaches a file to
// an order
func UploadOrderFile(c *gin.Context) {
	order, ok := orderFromParam(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "No file provided")
		return
	}

	if err := utils.ValidateAttachmentFile(fileHeader); err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			respondError(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message)
			return
		}
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	key, err := services.GetStorageService().UploadOrderFile(order.OrdCod, fileHeader)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to upload file")
		return
	}
	respondData(c, http.StatusCreated, gin.H{"key": key})
}

// ListOrderFiles handles GET /api/orders/:id/files
func ListOrderFiles(c *gin.Context) {
	order, ok := orderFromParam(c)
	if !ok {
		return
	}

	files, err := services.GetStorageService().ListOrderFiles(order.OrdCod)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to list files")
		return
	}
	respondData(c, http.StatusOK, files)
}

// GetFileURL handles GET /api/files/url?key=... - returns a presigned
// download URL for an attachment
func GetFileURL(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "key is required")
		return
	}

	url, err := services.GetStorageService().GetPresignedURL(key)
	if err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "File not found")
		return
	}
	respondData(c, http.StatusOK, gin.H{"url": url})
}

// DeleteFileRequest carries the key of the attachment to delete
type DeleteFileRequest struct {
	Key string `json:"key" binding:"required"`
}

// DeleteFile handles POST /api/files/delete
func DeleteFile(c *gin.Context) {
	var req DeleteFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	if err := services.GetStorageService().DeleteFile(req.Key); err != nil {
		respondError(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to delete file")
		return
	}
	respondData(c, http.StatusOK, gin.H{"deleted": req.Key})
}

// DeleteOrderFiles handles DELETE /api/orders/:id/files - removes every
// attachment of an order
func DeleteOrderFiles(c *gin.Context) {
	order, ok := orderFromParam(c)
	if !ok {
		return
	}

	if err := services.GetStorageService().DeleteOrderFiles(order.OrdCod); err != nil {
		respondError(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to delete files")
		return
	}
	respondData(c, http.StatusOK, gin.H{"ordcod": order.OrdCod})
}
