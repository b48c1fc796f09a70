package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gonzalofarias/distribuidora-api/config"
	"github.com/gonzalofarias/distribuidora-api/models"
	"github.com/gonzalofarias/distribuidora-api/services"
	"golang.org/x/crypto/bcrypt"
)

// ListUsers handles GET /api/users
func ListUsers(c *gin.Context) {
	var users []models.User
	if err := config.GetDB().Order("usucod").Find(&users).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list users")
		return
	}
	respondData(c, http.StatusOK, users)
}

// GetUser handles GET /api/users/:id
func GetUser(c *gin.Context) {
	usuCod, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "User id must be an integer")
		return
	}

	var user models.User
	if err := config.GetDB().First(&user, "usucod = ?", usuCod).Error; err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}
	respondData(c, http.StatusOK, user)
}

// UpdateUserRequest carries the writable user fields; the password is
// optional and re-hashed when present
type UpdateUserRequest struct {
	UsuNom    string  `json:"usunom" binding:"required"`
	UsuCla    *string `json:"usucla"`
	TipUsuCod *int    `json:"tipusucod"`
}

// UpdateUser handles PATCH /api/users/:id
func UpdateUser(c *gin.Context) {
	usuCod, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "User id must be an integer")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, "usucod = ?", usuCod).Error; err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}

	updates := map[string]interface{}{
		"usunom":    req.UsuNom,
		"tipusucod": req.TipUsuCod,
	}
	if req.UsuCla != nil && *req.UsuCla != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.UsuCla), bcrypt.DefaultCost)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to hash password")
			return
		}
		updates["usucla"] = string(hash)
	}

	if err := db.Model(&user).Updates(updates).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err))
		return
	}
	respondData(c, http.StatusOK, user)
}

// DeleteUser handles DELETE /api/users/:id
func DeleteUser(c *gin.Context) {
	usuCod, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "User id must be an integer")
		return
	}

	result := config.GetDB().Delete(&models.User{}, "usucod = ?", usuCod)
	if result.Error != nil {
		respondServiceError(c, services.TranslateDBError(result.Error))
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}
	respondData(c, http.StatusOK, gin.H{"deleted": usuCod})
}

// ListUserTypes handles GET /api/user-types
func ListUserTypes(c *gin.Context) {
	var types []models.UserType
	if err := config.GetDB().Order("tipusucod").Find(&types).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list user types")
		return
	}
	respondData(c, http.StatusOK, types)
}
