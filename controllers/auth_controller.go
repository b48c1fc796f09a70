package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gonzalofarias/distribuidora-api/config"
	"github.com/gonzalofarias/distribuidora-api/services"
)

// Signup handles POST /api/auth/signup - registers a user
func Signup(c *gin.Context) {
	var input services.SignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}

	svc := services.NewAuthService(config.GetDB(), config.GetConfig())
	user, err := svc.Signup(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, user)
}

// Login handles POST /api/auth/login - validates credentials and returns
// the access/refresh token pair
func Login(c *gin.Context) {
	var input services.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}

	svc := services.NewAuthService(config.GetDB(), config.GetConfig())
	user, tokens, err := svc.Login(input)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid username or password")
			return
		}
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// RefreshRequest carries the refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Refresh handles POST /api/auth/refresh - exchanges a refresh token for a
// fresh pair
func Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	svc := services.NewAuthService(config.GetDB(), config.GetConfig())
	tokens, err := svc.Refresh(req.RefreshToken)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid refresh token")
			return
		}
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, tokens)
}
