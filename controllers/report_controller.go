package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gonzalofarias/distribuidora-api/config"
	"github.com/gonzalofarias/distribuidora-api/services"
)

// ClientReport handles POST /api/reports/client-report - one client's
// orders within a date range
func ClientReport(c *gin.Context) {
	var query services.ClientReportQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		respondValidationError(c, err)
		return
	}

	svc := services.NewReportService(config.GetDB())
	report, err := svc.ClientReport(query)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, report)
}

// SupplierReport handles POST /api/reports/supplier-report - orders in a
// date range carrying lines from one supplier
func SupplierReport(c *gin.Context) {
	var query services.SupplierReportQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		respondValidationError(c, err)
		return
	}

	svc := services.NewReportService(config.GetDB())
	report, err := svc.SupplierReport(query)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, report)
}

// DatesReport handles POST /api/reports/dates-report - every order in a
// date range with its lines
func DatesReport(c *gin.Context) {
	var query services.ReportQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		respondValidationError(c, err)
		return
	}

	svc := services.NewReportService(config.GetDB())
	report, err := svc.DatesReport(query)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, report)
}

// BrandReport handles POST /api/reports/brand-report - every order of one
// brand with its lines
func BrandReport(c *gin.Context) {
	var query services.BrandReportQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		respondValidationError(c, err)
		return
	}

	svc := services.NewReportService(config.GetDB())
	report, err := svc.BrandReport(query)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, report)
}

// BestSellingProductsReport handles POST /api/reports/best-selling-products-report
func BestSellingProductsReport(c *gin.Context) {
	var query services.ReportQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		respondValidationError(c, err)
		return
	}

	svc := services.NewReportService(config.GetDB())
	report, err := svc.BestSellingProducts(query)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, report)
}
