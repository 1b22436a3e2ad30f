package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"idea-portfolio-api/config"
	"idea-portfolio-api/services"
)

// GET /api/v1/dashboard/pipeline
func GetPipelineDashboard(c *gin.Context) {
	summary, err := services.NewDashboardService(config.DB).Pipeline(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": summary})
}

// GET /api/v1/dashboard/portfolio
func GetPortfolioDashboard(c *gin.Context) {
	summary, err := services.NewDashboardService(config.DB).Portfolio(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": summary})
}
