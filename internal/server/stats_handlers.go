package server

import (
	"errors"
	"net/http"

	"trialbook/internal/controller"

	"github.com/gin-gonic/gin"
)

// startCalculationHandler enqueues a statistics run. Only one runs at a
// time; a second request while one is active gets a conflict.
func (s *Server) startCalculationHandler(c *gin.Context) {
	tokenID := getTokenID(c)
	if tokenID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token ID not found"})
		return
	}

	job, err := s.stats.StartCalculation(c.Request.Context(), tokenID)
	if err != nil {
		if errors.Is(err, controller.ErrCalculationActive) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start calculation: " + err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, convertJobToResponse(job))
}

func (s *Server) listReportsHandler(c *gin.Context) {
	limit, offset := getPaginationParams(c)

	reports, err := s.stats.ListReports(c.Request.Context(), int64(limit), int64(offset))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reports: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, reports)
}

func (s *Server) latestReportHandler(c *gin.Context) {
	report, err := s.stats.GetLatestReport(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No report available: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (s *Server) getReportHandler(c *gin.Context) {
	report, err := s.stats.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (s *Server) latestChartsHandler(c *gin.Context) {
	charts, err := s.stats.GetLatestCharts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No charts available: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, charts)
}
