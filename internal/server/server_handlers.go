package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) readyHandler(c *gin.Context) {
	dbErr := s.sc.DBHealth()
	cacheErr := s.sc.CacheHealth()
	rabbitErr := s.sc.RabbitHealth()
	iconErr := s.sc.IconStoreHealth()

	res := gin.H{
		"database":   dbErr == nil,
		"cache":      cacheErr == nil,
		"rabbit":     rabbitErr == nil,
		"icon_store": iconErr == nil,
	}

	if dbErr != nil || cacheErr != nil {
		c.JSON(http.StatusServiceUnavailable, res)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (s *Server) onlineHandler(c *gin.Context) {
	online := s.sc.Online()

	c.String(http.StatusOK, online)
}

func (s *Server) overviewHandler(c *gin.Context) {
	overview, err := s.sc.GetOverview(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load overview: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, overview)
}
