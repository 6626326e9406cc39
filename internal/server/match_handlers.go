package server

import (
	"net/http"
	"time"

	"trialbook/internal/database"
	"trialbook/internal/model"
	"trialbook/internal/orchestrator/worker"

	"github.com/gin-gonic/gin"
)

func (s *Server) logKillerMatchHandler(c *gin.Context) {
	var match model.KillerMatch
	if err := c.ShouldBindJSON(&match); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logged, err := s.mc.LogKillerMatch(c.Request.Context(), &match)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to log match: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, logged)
}

func (s *Server) logSurvivorMatchHandler(c *gin.Context) {
	var match model.SurvivorMatch
	if err := c.ShouldBindJSON(&match); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logged, err := s.mc.LogSurvivorMatch(c.Request.Context(), &match)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to log match: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, logged)
}

// matchFilterFromQuery builds a listing filter from query parameters.
func matchFilterFromQuery(c *gin.Context) database.MatchFilter {
	limit, offset := getPaginationParams(c)

	filter := database.MatchFilter{
		MapName:   c.Query("map"),
		RealmName: c.Query("realm"),
		Limit:     int64(limit),
		Offset:    int64(offset),
	}

	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.From = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.To = &t
		}
	}

	return filter
}

func (s *Server) listKillerMatchesHandler(c *gin.Context) {
	matches, err := s.mc.ListKillerMatches(c.Request.Context(), matchFilterFromQuery(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list matches: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, matches)
}

func (s *Server) listSurvivorMatchesHandler(c *gin.Context) {
	matches, err := s.mc.ListSurvivorMatches(c.Request.Context(), matchFilterFromQuery(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list matches: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, matches)
}

func (s *Server) getKillerMatchHandler(c *gin.Context) {
	match, err := s.mc.GetKillerMatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Match not found: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, match)
}

func (s *Server) getSurvivorMatchHandler(c *gin.Context) {
	match, err := s.mc.GetSurvivorMatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Match not found: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, match)
}

func (s *Server) deleteKillerMatchHandler(c *gin.Context) {
	if err := s.mc.DeleteKillerMatch(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to delete match: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Match deleted"})
}

func (s *Server) deleteSurvivorMatchHandler(c *gin.Context) {
	if err := s.mc.DeleteSurvivorMatch(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to delete match: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Match deleted"})
}

// importMatchesHandler enqueues a bulk import job. Heavy imports run in the
// background so the request returns as soon as the job is queued.
func (s *Server) importMatchesHandler(c *gin.Context) {
	var payload model.MatchImportPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(payload.KillerMatches) == 0 && len(payload.SurvivorMatches) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Import payload contains no matches"})
		return
	}

	tokenID := getTokenID(c)
	if tokenID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token ID not found"})
		return
	}

	job, err := s.jc.CreateJob(c.Request.Context(), worker.IMPORT_MATCHES_TYPE, payload, tokenID)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Failed to start import: " + err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, convertJobToResponse(job))
}
