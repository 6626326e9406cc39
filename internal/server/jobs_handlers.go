package server

import (
	"net/http"
	"strconv"
	"time"

	"trialbook/internal/model"

	"github.com/gin-gonic/gin"
)

// JobResponse represents the response for job operations
type JobResponse struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Status    string            `json:"status"`
	Progress  int               `json:"progress"`
	TokenID   string            `json:"tokenId"`
	ReportID  string            `json:"reportId,omitempty"`
	CreatedAt string            `json:"createdAt"`
	UpdatedAt string            `json:"updatedAt"`
	Results   []model.JobResult `json:"results"`
	ErrorList []string          `json:"errorList,omitempty"`
	Metrics   model.JobMetrics  `json:"metrics"`
}

// GetJobHandler returns a specific job by ID
func (s *Server) GetJobHandler(c *gin.Context) {
	jobID := c.Param("id")

	job, err := s.jc.GetJob(c.Request.Context(), jobID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Failed to get job: " + err.Error()})
		return
	}

	response := convertJobToResponse(job)
	c.JSON(http.StatusOK, response)
}

// ListJobsHandler returns jobs newest first, optionally filtered by a
// ?status= query with pagination.
func (s *Server) ListJobsHandler(c *gin.Context) {
	var jobs []model.Job
	var total int64
	var err error

	if statusStr := c.Query("status"); statusStr != "" {
		status, ok := parseJobStatus(statusStr)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown job status: " + statusStr})
			return
		}
		limit, offset := getPaginationParams(c)
		jobs, total, err = s.jc.ListJobsByStatus(c.Request.Context(), status, int64(limit), int64(offset))
	} else {
		jobs, err = s.jc.ListJobs(c.Request.Context())
		total = int64(len(jobs))
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list jobs: " + err.Error()})
		return
	}

	response := make([]JobResponse, 0, len(jobs))
	for i := range jobs {
		response = append(response, convertJobToResponse(&jobs[i]))
	}

	c.JSON(http.StatusOK, gin.H{"jobs": response, "total": total})
}

func parseJobStatus(value string) (model.JobStatus, bool) {
	switch status := model.JobStatus(value); status {
	case model.StatusQueued, model.StatusProcessing, model.StatusCompleted,
		model.StatusFailed, model.StatusCancelled:
		return status, true
	default:
		return "", false
	}
}

// CancelJobHandler cancels the active job of one type
func (s *Server) CancelJobHandler(c *gin.Context) {
	jobType := c.Param("type")

	if err := s.jc.CancelJob(jobType); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to cancel job: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job cancelled"})
}

func (s *Server) ListAllAvailableJobTypes(c *gin.Context) {
	c.JSON(http.StatusOK, s.jc.GetAvailableJobTypes())
}

// Helper functions

// convertJobToResponse converts a job model to a response format
func convertJobToResponse(job *model.Job) JobResponse {
	response := JobResponse{
		ID:        job.ID.Hex(),
		Type:      job.Type,
		Status:    string(job.Status),
		Progress:  job.Progress,
		TokenID:   job.TokenID,
		CreatedAt: job.CreatedAt.Format(time.RFC3339),
		UpdatedAt: job.UpdatedAt.Format(time.RFC3339),
		Results:   job.Results,
		ErrorList: job.ErrorList,
		Metrics:   job.Metrics,
	}
	if job.ReportID != nil {
		response.ReportID = job.ReportID.Hex()
	}
	return response
}

// getPaginationParams extracts pagination parameters from request
func getPaginationParams(c *gin.Context) (int, int) {
	// Default values
	limit := 20
	offset := 0

	// Parse limit parameter if provided
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	// Parse offset parameter if provided
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if parsedOffset, err := strconv.Atoi(offsetStr); err == nil && parsedOffset >= 0 {
			offset = parsedOffset
		}
	}

	return limit, offset
}

// getTokenID gets the ID of the verified token stored by the auth middleware
func getTokenID(c *gin.Context) string {
	value, exists := c.Get("token")
	if !exists {
		return ""
	}

	token, ok := value.(*model.APIToken)
	if !ok {
		return ""
	}
	return token.ID.Hex()
}
