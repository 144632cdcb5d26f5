package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skeinhq/skein/internal/core/model"
)

type IngestRequest struct {
	Results []model.ResultRow `json:"results"`
}

// IngestResults runs a batch of raw search rows through the ingest
// pipeline and reports the targets it produced.
func (s *Server) IngestResults(c *gin.Context) {
	caseID := c.Param("case_id")

	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if len(req.Results) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "results must not be empty"})
		return
	}

	result, err := s.Pipeline.IngestResults(c.Request.Context(), caseID, req.Results)
	if err != nil {
		s.Log.Error("ingest failed", "case_id", caseID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to ingest results"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// AnalyzeTarget scores one target against the rest of its case and
// persists the correlations found.
func (s *Server) AnalyzeTarget(c *gin.Context) {
	targetUUID := c.Param("id")

	count, err := s.Engine.RunAnalysis(c.Request.Context(), targetUUID)
	if err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "target not found"})
			return
		}
		s.Log.Error("analysis failed", "target_uuid", targetUUID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to run analysis"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"target_uuid":       targetUUID,
		"correlation_count": count,
	})
}

func (s *Server) ListTargetCorrelations(c *gin.Context) {
	targetUUID := c.Param("id")

	correlations, err := s.Store.ListForTarget(c.Request.Context(), targetUUID)
	if err != nil {
		s.Log.Error("failed to list correlations", "target_uuid", targetUUID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list correlations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"correlations": correlations})
}

type VerifyRequest struct {
	Verified *bool `json:"verified"`
}

// VerifyCorrelation sets or clears the reviewer-verified flag on a
// stored correlation.
func (s *Server) VerifyCorrelation(c *gin.Context) {
	correlationUUID := c.Param("id")

	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Verified == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "verified flag is required"})
		return
	}

	if err := s.Store.SetVerified(c.Request.Context(), correlationUUID, *req.Verified); err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "correlation not found"})
			return
		}
		s.Log.Error("failed to set verified", "correlation_uuid", correlationUUID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update correlation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"correlation_uuid": correlationUUID,
		"verified":         *req.Verified,
	})
}

// SummarizeTarget generates a narrative for one target from its
// collateral and stored correlations, and persists it on the target.
// Requires a configured LLM provider.
func (s *Server) SummarizeTarget(c *gin.Context) {
	if s.Summarizer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no llm provider configured"})
		return
	}

	targetUUID := c.Param("id")
	ctx := c.Request.Context()

	target, err := s.Store.GetTarget(ctx, targetUUID)
	if err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "target not found"})
			return
		}
		s.Log.Error("failed to load target", "target_uuid", targetUUID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load target"})
		return
	}

	correlations, err := s.Store.ListForTarget(ctx, targetUUID)
	if err != nil {
		s.Log.Error("failed to list correlations", "target_uuid", targetUUID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list correlations"})
		return
	}

	text, err := s.Summarizer.SummarizeTarget(ctx, *target, correlations)
	if err != nil {
		s.Log.Error("failed to summarize target", "target_uuid", targetUUID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate summary"})
		return
	}

	target.Summary = text
	if err := s.Store.SaveTarget(ctx, target); err != nil {
		s.Log.Error("failed to persist summary", "target_uuid", targetUUID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist summary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"target_uuid": targetUUID,
		"summary":     text,
	})
}

// ListNetworks clusters the case's targets through their stored
// correlations and returns each linked network.
func (s *Server) ListNetworks(c *gin.Context) {
	caseID := c.Param("case_id")

	networks, err := s.caseNetworks(c, caseID)
	if err != nil {
		s.Log.Error("failed to detect networks", "case_id", caseID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to detect networks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"networks": networks})
}

// SummarizeNetworks annotates each linked network with a generated
// narrative and working name. Requires a configured LLM provider.
func (s *Server) SummarizeNetworks(c *gin.Context) {
	if s.Summarizer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no llm provider configured"})
		return
	}

	caseID := c.Param("case_id")
	networks, err := s.caseNetworks(c, caseID)
	if err != nil {
		s.Log.Error("failed to detect networks", "case_id", caseID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to detect networks"})
		return
	}

	ctx := c.Request.Context()
	for i := range networks {
		text, err := s.Summarizer.SummarizeNetwork(ctx, networks[i].Targets)
		if err != nil {
			// A failed narrative leaves the network unannotated.
			s.Log.Error("failed to summarize network", "case_id", caseID, "error", err)
			continue
		}
		networks[i].Summary = text

		name, err := s.Summarizer.GenerateNetworkName(ctx, text)
		if err != nil {
			s.Log.Error("failed to name network", "case_id", caseID, "error", err)
			continue
		}
		networks[i].Name = name
	}

	c.JSON(http.StatusOK, gin.H{"networks": networks})
}

func (s *Server) caseNetworks(c *gin.Context, caseID string) ([]model.LinkedNetwork, error) {
	ctx := c.Request.Context()

	targets, err := s.Store.ListCaseTargets(ctx, caseID, "")
	if err != nil {
		return nil, err
	}
	correlations, err := s.Store.ListForCase(ctx, caseID)
	if err != nil {
		return nil, err
	}

	clusters, err := s.Networks.Detect(targets, correlations)
	if err != nil {
		return nil, err
	}

	networks := make([]model.LinkedNetwork, 0, len(clusters))
	for _, cluster := range clusters {
		networks = append(networks, model.LinkedNetwork{Targets: cluster})
	}
	return networks, nil
}

func isNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "not found")
}
