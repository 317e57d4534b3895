package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/common"
	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/matcher"
	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/model"
)

const (
	msgInternal         = "Something went wrong. Please try again."
	msgIndustryNotFound = "Industry not found."
	msgIndustriesFailed = "We couldn't load our industry list. Please try again shortly."
	msgBodyTooLarge     = "Your message is too long."
)

// MatchRequest is the body of POST /api/match-industry.
type MatchRequest struct {
	BusinessDescription string `json:"businessDescription" binding:"required"`
}

// industryListItem is an entry of GET /api/industries.
type industryListItem struct {
	model.IndustrySummary
	IconName string `json:"iconName"`
}

func errorBody(msg string) gin.H {
	return gin.H{"error": msg}
}

func (s *Server) handleMatch(c *gin.Context) {
	var req MatchRequest
	// Non-string and missing descriptions fail binding the same way empty ones fail matching.
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			requestLog(c).Debug("match request body too large", zap.Int64("limit", tooLarge.Limit))
			c.JSON(http.StatusRequestEntityTooLarge, errorBody(msgBodyTooLarge))
			return
		}
		requestLog(c).Debug("invalid match request", zap.Error(err))
		c.JSON(http.StatusBadRequest, errorBody(matcher.KindInvalidInput.UserMessage()))
		return
	}

	result, err := s.matcher.Match(c.Request.Context(), req.BusinessDescription)
	if err != nil {
		_ = c.Error(err)
		c.JSON(matcher.KindOf(err).HTTPStatus(), errorBody(common.UserMessage(err, msgInternal)))
		return
	}

	requestLog(c).Info("industry matched",
		zap.String("slug", result.MatchedIndustry.Slug),
		zap.String("confidence", string(result.Confidence)),
		zap.Int("alternates", len(result.AlternateIndustries)))
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleListIndustries(c *gin.Context) {
	industries, err := s.catalog.ListActiveIndustries(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, errorBody(msgIndustriesFailed))
		return
	}

	items := make([]industryListItem, 0, len(industries))
	for _, ind := range industries {
		items = append(items, industryListItem{
			IndustrySummary: ind.Summary(),
			IconName:        ind.IconName,
		})
	}
	c.JSON(http.StatusOK, gin.H{"industries": items})
}

func (s *Server) handleGetIndustry(c *gin.Context) {
	slug := c.Param("slug")
	if !model.ValidSlug(slug) {
		c.JSON(http.StatusNotFound, errorBody(msgIndustryNotFound))
		return
	}

	industry, err := s.catalog.GetIndustryBySlug(c.Request.Context(), slug)
	switch {
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, errorBody(msgIndustryNotFound))
		return
	case err != nil:
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, errorBody(msgIndustriesFailed))
		return
	case !industry.IsActive:
		c.JSON(http.StatusNotFound, errorBody(msgIndustryNotFound))
		return
	}

	c.JSON(http.StatusOK, industry)
}

func (s *Server) handleHealth(c *gin.Context) {
	if s.pinger == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.pinger.Ping(ctx); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "ok"})
}
