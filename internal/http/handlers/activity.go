package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/classbridge/classbridge-backend/internal/http/response"
	"github.com/classbridge/classbridge-backend/internal/requestdata"
	"github.com/classbridge/classbridge-backend/internal/services"
)

const defaultFeedLimit = 50

type ActivityHandler struct {
	activityService services.ActivityService
}

func NewActivityHandler(activityService services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

func (ah *ActivityHandler) MyFeed(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "invalid_session", services.ErrInvalidSession)
		return
	}
	limit := feedLimit(c)
	items, err := ah.activityService.FeedForUser(c.Request.Context(), rd.UserID, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"activities": items})
}

func (ah *ActivityHandler) SubjectFeed(c *gin.Context) {
	subject := c.Query("subject")
	if subject == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_subject", nil)
		return
	}
	items, err := ah.activityService.FeedForSubject(c.Request.Context(), subject, feedLimit(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"activities": items})
}

func (ah *ActivityHandler) RecentFeed(c *gin.Context) {
	items, err := ah.activityService.RecentFeed(c.Request.Context(), feedLimit(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"activities": items})
}

func feedLimit(c *gin.Context) int {
	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	return limit
}
