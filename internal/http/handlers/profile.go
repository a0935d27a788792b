package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/classbridge/classbridge-backend/internal/http/response"
	"github.com/classbridge/classbridge-backend/internal/requestdata"
	"github.com/classbridge/classbridge-backend/internal/services"
)

type ProfileHandler struct {
	profileService services.ProfileService
}

func NewProfileHandler(profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (ph *ProfileHandler) GetMe(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "invalid_session", services.ErrInvalidSession)
		return
	}
	profile, err := ph.profileService.Get(c.Request.Context(), rd.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": profile})
}

func (ph *ProfileHandler) Update(c *gin.Context) {
	var req struct {
		FullName        *string `json:"full_name"`
		USNOrEmployeeID *string `json:"usn_or_employee_id"`
		Subject         *string `json:"subject"`
		Designation     *string `json:"designation"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	profile, err := ph.profileService.Update(c.Request.Context(), services.ProfileUpdateInput{
		FullName:        req.FullName,
		USNOrEmployeeID: req.USNOrEmployeeID,
		Subject:         req.Subject,
		Designation:     req.Designation,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": profile})
}

func (ph *ProfileHandler) DeleteAccount(c *gin.Context) {
	if err := ph.profileService.DeleteAccount(c.Request.Context()); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
