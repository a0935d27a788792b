package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classbridge/classbridge-backend/internal/http/response"
	"github.com/classbridge/classbridge-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email           string `json:"email"`
		Password        string `json:"password"`
		FullName        string `json:"full_name"`
		Role            string `json:"role"`
		USNOrEmployeeID string `json:"usn_or_employee_id"`
		Subject         string `json:"subject"`
		Designation     string `json:"designation"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	profile, err := ah.authService.SignUp(c.Request.Context(), services.SignUpInput{
		Email:           req.Email,
		Password:        req.Password,
		FullName:        req.FullName,
		Role:            req.Role,
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

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	accessToken, refreshToken, profile, err := ah.authService.SignIn(c.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	expiresIn := int(ah.authService.GetAccessTTL().Seconds())
	response.RespondOK(c, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expires_in":    expiresIn,
		"profile":       profile,
	})
}

func (ah *AuthHandler) Refresh(c *gin.Context) {
	accessToken, refreshToken, err := ah.authService.RefreshSession(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	expiresIn := int(ah.authService.GetAccessTTL().Seconds())
	response.RespondOK(c, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expires_in":    expiresIn,
	})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.Logout(c.Request.Context()); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
