package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/classbridge/classbridge-backend/internal/http/response"
	"github.com/classbridge/classbridge-backend/internal/services"
)

type SubmissionsHandler struct {
	submissionService services.SubmissionService
}

func NewSubmissionsHandler(submissionService services.SubmissionService) *SubmissionsHandler {
	return &SubmissionsHandler{submissionService: submissionService}
}

func (sh *SubmissionsHandler) Submit(c *gin.Context) {
	assignmentID, err := uuid.Parse(c.PostForm("assignment_id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_assignment_id", err)
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_file", err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}
	defer file.Close()

	submission, err := sh.submissionService.Submit(c.Request.Context(), services.SubmitInput{
		AssignmentID: assignmentID,
		File: services.UploadedFile{
			Name:    fileHeader.Filename,
			Size:    fileHeader.Size,
			Content: file,
		},
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"submission": submission})
}

func (sh *SubmissionsHandler) Grade(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		Marks    int    `json:"marks"`
		Feedback string `json:"feedback"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	submission, err := sh.submissionService.Grade(c.Request.Context(), services.GradeInput{
		SubmissionID: id,
		Marks:        req.Marks,
		Feedback:     req.Feedback,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"submission": submission})
}

func (sh *SubmissionsHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := sh.submissionService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (sh *SubmissionsHandler) ListMine(c *gin.Context) {
	items, err := sh.submissionService.ListForStudent(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"submissions": items})
}

func (sh *SubmissionsHandler) ListForSubject(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	items, err := sh.submissionService.ListForSubject(c.Request.Context(), c.Query("subject"), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"submissions": items})
}
