package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/classbridge/classbridge-backend/internal/http/response"
	"github.com/classbridge/classbridge-backend/internal/services"
)

type AssignmentsHandler struct {
	assignmentService services.AssignmentService
}

func NewAssignmentsHandler(assignmentService services.AssignmentService) *AssignmentsHandler {
	return &AssignmentsHandler{assignmentService: assignmentService}
}

func (ah *AssignmentsHandler) Create(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		if single := form.File["file"]; len(single) > 0 {
			fileHeaders = single
		}
	}
	if len(fileHeaders) == 0 {
		response.RespondError(c, http.StatusBadRequest, "missing_file", nil)
		return
	}

	files := make([]services.UploadedFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, oErr := fh.Open()
		if oErr != nil {
			response.RespondError(c, http.StatusBadRequest, "unreadable_file", oErr)
			return
		}
		defer f.Close()
		files = append(files, services.UploadedFile{
			Name:    fh.Filename,
			Size:    fh.Size,
			Content: f,
		})
	}

	var dueDate *time.Time
	if raw := c.PostForm("due_date"); raw != "" {
		parsed, pErr := time.Parse(time.RFC3339, raw)
		if pErr != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_due_date", pErr)
			return
		}
		dueDate = &parsed
	}

	semester, _ := strconv.Atoi(c.PostForm("semester"))
	created, err := ah.assignmentService.Create(c.Request.Context(), services.AssignmentCreateInput{
		Subject:     c.PostForm("subject"),
		Semester:    semester,
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		DueDate:     dueDate,
		Files:       files,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, created)
}

func (ah *AssignmentsHandler) List(c *gin.Context) {
	semester, _ := strconv.Atoi(c.Query("semester"))
	items, err := ah.assignmentService.List(c.Request.Context(), semester, c.Query("subject"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"assignments": items})
}

func (ah *AssignmentsHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := ah.assignmentService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (ah *AssignmentsHandler) DeleteExpired(c *gin.Context) {
	count, err := ah.assignmentService.DeleteExpired(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": count})
}
