package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/classbridge/classbridge-backend/internal/http/response"
	"github.com/classbridge/classbridge-backend/internal/services"
)

type SyllabusHandler struct {
	syllabusService services.SyllabusService
}

func NewSyllabusHandler(syllabusService services.SyllabusService) *SyllabusHandler {
	return &SyllabusHandler{syllabusService: syllabusService}
}

func (sh *SyllabusHandler) Upload(c *gin.Context) {
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

	semester, _ := strconv.Atoi(c.PostForm("semester"))
	syllabus, err := sh.syllabusService.Upload(c.Request.Context(), services.SyllabusUploadInput{
		Subject:  c.PostForm("subject"),
		Semester: semester,
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
	response.RespondOK(c, gin.H{"syllabus": syllabus})
}

func (sh *SyllabusHandler) List(c *gin.Context) {
	semester, _ := strconv.Atoi(c.Query("semester"))
	items, err := sh.syllabusService.List(c.Request.Context(), semester, c.Query("subject"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"syllabus": items})
}

func (sh *SyllabusHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := sh.syllabusService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
