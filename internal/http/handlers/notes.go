package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/classbridge/classbridge-backend/internal/http/response"
	"github.com/classbridge/classbridge-backend/internal/services"
)

type NotesHandler struct {
	noteService services.NoteService
}

func NewNotesHandler(noteService services.NoteService) *NotesHandler {
	return &NotesHandler{noteService: noteService}
}

func (nh *NotesHandler) Upload(c *gin.Context) {
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
	note, err := nh.noteService.Upload(c.Request.Context(), services.NoteUploadInput{
		Subject:  c.PostForm("subject"),
		Semester: semester,
		Title:    c.PostForm("title"),
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
	response.RespondOK(c, gin.H{"note": note})
}

func (nh *NotesHandler) List(c *gin.Context) {
	semester, _ := strconv.Atoi(c.Query("semester"))
	items, err := nh.noteService.List(c.Request.Context(), semester, c.Query("subject"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"notes": items})
}

func (nh *NotesHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := nh.noteService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
