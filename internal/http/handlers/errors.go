package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classbridge/classbridge-backend/internal/http/response"
	"github.com/classbridge/classbridge-backend/internal/services"
)

// respondServiceError maps service sentinel errors onto HTTP statuses.
// Anything unmapped is an internal error.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnsupportedFileType):
		response.RespondError(c, http.StatusBadRequest, "unsupported_file_type", err)
	case errors.Is(err, services.ErrWeakCredential):
		response.RespondError(c, http.StatusBadRequest, "weak_credential", err)
	case errors.Is(err, services.ErrDuplicateEmail):
		response.RespondError(c, http.StatusConflict, "duplicate_email", err)
	case errors.Is(err, services.ErrInvalidCredential):
		response.RespondError(c, http.StatusUnauthorized, "invalid_credentials", err)
	case errors.Is(err, services.ErrRoleMismatch):
		response.RespondError(c, http.StatusUnauthorized, "role_mismatch", err)
	case errors.Is(err, services.ErrProfileMissing):
		response.RespondError(c, http.StatusConflict, "profile_missing", err)
	case errors.Is(err, services.ErrDuplicateSubmission):
		response.RespondError(c, http.StatusConflict, "duplicate_submission", err)
	case errors.Is(err, services.ErrInvalidMarks):
		response.RespondError(c, http.StatusBadRequest, "invalid_marks", err)
	case errors.Is(err, services.ErrAlreadyGraded):
		response.RespondError(c, http.StatusConflict, "already_graded", err)
	case errors.Is(err, services.ErrForbidden):
		response.RespondError(c, http.StatusForbidden, "forbidden", err)
	case errors.Is(err, services.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, services.ErrInvalidSession):
		response.RespondError(c, http.StatusUnauthorized, "invalid_session", err)
	case errors.Is(err, services.ErrAccountDeletion):
		response.RespondError(c, http.StatusInternalServerError, "account_deletion_failed", err)
	default:
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
