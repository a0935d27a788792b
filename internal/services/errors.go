package services

import "errors"

// Sentinel errors returned by the service layer. Handlers map these onto
// HTTP statuses; everything else surfaces as an internal error.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrWeakCredential      = errors.New("password must be at least 6 characters")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrInvalidCredential   = errors.New("invalid email or password")
	ErrRoleMismatch        = errors.New("account role does not match requested role")
	ErrProfileMissing      = errors.New("no profile exists for this account")
	ErrDuplicateSubmission = errors.New("assignment already submitted")
	ErrInvalidMarks        = errors.New("marks must be between 0 and 10")
	ErrAlreadyGraded       = errors.New("submission already graded")
	ErrForbidden           = errors.New("operation not permitted for this account")
	ErrNotFound            = errors.New("record not found")
	ErrAccountDeletion     = errors.New("account deletion incomplete, retry")
	ErrInvalidSession      = errors.New("invalid or expired session")
)
