package apperrors

// Error codes, one per failure class in the system.
const (
	ErrValidation         = "validation_failed"
	ErrInvalidCredentials = "invalid_credentials"
	ErrAccountLocked      = "account_locked"
	ErrInvalidCode        = "invalid_code"
	ErrDuplicateResource  = "duplicate_resource"
	ErrNotFound           = "not_found"
	ErrStorage            = "storage_failed"
	ErrCollaborator       = "collaborator_failed"
	ErrInternal           = "internal"
)
