package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Project errors
	ErrProjectNotFound = "PROJECT_NOT_FOUND"
	ErrConfigInvalid   = "CONFIG_INVALID"
	ErrIdentityCorrupt = "IDENTITY_CORRUPT"

	// Rename errors
	ErrInvalidName        = "INVALID_NAME"
	ErrPathNotFound       = "PATH_NOT_FOUND"
	ErrPreconditionFailed = "PRECONDITION_FAILED"
	ErrRollbackPerformed  = "ROLLBACK_PERFORMED"

	// godot-cpp errors
	ErrGitFailed     = "GIT_FAILED"
	ErrUnknownBranch = "UNKNOWN_BRANCH"

	// Build profile errors
	ErrProfileNotFound = "PROFILE_NOT_FOUND"
	ErrFileReadError   = "FILE_READ_ERROR"
	ErrFileWriteError  = "FILE_WRITE_ERROR"

	// Input errors
	ErrInvalidInput        = "INVALID_INPUT"
	ErrInteractiveRequired = "INTERACTIVE_REQUIRED"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnRollbackIncomplete = "ROLLBACK_INCOMPLETE"
	WarnBinaryRename       = "BINARY_RENAME_FAILED"
	WarnGitPull            = "GIT_PULL_FAILED"
	WarnCleanFailed        = "CLEAN_FAILED"
	WarnSubmoduleInit      = "SUBMODULE_INITIALIZED"
	WarnIdentityMissing    = "IDENTITY_MISSING"
)
