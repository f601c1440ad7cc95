package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation      ErrCode = "VALIDATION_ERROR"
	ErrInvalidID       ErrCode = "INVALID_ID"
	ErrInvalidPayload  ErrCode = "INVALID_PAYLOAD"
	ErrInvalidQuery    ErrCode = "INVALID_QUERY"
	ErrPayloadTooLarge ErrCode = "PAYLOAD_TOO_LARGE"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrConflict        ErrCode = "CONFLICT"
	ErrEmptyCollection ErrCode = "EMPTY_COLLECTION"

	// ─── Import / Export ───────────────────────────────────────────────
	ErrInvalidFormat     ErrCode = "INVALID_FORMAT"
	ErrNoValidRecords    ErrCode = "NO_VALID_RECORDS"
	ErrUnsupportedBackup ErrCode = "UNSUPPORTED_BACKUP_VERSION"
	ErrFileRequired      ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile   ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge      ErrCode = "FILE_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Please fix the errors in the form."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrInvalidQuery:
		return "Invalid query parameters."
	case ErrPayloadTooLarge:
		return "Request body is too large."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Student not found."
	case ErrConflict:
		return "A student with this roll number already exists."
	case ErrEmptyCollection:
		return "No data to export."

	// ─── Import / Export ───────────────────────────────────────────────
	case ErrInvalidFormat:
		return "Invalid file format."
	case ErrNoValidRecords:
		return "No valid records found in file."
	case ErrUnsupportedBackup:
		return "Unsupported backup format or version."
	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "Unsupported file type. Use CSV, JSON or XLSX."
	case ErrFileTooLarge:
		return "File size exceeds the limit."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
