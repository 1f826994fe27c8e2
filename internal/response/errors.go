package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"
	ErrEmailTaken         ErrCode = "EMAIL_TAKEN"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Quiz ──────────────────────────────────────────────────────────
	ErrCategoryNotFound ErrCode = "CATEGORY_NOT_FOUND"
	ErrInvalidCategory  ErrCode = "INVALID_CATEGORY"
	ErrInvalidPhase     ErrCode = "INVALID_PHASE"
	ErrAlreadyAnswered  ErrCode = "ALREADY_ANSWERED"
	ErrOptionOutOfRange ErrCode = "OPTION_OUT_OF_RANGE"
	ErrStaleQuestion    ErrCode = "STALE_QUESTION"
	ErrTimeExpired      ErrCode = "TIME_EXPIRED"
	ErrUnknownAction    ErrCode = "UNKNOWN_ACTION"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrServiceUnavailable ErrCode = "SERVICE_UNAVAILABLE"
	ErrInternal           ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrSessionInvalidated:
		return "Your session has ended. Please sign in again."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."
	case ErrTokenExpired:
		return "Authentication token has expired."
	case ErrEmailTaken:
		return "An account with this email already exists."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."

	// ─── Quiz ──────────────────────────────────────────────────────────
	case ErrCategoryNotFound:
		return "Category not found."
	case ErrInvalidCategory:
		return "This category cannot be played."
	case ErrInvalidPhase:
		return "That action is not allowed right now."
	case ErrAlreadyAnswered:
		return "This question has already been answered."
	case ErrOptionOutOfRange:
		return "Selected option does not exist."
	case ErrStaleQuestion:
		return "That question is no longer active."
	case ErrTimeExpired:
		return "Time is up for this question."
	case ErrUnknownAction:
		return "Unknown action."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrServiceUnavailable:
		return "Service temporarily unavailable."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
