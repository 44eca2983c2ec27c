package pipeline

import "net/http"

// Kind is the externally reportable failure taxonomy. Every collaborator
// failure is translated to exactly one Kind before it crosses the pipeline
// boundary; raw collaborator errors never reach the response.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidRequest
	KindAppNotFound
	KindReviewsUnavailable
	KindInsufficientData
	KindGenerationFailed
	KindQuotaExceeded
)

// Label returns the fixed category string placed in the error response.
func (k Kind) Label() string {
	switch k {
	case KindInvalidRequest:
		return "Invalid request"
	case KindAppNotFound:
		return "App not found"
	case KindReviewsUnavailable:
		return "Failed to fetch reviews"
	case KindInsufficientData:
		return "Insufficient data"
	case KindGenerationFailed:
		return "AI analysis failed"
	case KindQuotaExceeded:
		return "Quota exceeded"
	default:
		return "Internal server error"
	}
}

// HTTPStatus returns the fixed status for the category.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidRequest:
		return http.StatusBadRequest
	case KindAppNotFound:
		return http.StatusNotFound
	case KindReviewsUnavailable:
		return http.StatusServiceUnavailable
	case KindInsufficientData:
		return http.StatusUnprocessableEntity
	case KindQuotaExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is a taxonomy member with a short actionable detail for the user and
// the wrapped internal cause for diagnostics.
type Error struct {
	Kind    Kind
	Details string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Kind.Label() + ": " + e.cause.Error()
	}
	if e.Details != "" {
		return e.Kind.Label() + ": " + e.Details
	}
	return e.Kind.Label()
}

func (e *Error) Unwrap() error { return e.cause }

func fail(kind Kind, details string, cause error) *Error {
	return &Error{Kind: kind, Details: details, cause: cause}
}
