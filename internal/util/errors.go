package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrNotEnrolled        = errors.New("student not enrolled in this batch")
	ErrNotAssigned        = errors.New("faculty not assigned to this batch and subject")
	ErrAssessmentNotFound = errors.New("assessment not found or inactive")
	ErrAssessmentLocked   = errors.New("assessment can no longer be edited")
	ErrNotAvailable       = errors.New("assessment not currently available")
	ErrAlreadyAttempted   = errors.New("assessment already attempted")
	ErrAttemptNotFound    = errors.New("attempt not found")
	ErrAttemptClosed      = errors.New("attempt already submitted")
	ErrNoAttemptInFlight  = errors.New("no in-progress attempt to submit")
	ErrBankNotFound       = errors.New("question bank not found or inactive")
	ErrSkillNotFound      = errors.New("skill not found or inactive")
	ErrSubmissionNotFound = errors.New("submission not found")
)

// ValidationError carries field- or line-level detail alongside the message
// so a caller can show structured diagnostics. It never implies a partial
// write.
type ValidationError struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details interface{}) *ValidationError {
	return &ValidationError{Message: message, Details: details}
}

// AsValidation unwraps err into a ValidationError, if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
