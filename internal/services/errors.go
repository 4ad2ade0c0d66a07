package services

import (
	"errors"
	"fmt"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")

	// Quiz specific errors
	ErrQuizNotFound            = errors.New("quiz not found")
	ErrQuizAccessDenied        = errors.New("access denied to quiz")
	ErrQuizNotReviewable       = errors.New("quiz is not pending review")
	ErrRejectionReasonRequired = errors.New("rejection reason is required")

	// Submission specific errors
	ErrSubmissionRejected = errors.New("submission rejected")

	// Report specific errors
	ErrReportFormatInvalid = errors.New("unsupported report format")
)

// ===== CUSTOM ERROR TYPES =====

type PermissionError struct {
	UserID string `json:"user_id"`
	QuizID uint   `json:"quiz_id"`
	Action string `json:"action"`
	Reason string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s quiz %d - %s",
		pe.UserID, pe.Action, pe.QuizID, pe.Reason)
}

func NewPermissionError(userID string, quizID uint, action, reason string) *PermissionError {
	return &PermissionError{
		UserID: userID,
		QuizID: quizID,
		Action: action,
		Reason: reason,
	}
}

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrQuizNotFound)
}

// IsForbidden checks if error represents a permission failure
func IsForbidden(err error) bool {
	if errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrQuizAccessDenied) {
		return true
	}
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrRejectionReasonRequired) ||
		errors.Is(err, ErrReportFormatInvalid)
}
