package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/evaluation-service/internal/errors"
	"github.com/SAP-F-2025/evaluation-service/internal/evaluation"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("resource conflict")

	// Lesson errors
	ErrLessonNotFound      = errors.New("lesson not found")
	ErrLessonNotPublished  = errors.New("lesson is not published")
	ErrQuestionNotInLesson = errors.New("question does not belong to the lesson")

	// Question errors
	ErrQuestionNotFound = errors.New("question not found")
	ErrQuestionDetached = errors.New("question is not attached to a lesson")

	// User errors
	ErrMissingUser = errors.New("user identity is missing")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrLessonNotFound) ||
		errors.Is(err, ErrQuestionNotFound)
}

// IsUnauthorized checks if error represents a missing identity
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrMissingUser)
}

// IsForbidden checks if error represents an action on a closed resource
func IsForbidden(err error) bool {
	return errors.Is(err, ErrLessonNotPublished)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre) ||
		errors.Is(err, ErrQuestionNotInLesson) ||
		errors.Is(err, ErrQuestionDetached)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsInvalidSubmission checks if error comes from an answer the engine could not read
func IsInvalidSubmission(err error) bool {
	return evaluation.IsMalformedAnswer(err)
}

// IsUnsupported checks if error comes from a question type the engine cannot grade
func IsUnsupported(err error) bool {
	return evaluation.IsUnsupportedType(err)
}

// IsIntegrity checks if error comes from a stored question that cannot be graded
func IsIntegrity(err error) bool {
	return evaluation.IsDataIntegrity(err)
}
