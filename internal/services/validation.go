package services

import (
	"strings"
	"time"
	"unicode/utf8"

	"taskapi/internal/apperrors"
)

// Length limits count characters, not bytes, so multibyte input is measured
// the same way a user would count it.
const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
	maxAssignedToLen  = 100
)

func validateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", apperrors.NewValidation("title cannot be empty or whitespace only")
	}
	if utf8.RuneCountInString(trimmed) > maxTitleLen {
		return "", apperrors.NewValidation("title cannot exceed %d characters", maxTitleLen)
	}
	return trimmed, nil
}

func validateDescription(description *string) (*string, error) {
	if description == nil {
		return nil, nil
	}
	if utf8.RuneCountInString(*description) > maxDescriptionLen {
		return nil, apperrors.NewValidation("description cannot exceed %d characters", maxDescriptionLen)
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil, nil
	}
	return &trimmed, nil
}

func validateDueDate(dueDate *time.Time) error {
	if dueDate != nil && !dueDate.After(time.Now()) {
		return apperrors.NewValidation("due date must be in the future")
	}
	return nil
}

func validateAssignedTo(assignedTo *string) (*string, error) {
	if assignedTo == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*assignedTo)
	if utf8.RuneCountInString(trimmed) > maxAssignedToLen {
		return nil, apperrors.NewValidation("assignee name cannot exceed %d characters", maxAssignedToLen)
	}
	if trimmed == "" {
		return nil, nil
	}
	return &trimmed, nil
}
