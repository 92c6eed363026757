package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrFailedValidation   = errors.New("failed validation")
	ErrRecordNotFound     = errors.New("record not found")
	ErrEditConflict       = errors.New("edit conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateRecord    = errors.New("duplicate record")
	ErrNotPermitted       = errors.New("not permitted")
	ErrInvalidTransition  = errors.New("invalid lifecycle transition")
	ErrAlreadyReviewed    = errors.New("booking already reviewed")
	ErrNotEligible        = errors.New("not eligible to review booking")
	ErrIncompleteRating   = errors.New("incomplete category ratings")
)

// failedValidation flattens a validation error map into an error that
// matches ErrFailedValidation under errors.Is.
func (s *service) failedValidation(errorMap map[string]string) error {
	keys := make([]string, 0, len(errorMap))
	for k := range errorMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%q %s", k, errorMap[k]))
	}
	return fmt.Errorf("%w: %s", ErrFailedValidation, strings.Join(parts, "; "))
}
