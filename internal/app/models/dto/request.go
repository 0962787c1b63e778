package dto

import (
	"strings"

	"github.com/yigit/schoolms/internal/pkg/apperrors"
)

// WriteMode selects which fields a write request must carry.
type WriteMode int

const (
	// ModeCreate is POST on a collection.
	ModeCreate WriteMode = iota
	// ModeReplace is PUT on an item: every writable field is required.
	ModeReplace
	// ModePatch is PATCH on an item: any subset of fields.
	ModePatch
)

// requireText records an error when a required field is missing or when a
// supplied field is blank.
func requireText(errs *ValidationErrors, field string, value *string, required bool) {
	if value == nil {
		if required {
			errs.AddError(field, field+" is required")
		}
		return
	}
	if strings.TrimSpace(*value) == "" {
		errs.AddError(field, field+" may not be blank")
	}
}

func requireID(errs *ValidationErrors, field string, value *int64, required bool) {
	if value == nil {
		if required {
			errs.AddError(field, field+" is required")
		}
		return
	}
	if *value <= 0 {
		errs.AddError(field, field+" must be a positive id")
	}
}

// Err returns nil when empty, otherwise a validation error carrying every field error.
func (v *ValidationErrors) Err() error {
	if !v.HasErrors() {
		return nil
	}
	msg := "Validation failed"
	if len(v.Errors) == 1 {
		msg = v.Errors[0].Message
	}
	return apperrors.NewValidationError(msg).WithDetails(map[string]interface{}{
		"errors": v.Errors,
	})
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
