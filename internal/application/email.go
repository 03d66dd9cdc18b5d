package application

import (
	"strings"

	"github.com/aeonark/aeonark-labs/pkg/apperror"
	"github.com/aeonark/aeonark-labs/pkg/validation"
)

// RequestMeta carries caller details that end up in notification emails.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// normalizeEmail trims surrounding whitespace only; addresses are compared
// exactly as stored.
func normalizeEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if !validation.Email(email) {
		return "", apperror.Validation("a valid email address is required")
	}
	return email, nil
}
