package poll

import (
	"fmt"
	"strings"
	"time"
)

const (
	QuestionMinLen    = 3
	QuestionMaxLen    = 500
	DescriptionMaxLen = 2000
	MinOptions        = 2
	MaxOptions        = 20
)

// ValidationError names the field and rule an input failed. It is raised
// before any storage call so a rejected request never leaves partial rows.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidateQuestion trims and bounds the question text.
func ValidateQuestion(q string) (string, error) {
	q = strings.TrimSpace(q)
	if len(q) < QuestionMinLen {
		return "", invalid("question", "must be at least %d characters", QuestionMinLen)
	}
	if len(q) > QuestionMaxLen {
		return "", invalid("question", "must be at most %d characters", QuestionMaxLen)
	}
	return q, nil
}

// ValidateDescription trims an optional description; empty collapses to nil.
func ValidateDescription(d *string) (*string, error) {
	if d == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*d)
	if trimmed == "" {
		return nil, nil
	}
	if len(trimmed) > DescriptionMaxLen {
		return nil, invalid("description", "must be at most %d characters", DescriptionMaxLen)
	}
	return &trimmed, nil
}

// ValidateExpiresAt requires a future expiry when one is set.
func ValidateExpiresAt(t *time.Time, now time.Time) error {
	if t == nil {
		return nil
	}
	if !t.After(now) {
		return invalid("expires_at", "must be in the future")
	}
	return nil
}

// ValidateOptionLabels trims labels, drops empties, and enforces the count
// bounds and label uniqueness. Duplicate detection is case-sensitive.
func ValidateOptionLabels(labels []string) ([]string, error) {
	cleaned := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, dup := seen[l]; dup {
			return nil, invalid("options", "duplicate option label %q", l)
		}
		seen[l] = struct{}{}
		cleaned = append(cleaned, l)
	}

	if len(cleaned) < MinOptions {
		return nil, invalid("options", "need at least %d options", MinOptions)
	}
	if len(cleaned) > MaxOptions {
		return nil, invalid("options", "need at most %d options", MaxOptions)
	}
	return cleaned, nil
}
