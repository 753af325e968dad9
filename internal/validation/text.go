package validation

import (
	"strings"
)

// ValidateTitle validates goal and milestone titles
func ValidateTitle(title string) error {
	trimmed := strings.TrimSpace(title)

	if trimmed == "" {
		return Error("title is required")
	}

	if len(trimmed) > 200 {
		return Error("title is too long (max 200 characters)")
	}

	return nil
}

// ValidatePromiseText validates the commitment text supplied when locking
// a milestone
func ValidatePromiseText(text string) error {
	trimmed := strings.TrimSpace(text)

	if trimmed == "" {
		return Error("promise text is required")
	}

	if len(trimmed) > 1000 {
		return Error("promise text is too long (max 1000 characters)")
	}

	return nil
}

// ValidateReason validates the mandatory reflection supplied when breaking
// a promise
func ValidateReason(reason string) error {
	trimmed := strings.TrimSpace(reason)

	if trimmed == "" {
		return Error("a reason is required when breaking a promise")
	}

	if len(trimmed) > 2000 {
		return Error("reason is too long (max 2000 characters)")
	}

	return nil
}

// ValidateReflection validates the reflection supplied when completing a goal
func ValidateReflection(reflection string) error {
	trimmed := strings.TrimSpace(reflection)

	if trimmed == "" {
		return Error("a reflection is required to complete a goal")
	}

	if len(trimmed) > 5000 {
		return Error("reflection is too long (max 5000 characters)")
	}

	return nil
}
