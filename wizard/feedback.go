// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wizard

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnknownRole      = errors.New("unknown role")
	ErrUnknownFlavor    = errors.New("unknown signup flavor")
	ErrInvalidFlavor    = errors.New("invalid signup flavor")
	ErrSessionNotFound  = errors.New("signup session not found")
	ErrProfileCompleted = errors.New("onboarding already completed")
	ErrRoleFixed        = errors.New("role is fixed once your account exists")
	ErrSubmitting       = errors.New("a submission is in progress")
)

// FeedbackKind classifies why a step did not report completion.
type FeedbackKind string

const (
	FeedbackValidation        FeedbackKind = "validation"
	FeedbackDuplicateIdentity FeedbackKind = "duplicate_identity"
	FeedbackPersistence       FeedbackKind = "persistence"
	FeedbackUpload            FeedbackKind = "upload"
	FeedbackInFlight          FeedbackKind = "in_flight"
)

// Feedback is the user-visible result of a step that did not complete.
// Fields maps form field names to messages for validation failures.
type Feedback struct {
	Kind    FeedbackKind      `json:"kind"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (f *Feedback) Error() string {
	if len(f.Fields) == 0 {
		return fmt.Sprintf("%s: %s", f.Kind, f.Message)
	}
	names := make([]string, 0, len(f.Fields))
	for name := range f.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("%s: %s (%s)", f.Kind, f.Message, strings.Join(names, ", "))
}

func invalid(fields map[string]string) *Feedback {
	return &Feedback{
		Kind:    FeedbackValidation,
		Message: "Please correct the highlighted fields.",
		Fields:  fields,
	}
}

func invalidField(name, msg string) *Feedback {
	return invalid(map[string]string{name: msg})
}

func persistenceFailed() *Feedback {
	return &Feedback{
		Kind:    FeedbackPersistence,
		Message: "We couldn't save your account right now. Your answers are kept, please try again.",
	}
}

func duplicateIdentity() *Feedback {
	return &Feedback{
		Kind:    FeedbackDuplicateIdentity,
		Message: "An account with this email already exists. Sign in instead or use another email.",
		Fields:  map[string]string{"email": "already registered"},
	}
}

func inFlight() *Feedback {
	return &Feedback{
		Kind:    FeedbackInFlight,
		Message: "Your previous submission is still being processed.",
	}
}
