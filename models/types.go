package models

import (
	"github.com/vibealong/onboarding/auth"
	"github.com/vibealong/onboarding/wizard"
)

// Request types

type StartSignupRequest struct {
	Flavor string `json:"flavor"`
}

// An existing account that never finished its profile picks up here
type ResumeSignupRequest struct {
	Email    string      `json:"email"`
	Password auth.Secret `json:"password"`
	Flavor   string      `json:"flavor"`
}

// Response types

type SignupResponse struct {
	Token string      `json:"token"`
	View  wizard.View `json:"view"`
}

type StepResponse struct {
	View     wizard.View      `json:"view"`
	Feedback *wizard.Feedback `json:"feedback,omitempty"`
}

type FlavorsResponse struct {
	Default string          `json:"default"`
	Flavors []wizard.Flavor `json:"flavors"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
