// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request and response types for the API.

# Request Types

Types for parsing incoming JSON:

  - StartSignupRequest: flavor
  - ResumeSignupRequest: email, password, flavor

Step submissions are decoded straight into wizard.Input.

# Response Types

Types for JSON responses:

  - SignupResponse: token, view
  - StepResponse: view, feedback
  - FlavorsResponse: default, flavors
  - ErrorResponse: error, message

Views never carry the password. Feedback is present only when a step did
not complete and explains why (kind, message and per-field messages).
*/
package models
