// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the onboarding API.

# Signup Handler

SignupHandler owns the database-backed services and the wizard session
store. It is created once per server:

	signupHandler := handlers.NewSignupHandler(db, cfg, catalog, sessions)

# Starting

	GET  /signup/flavors → ListFlavors
	POST /signup         → Start (anonymous, optional {"flavor": "..."})
	POST /signup/resume  → Resume (existing account without a profile)

Both start endpoints return 201 with a session token and the first view.
Resumed wizards skip the account step and never create a second account.
An account whose base profile exists but whose role profile does not
resumes at the role profile step with its stored role.

# Walking the Wizard

	GET  /signup/{token}          → Get
	POST /signup/{token}/steps    → SubmitStep
	POST /signup/{token}/back     → Back
	GET  /signup/{token}/complete → Complete

SubmitStep takes JSON, or multipart form data with the image in the
"picture" field for the picture step. The response always carries the
current view; on failure it also carries feedback and a status:

	422 validation, 409 duplicate email or submission in flight,
	502 picture upload, 503 persistence
*/
package handlers
