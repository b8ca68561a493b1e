// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the VibeAlong onboarding API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, catalog, sessions)

# Endpoints

Health:

	GET /health

Starting a wizard:

	GET  /signup/flavors - Available flavors and the default
	POST /signup         - Start an anonymous wizard
	POST /signup/resume  - Finish onboarding for an existing account

Walking through a wizard (token from the start response):

	GET  /signup/{token}          - Current view
	POST /signup/{token}/steps    - Submit the current step
	POST /signup/{token}/back     - Go back one step
	GET  /signup/{token}/complete - Completion view

Uploaded files:

	GET /uploads/... - Profile pictures from UPLOAD_DIR

# Status Codes

Step submissions answer 200 when the step completed. Otherwise the body
still carries the current view plus feedback, with:

	422 validation failed
	409 email already registered, or a submission is in flight
	502 picture upload failed
	503 account or profile could not be saved
*/
package router
