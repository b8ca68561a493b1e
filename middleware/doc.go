// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware holds the HTTP plumbing shared by the signup endpoints.

# Request Logging

WithLogging records the status a handler wrote, so every request produces
a "request started" line and a "request completed" line carrying status
and duration_ms:

	mux.HandleFunc("POST /signup/{token}/steps", middleware.WithLogging(h.SubmitStep))

A handler that never calls WriteHeader is logged as 200. The remote
address comes from GetClientIP, which prefers X-Forwarded-For, then
X-Real-IP, then the connection address without its port.

# Request Bodies

ParseJSONBody reads at most MaxJSONBody bytes (1 MiB) and is strict about
what it accepts:

	var req models.ResumeSignupRequest
	switch err := middleware.ParseJSONBody(r, &req); {
	case errors.Is(err, io.EOF):
		// empty body; Start treats this as "use the default flavor"
	case errors.Is(err, middleware.ErrBodyTooLarge):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Request too large")
		return
	case err != nil:
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

Unknown fields and anything after the first JSON value are errors.
Multipart picture uploads are limited separately by the signup handler.

# Responses

JSONResponse writes a value with the given status; ErrorResponse writes a
models.ErrorResponse whose Error field is the status text.

# CORS

CORS answers preflight requests itself and lets browsers call GET and POST
with a Content-Type header:

	server := http.Server{Handler: middleware.CORS(mux)}
*/
package middleware
