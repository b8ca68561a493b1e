// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/vibealong/onboarding/backend"
	"github.com/vibealong/onboarding/cliparse"
	"github.com/vibealong/onboarding/handlers"
	"github.com/vibealong/onboarding/middleware"
	"github.com/vibealong/onboarding/wizard"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, catalog *wizard.Catalog, sessions *wizard.Store) *http.ServeMux {
	mux := http.NewServeMux()

	signupHandler := handlers.NewSignupHandler(db, cfg, catalog, sessions)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Starting a wizard
	mux.HandleFunc("GET /signup/flavors", middleware.WithLogging(signupHandler.ListFlavors))
	mux.HandleFunc("POST /signup", middleware.WithLogging(signupHandler.Start))
	mux.HandleFunc("POST /signup/resume", middleware.WithLogging(signupHandler.Resume))

	// Walking through it
	mux.HandleFunc("GET /signup/{token}", middleware.WithLogging(signupHandler.Get))
	mux.HandleFunc("POST /signup/{token}/steps", middleware.WithLogging(signupHandler.SubmitStep))
	mux.HandleFunc("POST /signup/{token}/back", middleware.WithLogging(signupHandler.Back))
	mux.HandleFunc("GET /signup/{token}/complete", middleware.WithLogging(signupHandler.Complete))

	// Uploaded profile pictures
	mux.Handle("GET "+backend.UploadPrefix, http.StripPrefix(backend.UploadPrefix, http.FileServer(http.Dir(cfg.UploadDir))))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("vibealong onboarding API v1"))
	})

	return mux
}
