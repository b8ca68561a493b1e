// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/vibealong/onboarding/backend"
	"github.com/vibealong/onboarding/cliparse"
	"github.com/vibealong/onboarding/middleware"
	"github.com/vibealong/onboarding/models"
	"github.com/vibealong/onboarding/wizard"
)

// PictureField is the multipart field carrying the profile picture.
const PictureField = "picture"

type SignupHandler struct {
	cfg      cliparse.Config
	catalog  *wizard.Catalog
	sessions *wizard.Store
	accounts *backend.SQLStore
	files    *backend.DiskStore
}

func NewSignupHandler(db *sql.DB, cfg cliparse.Config, catalog *wizard.Catalog, sessions *wizard.Store) *SignupHandler {
	return &SignupHandler{
		cfg:      cfg,
		catalog:  catalog,
		sessions: sessions,
		accounts: backend.NewSQLStore(db),
		files:    backend.NewDiskStore(cfg.UploadDir, cfg.PublicBaseURL, wizard.MaxPictureBytes),
	}
}

func (h *SignupHandler) services() wizard.Services {
	return wizard.Services{Accounts: h.accounts, Records: h.accounts, Files: h.files}
}

// ListFlavors handles GET /signup/flavors
func (h *SignupHandler) ListFlavors(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.FlavorsResponse{
		Default: h.cfg.Flavor,
		Flavors: h.catalog.All(),
	})
}

// Start handles POST /signup
// Starts an anonymous wizard. The body is optional; without it the
// configured default flavor is used.
func (h *SignupHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req models.StartSignupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	h.startWizard(w, req.Flavor, wizard.Session{})
}

// Resume handles POST /signup/resume
// Lets an existing account without a finished profile complete onboarding.
// The account step is skipped and no new account is created. When the base
// profile was already stored, the wizard resumes at the role profile with
// the stored role.
func (h *SignupHandler) Resume(w http.ResponseWriter, r *http.Request) {
	var req models.ResumeSignupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Email == "" || req.Password.Empty() {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email and password are required")
		return
	}

	acct, err := h.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if errors.Is(err, backend.ErrInvalidCredentials) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		slog.Error("failed to authenticate", "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Sign in is unavailable, please try again")
		return
	}
	if acct.ProfileComplete {
		middleware.ErrorResponse(w, http.StatusConflict, "Onboarding already completed")
		return
	}

	h.startWizard(w, req.Flavor, wizard.Session{
		AccountID:     acct.ID,
		Email:         acct.Email,
		FullName:      acct.FullName,
		Role:          wizard.Role(acct.ProfileRole),
		ProfileStored: acct.ProfileRole != "",
	})
}

func (h *SignupHandler) startWizard(w http.ResponseWriter, flavorName string, session wizard.Session) {
	if flavorName == "" {
		flavorName = h.cfg.Flavor
	}
	flavor, err := h.catalog.Lookup(flavorName)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown signup flavor")
		return
	}

	ctrl, err := wizard.NewController(flavor, session, h.services())
	if err != nil {
		slog.Error("failed to create wizard", "flavor", flavorName, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to start signup")
		return
	}

	token, err := h.sessions.Create(ctrl)
	if err != nil {
		slog.Error("failed to create signup session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to start signup")
		return
	}

	slog.Info("signup started", "flavor", flavor.Name, "resumed", session.Authenticated(), "profile_stored", session.ProfileStored)

	middleware.JSONResponse(w, http.StatusCreated, models.SignupResponse{
		Token: token,
		View:  ctrl.View(),
	})
}

// controller looks up the wizard named in the path, writing 404 if absent
func (h *SignupHandler) controller(w http.ResponseWriter, r *http.Request) (*wizard.Controller, bool) {
	ctrl, err := h.sessions.Get(r.PathValue("token"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Signup session not found or expired")
		return nil, false
	}
	return ctrl, true
}

// Get handles GET /signup/{token}
func (h *SignupHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, ctrl.View())
}

// SubmitStep handles POST /signup/{token}/steps
// Accepts JSON (wizard.Input) or, for the picture step, multipart form data
// with the image in the "picture" field.
func (h *SignupHandler) SubmitStep(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	in, err := h.parseInput(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	// Once started, a submission runs to the end even if the client leaves.
	fb := ctrl.Submit(context.WithoutCancel(r.Context()), in)

	middleware.JSONResponse(w, statusFor(fb), models.StepResponse{
		View:     ctrl.View(),
		Feedback: fb,
	})
}

var (
	errInvalidJSON = errors.New("invalid JSON")
	errInvalidForm = errors.New("invalid form data")
)

func (h *SignupHandler) parseInput(r *http.Request) (wizard.Input, error) {
	var in wizard.Input

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if err := middleware.ParseJSONBody(r, &in); err != nil {
			return wizard.Input{}, errInvalidJSON
		}
		return in, nil
	}

	// Leave room for the multipart envelope; the leaf enforces the real limit.
	r.Body = http.MaxBytesReader(nil, r.Body, wizard.MaxPictureBytes+1<<20)
	if err := r.ParseMultipartForm(wizard.MaxPictureBytes); err != nil {
		return wizard.Input{}, errInvalidForm
	}
	file, header, err := r.FormFile(PictureField)
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil
	}
	if err != nil {
		return wizard.Input{}, errInvalidForm
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, wizard.MaxPictureBytes+1))
	if err != nil {
		return wizard.Input{}, errInvalidForm
	}
	in.Picture = &wizard.PictureInput{Filename: header.Filename, Data: data}
	return in, nil
}

// Back handles POST /signup/{token}/back
func (h *SignupHandler) Back(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}
	if ctrl.Submitting() {
		middleware.ErrorResponse(w, http.StatusConflict, "A submission is still in progress")
		return
	}

	ctrl.Retreat()
	middleware.JSONResponse(w, http.StatusOK, ctrl.View())
}

// Complete handles GET /signup/{token}/complete
func (h *SignupHandler) Complete(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	done, ok := ctrl.Completion()
	if !ok {
		middleware.ErrorResponse(w, http.StatusConflict, "Signup is not complete")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, done)
}

// statusFor maps step feedback onto an HTTP status
func statusFor(fb *wizard.Feedback) int {
	if fb == nil {
		return http.StatusOK
	}
	switch fb.Kind {
	case wizard.FeedbackValidation:
		return http.StatusUnprocessableEntity
	case wizard.FeedbackDuplicateIdentity, wizard.FeedbackInFlight:
		return http.StatusConflict
	case wizard.FeedbackUpload:
		return http.StatusBadGateway
	case wizard.FeedbackPersistence:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
