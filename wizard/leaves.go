// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wizard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/vibealong/onboarding/auth"
	"github.com/vibealong/onboarding/backend"
)

// MaxPictureBytes is the largest profile picture accepted.
const MaxPictureBytes = 5 << 20

// Services are the external collaborators the leaves call.
type Services struct {
	Accounts backend.Accounts
	Records  backend.Records
	Files    backend.Files
}

// Input carries the form values for the current step. Only the part that
// matches the step kind is read.
type Input struct {
	Choice    *ChoiceInput      `json:"choice,omitempty"`
	Account   *AccountInput     `json:"account,omitempty"`
	Role      string            `json:"role,omitempty"`
	Picture   *PictureInput     `json:"picture,omitempty"`
	Developer *DeveloperProfile `json:"developer,omitempty"`
	VibeCoder *VibeCoderProfile `json:"vibeCoder,omitempty"`
	Agency    *AgencyProfile    `json:"agency,omitempty"`
}

type ChoiceInput struct {
	AcceptTerms    bool `json:"acceptTerms"`
	MarketingOptIn bool `json:"marketingOptIn"`
}

type AccountInput struct {
	FullName        string      `json:"fullName" validate:"min=2,max=128"`
	Email           string      `json:"email" validate:"required,email,max=254"`
	Password        auth.Secret `json:"password" validate:"min=8"`
	ConfirmPassword auth.Secret `json:"confirmPassword" validate:"eqfield=Password"`
}

// PictureInput is an uploaded image. Empty Data means "no new file".
type PictureInput struct {
	Filename string `json:"filename"`
	Data     []byte `json:"data"`
}

// stepEnv is what a leaf may read: a copy of the draft and the wiring.
type stepEnv struct {
	draft    Draft
	flavor   Flavor
	services Services
	now      func() time.Time
}

// outcome is a leaf's report. done says whether the step completed; when
// it did not, feedback explains why. update is merged either way so that
// side effects that did happen are remembered.
type outcome struct {
	update   Update
	role     Role
	done     bool
	feedback *Feedback
}

type leaf interface {
	submit(ctx context.Context, env stepEnv, in Input) outcome
}

// leaves maps each step kind to its form.
var leaves = map[StepKind]leaf{
	StepSignupChoice:   choiceLeaf{},
	StepAccountInfo:    accountLeaf{},
	StepRoleSelect:     roleLeaf{},
	StepProfilePicture: pictureLeaf{},
	StepRoleProfile:    roleProfileLeaf{},
}

func rejected(fb *Feedback) outcome {
	return outcome{feedback: fb}
}

type choiceLeaf struct{}

func (choiceLeaf) submit(_ context.Context, _ stepEnv, in Input) outcome {
	if in.Choice == nil || !in.Choice.AcceptTerms {
		return rejected(invalidField("acceptTerms", "must be accepted to continue"))
	}
	return outcome{
		update: Update{
			AcceptedTerms:  ptr(true),
			MarketingOptIn: ptr(in.Choice.MarketingOptIn),
		},
		done: true,
	}
}

type accountLeaf struct{}

func (accountLeaf) submit(ctx context.Context, env stepEnv, in Input) outcome {
	if env.draft.AccountID != "" {
		// The account exists already; its details can't change any more.
		return outcome{done: true}
	}
	if in.Account == nil {
		return rejected(invalid(map[string]string{
			"fullName": "is required",
			"email":    "is required",
			"password": "is required",
		}))
	}

	form := *in.Account
	form.FullName = strings.TrimSpace(form.FullName)
	form.Email = backend.NormalizeEmail(form.Email)
	if fields := check(form); fields != nil {
		return rejected(invalid(fields))
	}

	if env.flavor.CheckEmail {
		if checker, ok := env.services.Accounts.(backend.IdentityChecker); ok {
			exists, err := checker.AccountExists(ctx, form.Email)
			if err != nil {
				slog.Error("email availability check failed", "error", err)
				return rejected(persistenceFailed())
			}
			if exists {
				return rejected(duplicateIdentity())
			}
		}
	}

	return outcome{
		update: Update{
			FullName: ptr(form.FullName),
			Email:    ptr(form.Email),
			Password: ptr(form.Password),
		},
		done: true,
	}
}

type roleLeaf struct{}

func (roleLeaf) submit(_ context.Context, env stepEnv, in Input) outcome {
	r, err := ParseRole(in.Role)
	if err != nil {
		return rejected(invalidField("role", "choose developer, vibe-coder or agency"))
	}
	if env.draft.roleFixed(r) {
		return rejected(invalidField("role", ErrRoleFixed.Error()))
	}
	return outcome{role: r, done: true}
}

type pictureLeaf struct{}

func (pictureLeaf) submit(ctx context.Context, env stepEnv, in Input) outcome {
	if in.Picture == nil || len(in.Picture.Data) == 0 {
		return outcome{done: true}
	}
	data := in.Picture.Data

	if len(data) > MaxPictureBytes {
		return rejected(invalidField("picture", "must be "+humanize.IBytes(MaxPictureBytes)+" or smaller"))
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return rejected(invalidField("picture", "must be an image"))
	}

	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])
	if env.draft.ProfilePictureRef != "" && env.draft.pictureDigest == digest {
		return outcome{done: true}
	}

	if env.services.Files == nil {
		return rejected(&Feedback{Kind: FeedbackUpload, Message: "Picture uploads are unavailable. Skip this step for now."})
	}

	path := "avatars/" + uuid.NewString() + mt.Extension()
	url, err := env.services.Files.UploadFile(ctx, data, path)
	if err != nil {
		slog.Error("picture upload failed", "filename", in.Picture.Filename, "error", err)
		msg := "We couldn't upload your picture. Try again or skip this step."
		if errors.Is(err, backend.ErrTooLarge) {
			msg = "That picture is too large for our storage. Try a smaller one or skip this step."
		}
		return rejected(&Feedback{Kind: FeedbackUpload, Message: msg})
	}

	return outcome{
		update: Update{ProfilePictureRef: ptr(url), pictureDigest: ptr(digest)},
		done:   true,
	}
}
