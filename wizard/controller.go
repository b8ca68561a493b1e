// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Session identifies who is running the wizard. The zero value is an
// anonymous visitor who will create a new account. ProfileStored marks an
// account whose base profile was written for Role but whose role profile
// is still missing.
type Session struct {
	AccountID     string
	Email         string
	FullName      string
	Role          Role
	ProfileStored bool
}

// Authenticated reports whether the session belongs to an existing account.
func (s Session) Authenticated() bool {
	return s.AccountID != ""
}

// Completion is what the user sees once onboarding is done.
type Completion struct {
	Email    string `json:"email"`
	Message  string `json:"message"`
	LoginURL string `json:"loginUrl"`
	HomeURL  string `json:"homeUrl"`
}

// Controller sequences one wizard. It owns the draft; every mutation goes
// through merge. Safe for concurrent use.
type Controller struct {
	mu         sync.Mutex
	flavor     Flavor
	services   Services
	now        func() time.Time
	step       int
	complete   bool
	submitting bool
	draft      Draft
	completion Completion
}

// NewController starts a wizard at the flavor's first step. An
// authenticated session skips account details and never creates an account.
func NewController(flavor Flavor, session Session, services Services) (*Controller, error) {
	if err := flavor.Validate(); err != nil {
		return nil, err
	}
	if services.Accounts == nil || services.Records == nil {
		return nil, fmt.Errorf("wizard: accounts and records services are required")
	}

	c := &Controller{
		flavor:   flavor,
		services: services,
		now:      time.Now,
		step:     flavor.MinStep,
	}
	if session.Authenticated() {
		c.flavor = flavor.withoutAccountStep()
		c.draft = Draft{
			AccountID: session.AccountID,
			Email:     session.Email,
			FullName:  session.FullName,
		}
	}
	if session.Authenticated() && session.ProfileStored {
		role, err := ParseRole(string(session.Role))
		if err != nil {
			return nil, err
		}
		c.draft.Role = role
		c.draft.ProfileStored = true
		c.draft.roleLocked = true
		// Only the role profile is left to write.
		c.step, _ = c.flavor.StepOf(StepRoleProfile)
	}
	return c, nil
}

// Advance merges u into the draft and moves one step forward, clamped at
// the last step. It will not leave the role selection step until a role is
// set. No-op once complete or while a submission is running.
func (c *Controller) Advance(u Update) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.complete || c.submitting {
		return
	}
	c.advanceLocked(u)
}

func (c *Controller) advanceLocked(u Update) {
	c.draft.merge(u)
	if kind, _ := c.flavor.KindAt(c.step); kind == StepRoleSelect && c.draft.Role == RoleUnset {
		slog.Warn("refusing to advance without a role", "flavor", c.flavor.Name, "step", c.step)
		return
	}
	if c.step < c.flavor.MaxStep() {
		c.step++
	}
}

// Retreat moves one step back, clamped at the first step. The draft is kept.
func (c *Controller) Retreat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.complete || c.submitting {
		return
	}
	if c.step > c.flavor.MinStep {
		c.step--
	}
}

// Complete merges u and finishes the wizard. Calling it again does nothing,
// as does calling it while a submission is running.
func (c *Controller) Complete(u Update) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return
	}
	c.completeLocked(u)
}

func (c *Controller) completeLocked(u Update) {
	if c.complete {
		return
	}
	c.draft.merge(u)
	c.complete = true
	c.completion = Completion{
		Email:    c.draft.Email,
		Message:  "Check your inbox and confirm your email address to activate your account.",
		LoginURL: "/login",
		HomeURL:  "/",
	}
	slog.Info("wizard completed", "flavor", c.flavor.Name, "account_id", c.draft.AccountID, "role", c.draft.Role)
	c.draft = Draft{}
}

// SelectRole sets the role. Picking a different role than before discards
// the profile entered for the old one. Once a record carrying the role has
// been stored the role can no longer change.
func (c *Controller) SelectRole(r Role) error {
	if _, err := ParseRole(string(r)); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.complete {
		return ErrProfileCompleted
	}
	if c.submitting {
		return ErrSubmitting
	}
	if c.draft.roleFixed(r) {
		return ErrRoleFixed
	}
	c.draft.setRole(r)
	return nil
}

// Submit runs the leaf for the current step with the given input. On
// success the wizard advances, or completes after the role profile step.
// Otherwise it stays put and the returned feedback says why. Submitting a
// completed wizard does nothing.
func (c *Controller) Submit(ctx context.Context, in Input) *Feedback {
	c.mu.Lock()
	if c.complete {
		c.mu.Unlock()
		return nil
	}
	if c.submitting {
		c.mu.Unlock()
		return inFlight()
	}
	kind, _ := c.flavor.KindAt(c.step)
	env := stepEnv{
		draft:    c.draft.clone(),
		flavor:   c.flavor,
		services: c.services,
		now:      c.now,
	}
	c.submitting = true
	c.mu.Unlock()

	out := leaves[kind].submit(ctx, env, in)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false

	if out.feedback != nil {
		// Side effects that did succeed are recorded so a retry skips them.
		c.draft.merge(out.update)
		slog.Info("step not completed", "kind", kind, "feedback", out.feedback.Kind)
		return out.feedback
	}
	if out.role != RoleUnset {
		c.draft.setRole(out.role)
	}
	if kind == StepRoleProfile {
		c.completeLocked(out.update)
	} else {
		c.advanceLocked(out.update)
	}
	return nil
}

// Step returns the current step number.
func (c *Controller) Step() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Kind returns the form shown at the current step.
func (c *Controller) Kind() StepKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	kind, _ := c.flavor.KindAt(c.step)
	return kind
}

func (c *Controller) IsComplete() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.complete
}

// Submitting reports whether a step submission is running.
func (c *Controller) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Draft returns a copy of the draft.
func (c *Controller) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.clone()
}

// Flavor returns the steps this wizard walks through.
func (c *Controller) Flavor() Flavor {
	c.mu.Lock()
	defer c.mu.Unlock()
	f := c.flavor
	f.Steps = append([]StepKind(nil), c.flavor.Steps...)
	return f
}

// Completion returns the completion view once the wizard is complete.
func (c *Controller) Completion() (Completion, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.completion, c.complete
}
