// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wizard

// View is the wizard as the client renders it. The password never appears.
type View struct {
	Flavor     string      `json:"flavor"`
	Step       int         `json:"step"`
	MinStep    int         `json:"minStep"`
	MaxStep    int         `json:"maxStep"`
	Kind       StepKind    `json:"kind,omitempty"`
	Steps      []StepKind  `json:"steps"`
	Complete   bool        `json:"complete"`
	Submitting bool        `json:"submitting"`
	Draft      *DraftView  `json:"draft,omitempty"`
	Completion *Completion `json:"completion,omitempty"`
}

type DraftView struct {
	FullName          string      `json:"fullName,omitempty"`
	Email             string      `json:"email,omitempty"`
	Role              Role        `json:"role,omitempty"`
	ProfilePictureRef string      `json:"profilePictureRef,omitempty"`
	RoleProfile       RoleProfile `json:"roleProfile,omitempty"`
	AcceptedTerms     bool        `json:"acceptedTerms"`
	MarketingOptIn    bool        `json:"marketingOptIn"`
	AccountCreated    bool        `json:"accountCreated"`
	RoleLocked        bool        `json:"roleLocked"`
}

// View snapshots the wizard.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Flavor:     c.flavor.Name,
		Step:       c.step,
		MinStep:    c.flavor.MinStep,
		MaxStep:    c.flavor.MaxStep(),
		Steps:      append([]StepKind(nil), c.flavor.Steps...),
		Complete:   c.complete,
		Submitting: c.submitting,
	}
	if c.complete {
		done := c.completion
		v.Completion = &done
		return v
	}

	v.Kind, _ = c.flavor.KindAt(c.step)
	d := c.draft.clone()
	v.Draft = &DraftView{
		FullName:          d.FullName,
		Email:             d.Email,
		Role:              d.Role,
		ProfilePictureRef: d.ProfilePictureRef,
		RoleProfile:       d.RoleProfile,
		AcceptedTerms:     d.AcceptedTerms,
		MarketingOptIn:    d.MarketingOptIn,
		AccountCreated:    d.AccountID != "",
		RoleLocked:        d.roleLocked,
	}
	return v
}
