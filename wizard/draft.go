// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wizard

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/vibealong/onboarding/auth"
)

// Role selects which profile fields the wizard collects.
type Role string

const (
	RoleUnset     Role = ""
	RoleDeveloper Role = "developer"
	RoleVibeCoder Role = "vibe-coder"
	RoleAgency    Role = "agency"
)

// Roles lists every selectable role.
var Roles = []Role{RoleDeveloper, RoleVibeCoder, RoleAgency}

// ParseRole accepts the wire value of a role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !slices.Contains(Roles, r) {
		return RoleUnset, fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

// RoleProfile is the role-specific part of the draft. Exactly one concrete
// type exists per role.
type RoleProfile interface {
	Role() Role
	clone() RoleProfile
}

type DeveloperProfile struct {
	ExperienceLevel string   `json:"experienceLevel" validate:"required,oneof=junior mid senior lead"`
	Skills          []string `json:"skills" validate:"min=1,dive,required"`
	Tools           []string `json:"tools" validate:"min=1,dive,required"`
	Availability    string   `json:"availability" validate:"required,oneof=full-time part-time occasional"`
	HourlyRate      string   `json:"hourlyRate" validate:"required,positive_number"`
}

func (p *DeveloperProfile) Role() Role { return RoleDeveloper }

func (p *DeveloperProfile) clone() RoleProfile {
	c := *p
	c.Skills = slices.Clone(p.Skills)
	c.Tools = slices.Clone(p.Tools)
	return &c
}

type VibeCoderProfile struct {
	Tagline                string   `json:"tagline" validate:"min=5,max=100"`
	FrequentTaskTypes      []string `json:"frequentTaskTypes" validate:"min=1,dive,required"`
	Tools                  []string `json:"tools" validate:"min=1,dive,required"`
	EstimatedMonthlyBudget string   `json:"estimatedMonthlyBudget" validate:"required,nonnegative_number"`
}

func (p *VibeCoderProfile) Role() Role { return RoleVibeCoder }

func (p *VibeCoderProfile) clone() RoleProfile {
	c := *p
	c.FrequentTaskTypes = slices.Clone(p.FrequentTaskTypes)
	c.Tools = slices.Clone(p.Tools)
	return &c
}

type AgencyProfile struct {
	AgencyName     string `json:"agencyName" validate:"min=2"`
	ContactEmail   string `json:"contactEmail" validate:"required,email"`
	Website        string `json:"website" validate:"omitempty,http_url"`
	DeveloperCount string `json:"developerCount" validate:"required,positive_integer"`
}

func (p *AgencyProfile) Role() Role { return RoleAgency }

func (p *AgencyProfile) clone() RoleProfile {
	c := *p
	return &c
}

// Draft is the not-yet-persisted signup data. The Controller owns it and
// hands out copies only.
type Draft struct {
	FullName          string
	Email             string
	Password          auth.Secret
	Role              Role
	ProfilePictureRef string
	RoleProfile       RoleProfile
	AcceptedTerms     bool
	MarketingOptIn    bool

	// Side effect bookkeeping. AccountID is set once CreateAccount has
	// succeeded; from then on the account is never created again.
	AccountID     string
	ProfileStored bool

	// roleLocked is set once a record carrying the role has been written.
	roleLocked    bool
	pictureDigest string
}

func (d Draft) clone() Draft {
	c := d
	if d.RoleProfile != nil {
		c.RoleProfile = d.RoleProfile.clone()
	}
	return c
}

// Update is a partial draft. Nil fields are left alone; set fields replace
// the draft value wholesale (slices included).
type Update struct {
	FullName          *string
	Email             *string
	Password          *auth.Secret
	ProfilePictureRef *string
	RoleProfile       RoleProfile
	AcceptedTerms     *bool
	MarketingOptIn    *bool
	AccountID         *string
	ProfileStored     *bool

	pictureDigest *string
}

// Empty reports whether applying u would change nothing.
func (u Update) Empty() bool {
	return u == Update{}
}

// merge applies u to d, last write wins per field.
func (d *Draft) merge(u Update) {
	if u.FullName != nil {
		d.FullName = *u.FullName
	}
	if u.Email != nil {
		d.Email = *u.Email
	}
	if u.Password != nil {
		d.Password = *u.Password
	}
	if u.ProfilePictureRef != nil {
		d.ProfilePictureRef = *u.ProfilePictureRef
	}
	if u.pictureDigest != nil {
		d.pictureDigest = *u.pictureDigest
	}
	if u.AcceptedTerms != nil {
		d.AcceptedTerms = *u.AcceptedTerms
	}
	if u.MarketingOptIn != nil {
		d.MarketingOptIn = *u.MarketingOptIn
	}
	if u.RoleProfile != nil {
		switch {
		case d.Role == RoleUnset:
			slog.Warn("dropping role profile: no role selected", "profile_role", u.RoleProfile.Role())
		case u.RoleProfile.Role() != d.Role:
			slog.Warn("dropping role profile for another role",
				"role", d.Role, "profile_role", u.RoleProfile.Role())
		default:
			d.RoleProfile = u.RoleProfile.clone()
		}
	}
	if u.AccountID != nil {
		d.AccountID = *u.AccountID
		// The plaintext password has no use once the account exists.
		if d.AccountID != "" {
			d.Password = ""
			d.roleLocked = true
		}
	}
	if u.ProfileStored != nil {
		d.ProfileStored = *u.ProfileStored
		if d.ProfileStored {
			d.roleLocked = true
		}
	}
}

// roleFixed reports whether r would replace a role that is already stored.
func (d *Draft) roleFixed(r Role) bool {
	return d.roleLocked && r != d.Role
}

// setRole changes the role. Switching to a different role discards the
// profile entered for the old one.
func (d *Draft) setRole(r Role) {
	if d.Role == r {
		return
	}
	if d.RoleProfile != nil {
		slog.Info("role changed, clearing role profile", "from", d.Role, "to", r)
	}
	d.Role = r
	d.RoleProfile = nil
}

func ptr[T any](v T) *T {
	return &v
}
