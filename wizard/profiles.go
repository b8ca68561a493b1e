// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wizard

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/vibealong/onboarding/backend"
	"github.com/vibealong/onboarding/db"
)

// profileVariant describes one role's profile form and where it is stored.
type profileVariant struct {
	input  string // name of the Input field
	table  string
	pick   func(Input) RoleProfile
	fields func(userID string, p RoleProfile) map[string]any
}

var profileVariants = map[Role]profileVariant{
	RoleDeveloper: {
		input: "developer",
		table: db.TableDeveloperProfiles,
		pick: func(in Input) RoleProfile {
			if in.Developer == nil {
				return nil
			}
			return in.Developer
		},
		fields: func(userID string, p RoleProfile) map[string]any {
			dev := p.(*DeveloperProfile)
			rate, _ := parseNumber(dev.HourlyRate)
			return map[string]any{
				"user_id":          userID,
				"experience_level": dev.ExperienceLevel,
				"skills":           dev.Skills,
				"tools":            dev.Tools,
				"availability":     dev.Availability,
				"hourly_rate":      rate,
			}
		},
	},
	RoleVibeCoder: {
		input: "vibeCoder",
		table: db.TableVibeCoderProfiles,
		pick: func(in Input) RoleProfile {
			if in.VibeCoder == nil {
				return nil
			}
			return in.VibeCoder
		},
		fields: func(userID string, p RoleProfile) map[string]any {
			vc := p.(*VibeCoderProfile)
			budget, _ := parseNumber(vc.EstimatedMonthlyBudget)
			return map[string]any{
				"user_id":                  userID,
				"tagline":                  vc.Tagline,
				"frequent_task_types":      vc.FrequentTaskTypes,
				"tools":                    vc.Tools,
				"estimated_monthly_budget": budget,
			}
		},
	},
	RoleAgency: {
		input: "agency",
		table: db.TableAgencyProfiles,
		pick: func(in Input) RoleProfile {
			if in.Agency == nil {
				return nil
			}
			return in.Agency
		},
		fields: func(userID string, p RoleProfile) map[string]any {
			ag := p.(*AgencyProfile)
			count, _ := strconv.Atoi(strings.TrimSpace(ag.DeveloperCount))
			f := map[string]any{
				"user_id":         userID,
				"agency_name":     ag.AgencyName,
				"contact_email":   backend.NormalizeEmail(ag.ContactEmail),
				"developer_count": count,
			}
			if ag.Website != "" {
				f["website"] = ag.Website
			}
			return f
		},
	},
}

// roleProfileLeaf is the terminal step. It validates the role's form, then
// creates the account, the base profile and the role profile, strictly in
// that order. Whatever already succeeded on an earlier attempt is skipped.
type roleProfileLeaf struct{}

func (roleProfileLeaf) submit(ctx context.Context, env stepEnv, in Input) outcome {
	d := env.draft
	variant, ok := profileVariants[d.Role]
	if !ok {
		return rejected(invalidField("role", "choose a role first"))
	}

	profile := variant.pick(in)
	if profile == nil {
		return rejected(invalidField(variant.input, "profile details are required"))
	}
	if fields := check(profile); fields != nil {
		return rejected(invalid(fields))
	}
	if d.AccountID == "" {
		acct := AccountInput{FullName: d.FullName, Email: d.Email, Password: d.Password, ConfirmPassword: d.Password}
		if fields := check(acct); fields != nil {
			fb := invalid(fields)
			fb.Message = "Your account details are incomplete. Go back and fill them in."
			return rejected(fb)
		}
	}

	upd := Update{RoleProfile: profile}

	accountID := d.AccountID
	if accountID == "" {
		acct, err := env.services.Accounts.CreateAccount(ctx, d.Email, d.Password, backend.AccountAttributes{
			FullName:  d.FullName,
			Role:      string(d.Role),
			AvatarURL: d.ProfilePictureRef,
		})
		if err != nil {
			slog.Error("account creation failed", "role", d.Role, "error", err)
			return outcome{update: upd, feedback: accountFailure(err)}
		}
		accountID = acct.ID
		upd.AccountID = ptr(accountID)
	}

	if !d.ProfileStored {
		base := map[string]any{
			"id":               accountID,
			"email":            d.Email,
			"full_name":        d.FullName,
			"role":             string(d.Role),
			"marketing_opt_in": d.MarketingOptIn,
			"created_at":       env.now(),
		}
		if d.ProfilePictureRef != "" {
			base["avatar_url"] = d.ProfilePictureRef
		}
		if err := env.services.Records.InsertRecord(ctx, db.TableProfiles, base); err != nil {
			slog.Error("profile insert failed", "account_id", accountID, "error", err)
			return outcome{update: upd, feedback: persistenceFailed()}
		}
		upd.ProfileStored = ptr(true)
	}

	fields := variant.fields(accountID, profile)
	fields["created_at"] = env.now()
	if err := env.services.Records.InsertRecord(ctx, variant.table, fields); err != nil {
		slog.Error("role profile insert failed", "account_id", accountID, "table", variant.table, "error", err)
		return outcome{update: upd, feedback: persistenceFailed()}
	}

	slog.Info("onboarding persisted", "account_id", accountID, "role", d.Role)
	return outcome{update: upd, done: true}
}

func accountFailure(err error) *Feedback {
	switch {
	case errors.Is(err, backend.ErrDuplicateEmail):
		return duplicateIdentity()
	case errors.Is(err, backend.ErrWeakPassword):
		fb := invalidField("password", "choose a stronger password")
		fb.Message = "Your password was rejected. Go back and choose another one."
		return fb
	default:
		return persistenceFailed()
	}
}
