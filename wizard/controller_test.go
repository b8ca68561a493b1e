// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wizard

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibealong/onboarding/auth"
	"github.com/vibealong/onboarding/backend"
	"github.com/vibealong/onboarding/db"
)

func flavorNamed(t *testing.T, name string) Flavor {
	t.Helper()
	f, err := DefaultCatalog().Lookup(name)
	require.NoError(t, err)
	return f
}

func newTestController(t *testing.T, flavor Flavor, fake *fakeBackend) *Controller {
	t.Helper()
	c, err := NewController(flavor, Session{}, fake.services())
	require.NoError(t, err)
	return c
}

func janeAccount() *AccountInput {
	return &AccountInput{
		FullName:        "Jane Doe",
		Email:           "jane@x.com",
		Password:        "12345678",
		ConfirmPassword: "12345678",
	}
}

func janeDeveloper() *DeveloperProfile {
	return &DeveloperProfile{
		ExperienceLevel: "mid",
		Skills:          []string{"react"},
		Tools:           []string{"chatgpt"},
		Availability:    "full-time",
		HourlyRate:      "50",
	}
}

// submitOK submits and fails the test on any feedback.
func submitOK(t *testing.T, c *Controller, in Input) {
	t.Helper()
	if fb := c.Submit(context.Background(), in); fb != nil {
		t.Fatalf("unexpected feedback at %s: %v", c.Kind(), fb)
	}
}

func TestNewController(t *testing.T) {
	fake := newFake()

	c := newTestController(t, flavorNamed(t, "simple"), fake)
	assert.Equal(t, 1, c.Step())
	assert.Equal(t, StepAccountInfo, c.Kind())
	assert.False(t, c.IsComplete())

	g := newTestController(t, flavorNamed(t, "guided"), fake)
	assert.Equal(t, 0, g.Step())
	assert.Equal(t, StepSignupChoice, g.Kind())

	_, err := NewController(Flavor{Name: "broken"}, Session{}, fake.services())
	assert.ErrorIs(t, err, ErrInvalidFlavor)

	_, err = NewController(flavorNamed(t, "simple"), Session{}, Services{})
	assert.Error(t, err)
}

func TestAdvanceRetreat_StepArithmetic(t *testing.T) {
	flavor := Flavor{
		Name:    "negative",
		MinStep: -2,
		Steps:   []StepKind{StepSignupChoice, StepAccountInfo, StepRoleSelect, StepProfilePicture, StepRoleProfile},
	}
	require.NoError(t, flavor.Validate())
	require.Equal(t, 2, flavor.MaxStep())

	// Every sequence of up to 7 moves, encoded as bits: 1 = advance.
	for n := 0; n <= 7; n++ {
		for bits := 0; bits < 1<<n; bits++ {
			c := newTestController(t, flavor, newFake())
			require.NoError(t, c.SelectRole(RoleDeveloper))

			want := flavor.MinStep
			inBounds := true
			advances, retreats := 0, 0
			for i := 0; i < n; i++ {
				if bits&(1<<i) != 0 {
					c.Advance(Update{})
					advances++
					if want == flavor.MaxStep() {
						inBounds = false
					} else {
						want++
					}
				} else {
					c.Retreat()
					retreats++
					if want == flavor.MinStep {
						inBounds = false
					} else {
						want--
					}
				}
			}

			seq := fmt.Sprintf("n=%d bits=%b", n, bits)
			assert.Equal(t, want, c.Step(), seq)
			if inBounds {
				assert.Equal(t, flavor.MinStep+advances-retreats, c.Step(), seq)
			}
		}
	}
}

func TestAdvance_RequiresRoleToLeaveRoleSelect(t *testing.T) {
	c := newTestController(t, flavorNamed(t, "simple"), newFake())

	c.Advance(Update{})
	require.Equal(t, StepRoleSelect, c.Kind())

	c.Advance(Update{FullName: ptr("Ada")})
	assert.Equal(t, StepRoleSelect, c.Kind(), "must not reach the role profile without a role")
	assert.Equal(t, "Ada", c.Draft().FullName, "update is still merged")

	require.NoError(t, c.SelectRole(RoleAgency))
	c.Advance(Update{})
	assert.Equal(t, StepRoleProfile, c.Kind())
}

func TestAdvance_MergeIsNonDestructive(t *testing.T) {
	c := newTestController(t, flavorNamed(t, "standard"), newFake())

	c.Advance(Update{FullName: ptr("Ada")})
	c.Retreat()
	assert.Equal(t, "Ada", c.Draft().FullName)

	c.Advance(Update{Email: ptr("ada@x.com")})
	d := c.Draft()
	assert.Equal(t, "Ada", d.FullName)
	assert.Equal(t, "ada@x.com", d.Email)

	require.NoError(t, c.SelectRole(RoleDeveloper))
	c.Advance(Update{RoleProfile: &DeveloperProfile{Skills: []string{"go", "sql"}, HourlyRate: "40"}})
	c.Advance(Update{RoleProfile: &DeveloperProfile{Skills: []string{"rust"}}})

	dev := c.Draft().RoleProfile.(*DeveloperProfile)
	assert.Equal(t, []string{"rust"}, dev.Skills, "slices are replaced, not appended")
	assert.Empty(t, dev.HourlyRate, "the role profile is replaced as a whole")
}

func TestDraft_ReturnsCopy(t *testing.T) {
	c := newTestController(t, flavorNamed(t, "simple"), newFake())
	require.NoError(t, c.SelectRole(RoleDeveloper))
	c.Advance(Update{RoleProfile: &DeveloperProfile{Skills: []string{"go"}}})

	d := c.Draft()
	d.RoleProfile.(*DeveloperProfile).Skills[0] = "changed"
	d.FullName = "changed"

	again := c.Draft()
	assert.Equal(t, "go", again.RoleProfile.(*DeveloperProfile).Skills[0])
	assert.Empty(t, again.FullName)
}

func TestSelectRole_ClearsProfileOfPreviousRole(t *testing.T) {
	c := newTestController(t, flavorNamed(t, "simple"), newFake())

	require.NoError(t, c.SelectRole(RoleDeveloper))
	c.Advance(Update{RoleProfile: janeDeveloper()})
	require.NotNil(t, c.Draft().RoleProfile)

	require.NoError(t, c.SelectRole(RoleDeveloper))
	assert.NotNil(t, c.Draft().RoleProfile, "same role keeps the profile")

	require.NoError(t, c.SelectRole(RoleAgency))
	d := c.Draft()
	assert.Equal(t, RoleAgency, d.Role)
	assert.Nil(t, d.RoleProfile, "developer fields must not leak into the agency profile")

	assert.ErrorIs(t, c.SelectRole("astronaut"), ErrUnknownRole)
	assert.ErrorIs(t, c.SelectRole(RoleUnset), ErrUnknownRole)
}

func TestMerge_DropsMismatchedRoleProfile(t *testing.T) {
	c := newTestController(t, flavorNamed(t, "simple"), newFake())

	c.Advance(Update{RoleProfile: janeDeveloper()})
	assert.Nil(t, c.Draft().RoleProfile, "no role selected yet")

	require.NoError(t, c.SelectRole(RoleAgency))
	c.Advance(Update{RoleProfile: janeDeveloper()})
	assert.Nil(t, c.Draft().RoleProfile)
}

func TestComplete_IsOneWay(t *testing.T) {
	c := newTestController(t, flavorNamed(t, "simple"), newFake())
	c.Advance(Update{Email: ptr("ada@x.com")})
	step := c.Step()

	c.Complete(Update{})
	require.True(t, c.IsComplete())

	c.Advance(Update{FullName: ptr("ignored")})
	c.Retreat()
	c.Complete(Update{Email: ptr("other@x.com")})

	assert.True(t, c.IsComplete())
	assert.Equal(t, step, c.Step())
	assert.Equal(t, Draft{}, c.Draft(), "draft is discarded on completion")
	assert.ErrorIs(t, c.SelectRole(RoleDeveloper), ErrProfileCompleted)

	done, ok := c.Completion()
	require.True(t, ok)
	assert.Equal(t, "ada@x.com", done.Email)
	assert.Equal(t, "/login", done.LoginURL)
	assert.Equal(t, "/", done.HomeURL)
}

func TestSubmit_JaneDoeEndToEnd(t *testing.T) {
	fake := newFake()
	c := newTestController(t, flavorNamed(t, "simple"), fake)

	submitOK(t, c, Input{Account: janeAccount()})
	require.Equal(t, StepRoleSelect, c.Kind())
	submitOK(t, c, Input{Role: "developer"})
	require.Equal(t, StepRoleProfile, c.Kind())
	submitOK(t, c, Input{Developer: janeDeveloper()})

	require.True(t, c.IsComplete())
	require.Len(t, fake.creates, 1)
	assert.Equal(t, "jane@x.com", fake.creates[0].email)
	assert.Equal(t, "12345678", fake.creates[0].password.Reveal())
	assert.Equal(t, backend.AccountAttributes{FullName: "Jane Doe", Role: "developer"}, fake.creates[0].attrs)

	assert.Equal(t, []string{db.TableProfiles, db.TableDeveloperProfiles}, fake.insertTables())
	base := fake.inserts[0].fields
	assert.Equal(t, "user-1", base["id"])
	assert.Equal(t, "jane@x.com", base["email"])
	assert.Equal(t, "Jane Doe", base["full_name"])
	assert.Equal(t, "developer", base["role"])

	dev := fake.inserts[1].fields
	assert.Equal(t, "user-1", dev["user_id"])
	assert.Equal(t, 50.0, dev["hourly_rate"])
	assert.Equal(t, []string{"react"}, dev["skills"])
	assert.Equal(t, "mid", dev["experience_level"])

	done, _ := c.Completion()
	assert.Equal(t, "jane@x.com", done.Email)
}

func TestSubmit_DirectTransitions(t *testing.T) {
	fake := newFake()
	c := newTestController(t, flavorNamed(t, "simple"), fake)

	c.Advance(Update{FullName: ptr("Jane Doe"), Email: ptr("jane@x.com"), Password: ptr(auth.Secret("12345678"))})
	require.NoError(t, c.SelectRole(RoleDeveloper))
	c.Advance(Update{})
	submitOK(t, c, Input{Developer: janeDeveloper()})

	assert.True(t, c.IsComplete())
	assert.Equal(t, 1, fake.createCount())
	assert.Len(t, fake.insertTables(), 2)
}

func TestSubmit_DuplicateEmail(t *testing.T) {
	fake := newFake()
	fake.createErr = fmt.Errorf("create account: %w", backend.ErrDuplicateEmail)
	c := newTestController(t, flavorNamed(t, "simple"), fake)

	submitOK(t, c, Input{Account: janeAccount()})
	submitOK(t, c, Input{Role: "developer"})
	fb := c.Submit(context.Background(), Input{Developer: janeDeveloper()})

	require.NotNil(t, fb)
	assert.Equal(t, FeedbackDuplicateIdentity, fb.Kind)
	assert.False(t, c.IsComplete())
	assert.Equal(t, StepRoleProfile, c.Kind())
	assert.Equal(t, 1, fake.createCount())
	assert.Empty(t, fake.insertTables())

	d := c.Draft()
	require.IsType(t, &DeveloperProfile{}, d.RoleProfile)
	assert.Equal(t, "50", d.RoleProfile.(*DeveloperProfile).HourlyRate)
	assert.Empty(t, d.AccountID)
}

func TestSubmit_CreateAccountFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FeedbackKind
	}{
		{"weak password", backend.ErrWeakPassword, FeedbackValidation},
		{"network", fmt.Errorf("dial: %w", backend.ErrNetwork), FeedbackPersistence},
		{"unclassified", errors.New("boom"), FeedbackPersistence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFake()
			fake.createErr = tt.err
			c := newTestController(t, flavorNamed(t, "simple"), fake)
			submitOK(t, c, Input{Account: janeAccount()})
			submitOK(t, c, Input{Role: "developer"})

			fb := c.Submit(context.Background(), Input{Developer: janeDeveloper()})
			require.NotNil(t, fb)
			assert.Equal(t, tt.want, fb.Kind)
			assert.False(t, c.IsComplete())
			assert.Empty(t, fake.insertTables())
		})
	}
}

func TestSubmit_AgencyZeroDevelopersMakesNoCalls(t *testing.T) {
	fake := newFake()
	c := newTestController(t, flavorNamed(t, "simple"), fake)
	submitOK(t, c, Input{Account: janeAccount()})
	submitOK(t, c, Input{Role: "agency"})

	fb := c.Submit(context.Background(), Input{Agency: &AgencyProfile{
		AgencyName:     "Acme",
		ContactEmail:   "hello@acme.io",
		DeveloperCount: "0",
	}})

	require.NotNil(t, fb)
	assert.Equal(t, FeedbackValidation, fb.Kind)
	assert.Contains(t, fb.Fields, "developerCount")
	assert.Zero(t, fake.totalCalls())
	assert.False(t, c.IsComplete())
	assert.Nil(t, c.Draft().RoleProfile, "a rejected form leaves the draft untouched")
}

func TestSubmit_TwiceCreatesOneAccount(t *testing.T) {
	fake := newFake()
	c := newTestController(t, flavorNamed(t, "simple"), fake)
	submitOK(t, c, Input{Account: janeAccount()})
	submitOK(t, c, Input{Role: "developer"})
	submitOK(t, c, Input{Developer: janeDeveloper()})

	assert.Nil(t, c.Submit(context.Background(), Input{Developer: janeDeveloper()}))
	c.Complete(Update{})

	assert.Equal(t, 1, fake.createCount())
	assert.Len(t, fake.insertTables(), 2)
}

func TestSubmit_ConcurrentSubmissionIsRejected(t *testing.T) {
	fake := newFake()
	c := newTestController(t, flavorNamed(t, "simple"), fake)
	submitOK(t, c, Input{Account: janeAccount()})
	submitOK(t, c, Input{Role: "developer"})

	fake.started = make(chan struct{})
	fake.release = make(chan struct{})

	first := make(chan *Feedback)
	go func() {
		first <- c.Submit(context.Background(), Input{Developer: janeDeveloper()})
	}()
	<-fake.started

	assert.True(t, c.Submitting())
	fb := c.Submit(context.Background(), Input{Developer: janeDeveloper()})
	require.NotNil(t, fb)
	assert.Equal(t, FeedbackInFlight, fb.Kind)

	c.Retreat()
	assert.Equal(t, StepRoleProfile, c.Kind(), "no navigation while submitting")

	assert.ErrorIs(t, c.SelectRole(RoleAgency), ErrSubmitting)
	c.Complete(Update{})
	assert.False(t, c.IsComplete(), "complete waits for the running submission")

	close(fake.release)
	assert.Nil(t, <-first)
	assert.True(t, c.IsComplete())
	assert.Equal(t, 1, fake.createCount())
}

func TestSubmit_PartialFailureRetriesOnlyMissingInserts(t *testing.T) {
	fake := newFake()
	fake.insertErr[db.TableDeveloperProfiles] = backend.ErrNetwork
	c := newTestController(t, flavorNamed(t, "simple"), fake)
	submitOK(t, c, Input{Account: janeAccount()})
	submitOK(t, c, Input{Role: "developer"})

	fb := c.Submit(context.Background(), Input{Developer: janeDeveloper()})
	require.NotNil(t, fb)
	assert.Equal(t, FeedbackPersistence, fb.Kind)
	assert.False(t, c.IsComplete())

	d := c.Draft()
	assert.Equal(t, "user-1", d.AccountID)
	assert.True(t, d.ProfileStored)
	assert.True(t, d.Password.Empty(), "password is dropped once the account exists")

	delete(fake.insertErr, db.TableDeveloperProfiles)
	submitOK(t, c, Input{Developer: janeDeveloper()})

	assert.True(t, c.IsComplete())
	assert.Equal(t, 1, fake.createCount())
	assert.Equal(t, []string{db.TableProfiles, db.TableDeveloperProfiles, db.TableDeveloperProfiles}, fake.insertTables())
	assert.Equal(t, "user-1", fake.inserts[2].fields["user_id"])
}

func TestSubmit_RoleIsFixedAfterPartialFailure(t *testing.T) {
	fake := newFake()
	fake.insertErr[db.TableDeveloperProfiles] = backend.ErrNetwork
	c := newTestController(t, flavorNamed(t, "simple"), fake)
	submitOK(t, c, Input{Account: janeAccount()})
	submitOK(t, c, Input{Role: "developer"})

	fb := c.Submit(context.Background(), Input{Developer: janeDeveloper()})
	require.NotNil(t, fb)
	delete(fake.insertErr, db.TableDeveloperProfiles)

	c.Retreat()
	require.Equal(t, StepRoleSelect, c.Kind())

	fb = c.Submit(context.Background(), Input{Role: "agency"})
	require.NotNil(t, fb)
	assert.Equal(t, FeedbackValidation, fb.Kind)
	assert.Equal(t, ErrRoleFixed.Error(), fb.Fields["role"])
	assert.Equal(t, StepRoleSelect, c.Kind())
	assert.ErrorIs(t, c.SelectRole(RoleAgency), ErrRoleFixed)
	assert.Equal(t, RoleDeveloper, c.Draft().Role)

	// The stored role can still be confirmed and finished.
	submitOK(t, c, Input{Role: "developer"})
	fb = c.Submit(context.Background(), Input{Agency: &AgencyProfile{
		AgencyName:     "Acme",
		ContactEmail:   "hello@acme.io",
		DeveloperCount: "3",
	}})
	require.NotNil(t, fb, "an agency form cannot finish a developer signup")
	submitOK(t, c, Input{Developer: janeDeveloper()})

	require.True(t, c.IsComplete())
	assert.Equal(t, 1, fake.createCount())
	assert.Equal(t, "developer", fake.creates[0].attrs.Role)
	assert.Equal(t, []string{db.TableProfiles, db.TableDeveloperProfiles, db.TableDeveloperProfiles}, fake.insertTables())
}

func TestSelectRole_FreeBeforeAnythingIsStored(t *testing.T) {
	c, err := NewController(flavorNamed(t, "simple"), Session{AccountID: "acct-9", Email: "ada@x.com"}, newFake().services())
	require.NoError(t, err)

	require.NoError(t, c.SelectRole(RoleDeveloper))
	require.NoError(t, c.SelectRole(RoleAgency), "an existing account without a profile may still choose")
}

func TestSubmit_BaseProfileFailureRetries(t *testing.T) {
	fake := newFake()
	fake.insertErr[db.TableProfiles] = backend.ErrConstraintViolation
	c := newTestController(t, flavorNamed(t, "simple"), fake)
	submitOK(t, c, Input{Account: janeAccount()})
	submitOK(t, c, Input{Role: "vibe-coder"})

	vibe := &VibeCoderProfile{
		Tagline:                "ship it fast",
		FrequentTaskTypes:      []string{"landing pages"},
		Tools:                  []string{"cursor"},
		EstimatedMonthlyBudget: "0",
	}
	fb := c.Submit(context.Background(), Input{VibeCoder: vibe})
	require.NotNil(t, fb)
	assert.Equal(t, FeedbackPersistence, fb.Kind)
	assert.Equal(t, []string{db.TableProfiles}, fake.insertTables())
	assert.False(t, c.Draft().ProfileStored)

	delete(fake.insertErr, db.TableProfiles)
	submitOK(t, c, Input{VibeCoder: vibe})

	assert.Equal(t, 1, fake.createCount())
	assert.Equal(t, []string{db.TableProfiles, db.TableProfiles, db.TableVibeCoderProfiles}, fake.insertTables())
	assert.Equal(t, 0.0, fake.inserts[2].fields["estimated_monthly_budget"])
}

func TestSubmit_AuthenticatedSession(t *testing.T) {
	fake := newFake()
	session := Session{AccountID: "acct-9", Email: "ada@x.com", FullName: "Ada"}
	c, err := NewController(flavorNamed(t, "simple"), session, fake.services())
	require.NoError(t, err)

	assert.Equal(t, []StepKind{StepRoleSelect, StepRoleProfile}, c.Flavor().Steps)
	assert.Equal(t, StepRoleSelect, c.Kind())

	submitOK(t, c, Input{Role: "agency"})
	submitOK(t, c, Input{Agency: &AgencyProfile{
		AgencyName:     "Acme",
		ContactEmail:   "Hello@Acme.io",
		Website:        "https://acme.io",
		DeveloperCount: "12",
	}})

	require.True(t, c.IsComplete())
	assert.Zero(t, fake.createCount())
	assert.Equal(t, []string{db.TableProfiles, db.TableAgencyProfiles}, fake.insertTables())
	assert.Equal(t, "acct-9", fake.inserts[0].fields["id"])

	agency := fake.inserts[1].fields
	assert.Equal(t, "acct-9", agency["user_id"])
	assert.Equal(t, 12, agency["developer_count"])
	assert.Equal(t, "hello@acme.io", agency["contact_email"])
	assert.Equal(t, "https://acme.io", agency["website"])

	done, _ := c.Completion()
	assert.Equal(t, "ada@x.com", done.Email)
}

func TestSubmit_AuthenticatedSessionWithStoredProfile(t *testing.T) {
	fake := newFake()
	session := Session{AccountID: "acct-9", Email: "ada@x.com", FullName: "Ada", Role: RoleDeveloper, ProfileStored: true}
	c, err := NewController(flavorNamed(t, "standard"), session, fake.services())
	require.NoError(t, err)

	assert.Equal(t, StepRoleProfile, c.Kind(), "only the role profile is missing")
	d := c.Draft()
	assert.Equal(t, RoleDeveloper, d.Role)
	assert.True(t, d.ProfileStored)
	assert.ErrorIs(t, c.SelectRole(RoleVibeCoder), ErrRoleFixed)

	submitOK(t, c, Input{Developer: janeDeveloper()})

	require.True(t, c.IsComplete())
	assert.Zero(t, fake.createCount())
	assert.Equal(t, []string{db.TableDeveloperProfiles}, fake.insertTables())
	assert.Equal(t, "acct-9", fake.inserts[0].fields["user_id"])

	_, err = NewController(flavorNamed(t, "simple"), Session{AccountID: "acct-9", Role: "astronaut", ProfileStored: true}, fake.services())
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestSubmit_AccountValidation(t *testing.T) {
	tests := []struct {
		name   string
		input  *AccountInput
		fields []string
	}{
		{"missing form", nil, []string{"fullName", "email", "password"}},
		{"short name", &AccountInput{FullName: " J ", Email: "j@x.com", Password: "12345678", ConfirmPassword: "12345678"}, []string{"fullName"}},
		{"bad email", &AccountInput{FullName: "Jane", Email: "jane", Password: "12345678", ConfirmPassword: "12345678"}, []string{"email"}},
		{"short password", &AccountInput{FullName: "Jane", Email: "j@x.com", Password: "1234567", ConfirmPassword: "1234567"}, []string{"password"}},
		{"mismatch", &AccountInput{FullName: "Jane", Email: "j@x.com", Password: "12345678", ConfirmPassword: "87654321"}, []string{"confirmPassword"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFake()
			c := newTestController(t, flavorNamed(t, "standard"), fake)

			fb := c.Submit(context.Background(), Input{Account: tt.input})
			require.NotNil(t, fb)
			assert.Equal(t, FeedbackValidation, fb.Kind)
			for _, f := range tt.fields {
				assert.Contains(t, fb.Fields, f)
			}
			assert.Len(t, fb.Fields, len(tt.fields))
			assert.Equal(t, StepAccountInfo, c.Kind())
			assert.Zero(t, fake.totalCalls())
		})
	}
}

func TestSubmit_AccountNormalizesInput(t *testing.T) {
	c := newTestController(t, flavorNamed(t, "simple"), newFake())
	submitOK(t, c, Input{Account: &AccountInput{
		FullName:        "  Jane Doe ",
		Email:           " Jane@X.com",
		Password:        "12345678",
		ConfirmPassword: "12345678",
	}})

	d := c.Draft()
	assert.Equal(t, "Jane Doe", d.FullName)
	assert.Equal(t, "jane@x.com", d.Email)
}

func TestSubmit_EmailAvailability(t *testing.T) {
	fake := newFake()
	fake.existing["jane@x.com"] = true
	c := newTestController(t, flavorNamed(t, "standard"), fake)

	fb := c.Submit(context.Background(), Input{Account: janeAccount()})
	require.NotNil(t, fb)
	assert.Equal(t, FeedbackDuplicateIdentity, fb.Kind)
	assert.Equal(t, StepAccountInfo, c.Kind())

	fake.lookupErr = backend.ErrNetwork
	fb = c.Submit(context.Background(), Input{Account: janeAccount()})
	require.NotNil(t, fb)
	assert.Equal(t, FeedbackPersistence, fb.Kind)

	// The simple flavor doesn't ask.
	plain := newFake()
	plain.existing["jane@x.com"] = true
	s := newTestController(t, flavorNamed(t, "simple"), plain)
	submitOK(t, s, Input{Account: janeAccount()})
	assert.Empty(t, plain.lookups)
}

func TestSubmit_RoleSelect(t *testing.T) {
	c := newTestController(t, flavorNamed(t, "simple"), newFake())
	submitOK(t, c, Input{Account: janeAccount()})

	fb := c.Submit(context.Background(), Input{Role: "manager"})
	require.NotNil(t, fb)
	assert.Contains(t, fb.Fields, "role")
	assert.Equal(t, StepRoleSelect, c.Kind())

	submitOK(t, c, Input{Role: "vibe-coder"})
	assert.Equal(t, RoleVibeCoder, c.Draft().Role)
}

func TestSubmit_GuidedFlowCarriesOptIn(t *testing.T) {
	fake := newFake()
	c := newTestController(t, flavorNamed(t, "guided"), fake)

	fb := c.Submit(context.Background(), Input{Choice: &ChoiceInput{MarketingOptIn: true}})
	require.NotNil(t, fb)
	assert.Contains(t, fb.Fields, "acceptTerms")

	submitOK(t, c, Input{Choice: &ChoiceInput{AcceptTerms: true, MarketingOptIn: true}})
	submitOK(t, c, Input{Account: janeAccount()})
	submitOK(t, c, Input{Role: "developer"})
	require.Equal(t, StepProfilePicture, c.Kind())
	submitOK(t, c, Input{})
	submitOK(t, c, Input{Developer: janeDeveloper()})

	require.True(t, c.IsComplete())
	assert.Empty(t, fake.uploads)
	assert.Equal(t, true, fake.inserts[0].fields["marketing_opt_in"])
	assert.NotContains(t, fake.inserts[0].fields, "avatar_url")
}

func TestSubmit_MissingAccountDetailsAtTerminalStep(t *testing.T) {
	fake := newFake()
	c := newTestController(t, flavorNamed(t, "simple"), fake)
	c.Advance(Update{})
	require.NoError(t, c.SelectRole(RoleDeveloper))
	c.Advance(Update{})

	fb := c.Submit(context.Background(), Input{Developer: janeDeveloper()})
	require.NotNil(t, fb)
	assert.Equal(t, FeedbackValidation, fb.Kind)
	assert.Contains(t, fb.Fields, "email")
	assert.Zero(t, fake.totalCalls())
}

func TestSubmit_ProfileFormMissing(t *testing.T) {
	fake := newFake()
	c := newTestController(t, flavorNamed(t, "simple"), fake)
	submitOK(t, c, Input{Account: janeAccount()})
	submitOK(t, c, Input{Role: "developer"})

	fb := c.Submit(context.Background(), Input{Agency: &AgencyProfile{}})
	require.NotNil(t, fb)
	assert.Contains(t, fb.Fields, "developer")
	assert.Zero(t, fake.totalCalls())
}

func TestView_HidesPassword(t *testing.T) {
	c := newTestController(t, flavorNamed(t, "simple"), newFake())
	submitOK(t, c, Input{Account: janeAccount()})

	v := c.View()
	assert.Equal(t, "simple", v.Flavor)
	assert.Equal(t, 2, v.Step)
	assert.Equal(t, 1, v.MinStep)
	assert.Equal(t, 3, v.MaxStep)
	assert.Equal(t, StepRoleSelect, v.Kind)
	require.NotNil(t, v.Draft)
	assert.Equal(t, "jane@x.com", v.Draft.Email)
	assert.Nil(t, v.Completion)

	c.Complete(Update{})
	v = c.View()
	assert.True(t, v.Complete)
	assert.Nil(t, v.Draft)
	require.NotNil(t, v.Completion)
	assert.Equal(t, "jane@x.com", v.Completion.Email)
}
