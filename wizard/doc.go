// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package wizard implements the VibeAlong signup and onboarding state machine.

# Flavors

A Flavor is a declarative wizard: the step kinds in order and the number of
the first step. The built-in catalog (flavors.yaml) offers:

	simple    1: account-info, role-select, role-profile
	standard  1: account-info, role-select, profile-picture, role-profile
	guided    0: signup-choice, account-info, role-select, profile-picture, role-profile

The last step is always role-profile, which persists everything.

# Controller

A Controller owns one Draft and a current step number:

	c, err := wizard.NewController(flavor, wizard.Session{}, services)
	fb := c.Submit(ctx, wizard.Input{Account: &wizard.AccountInput{...}})

Submit runs the form (a leaf) for the current step. A leaf either reports
completion with a partial Update, which the controller merges before moving
on, or returns Feedback and the wizard stays where it is. Advance, Retreat,
SelectRole and Complete are the lower level transitions Submit is built on.
Retreat never discards draft fields.

# Role Profiles

Selecting a role decides which profile form the last step shows. Choosing a
different role clears the profile entered for the previous one; choosing the
same role again keeps it.

The role profile step validates its form and then calls, in order:

 1. Accounts.CreateAccount
 2. Records.InsertRecord("profiles", ...)
 3. Records.InsertRecord(<role table>, ...)

Each call that succeeds is recorded in the draft. When a later call fails,
resubmitting retries only what is missing, so an account is created at most
once per wizard.

# Sessions

A Store keeps wizards by random token and forgets them after an idle TTL.
Run the janitor with:

	go store.Run(ctx, time.Minute)
*/
package wizard
