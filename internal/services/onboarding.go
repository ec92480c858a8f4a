package services

import (
	"context"

	"github.com/AnshRaj112/innerbloom-companion/internal/flags"
	"github.com/AnshRaj112/innerbloom-companion/internal/models"
	"github.com/AnshRaj112/innerbloom-companion/internal/session"
)

// OnboardingState is what the SPA needs to pick its first screen.
type OnboardingState struct {
	ShowLanding       bool `json:"show_landing"`
	ShowWelcome       bool `json:"show_welcome"`
	HasDoneInitiation bool `json:"has_done_initiation"`
}

// Onboarding owns the one-time landing, welcome and initiation gates.
type Onboarding struct {
	flags   *flags.Flags
	session *session.Manager
}

func NewOnboarding(f *flags.Flags, s *session.Manager) *Onboarding {
	return &Onboarding{flags: f, session: s}
}

// ShouldShowLanding reports whether the landing page has never been left.
func (o *Onboarding) ShouldShowLanding(ctx context.Context) (bool, error) {
	seen, err := o.flags.Bool(ctx, models.FlagHasSeenLanding)
	return !seen, err
}

// StartBlooming leaves the landing page for good.
func (o *Onboarding) StartBlooming(ctx context.Context) error {
	return o.flags.SetBool(ctx, models.FlagHasSeenLanding, true)
}

// ConsumeWelcome reports whether the welcome message should show now. It is
// true at most once, and only while a user is logged in.
func (o *Onboarding) ConsumeWelcome(ctx context.Context) (bool, error) {
	if !o.session.Authenticated() {
		return false, nil
	}
	shown, err := o.flags.Bool(ctx, models.FlagWelcomeShown)
	if err != nil || shown {
		return false, err
	}
	if err := o.flags.SetBool(ctx, models.FlagWelcomeShown, true); err != nil {
		return false, err
	}
	return true, nil
}

// CompleteInitiation marks the initiation sequence done. A non-empty bloom
// name or backstory is stored on the current user.
func (o *Onboarding) CompleteInitiation(ctx context.Context, bloomName, backstory string) error {
	if err := o.flags.SetBool(ctx, models.FlagHasDoneInitiation, true); err != nil {
		return err
	}
	var patch models.UserPatch
	if bloomName != "" {
		patch.BloomName = &bloomName
	}
	if backstory != "" {
		patch.BloomBackstory = &backstory
	}
	if patch.BloomName != nil || patch.BloomBackstory != nil {
		o.session.UpdateUser(ctx, patch)
	}
	return nil
}

// State reads every gate, consuming the welcome message if it is due.
func (o *Onboarding) State(ctx context.Context) (OnboardingState, error) {
	var st OnboardingState
	var err error
	if st.ShowLanding, err = o.ShouldShowLanding(ctx); err != nil {
		return st, err
	}
	if st.HasDoneInitiation, err = o.flags.Bool(ctx, models.FlagHasDoneInitiation); err != nil {
		return st, err
	}
	st.ShowWelcome, err = o.ConsumeWelcome(ctx)
	return st, err
}
