package agenda

import (
	"errors"
	"fmt"

	"github.com/amonks/agenda/internal/kv"
	internalstrings "github.com/amonks/agenda/internal/strings"
	"github.com/amonks/agenda/view"
)

// ErrEmptyName is returned when onboarding with a blank name.
var ErrEmptyName = errors.New("name cannot be empty")

// Profile is what onboarding records about the user.
type Profile struct {
	Name string `json:"name"`
}

func (a *Agenda) restoreProfile() error {
	var profile Profile
	ok, err := kv.LoadObject(a.store, kv.KeyProfile, &profile, a.logger)
	if err != nil {
		return fmt.Errorf("restore profile: %w", err)
	}
	if !ok {
		profile = Profile{}
	}
	profile.Name = internalstrings.NormalizeWhitespace(profile.Name)
	a.profile = profile
	a.onboarded = profile.Name != ""
	return nil
}

// Profile returns the stored profile and whether onboarding has happened.
func (a *Agenda) Profile() (Profile, bool) {
	return a.profile, a.onboarded
}

// SetName completes onboarding with the user's display name.
func (a *Agenda) SetName(name string) (Profile, error) {
	name = internalstrings.NormalizeWhitespace(name)
	if name == "" {
		return Profile{}, ErrEmptyName
	}
	profile := Profile{Name: name}
	if err := kv.SaveObject(a.store, kv.KeyProfile, profile); err != nil {
		return Profile{}, fmt.Errorf("write profile: %w", err)
	}
	a.profile = profile
	a.onboarded = true
	return profile, nil
}

// Greeting returns the greeting line and the header date for now.
func (a *Agenda) Greeting() (string, string) {
	now := a.clock.Now()
	return view.GreetingLine(now, a.profile.Name), view.HeaderDate(now)
}
