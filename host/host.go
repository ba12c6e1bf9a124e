// Package host provides the coordinator the engine asks for the page's
// platform and the applicant profile.
package host

import (
	"context"
	"errors"
	"fmt"

	"github.com/hazyhaar/jobfill/profile"
	"github.com/hazyhaar/jobfill/profile/store"
)

// Coordinator answers the two requests the engine makes before filling.
// Either may fail or time out; the engine then falls back to defaults.
type Coordinator interface {
	DetectPlatform(ctx context.Context, pageURL string) (string, error)
	UserProfile(ctx context.Context) (profile.Profile, error)
}

// ProfileLoader loads a stored profile.
type ProfileLoader interface {
	LoadProfile(ctx context.Context, id string) (profile.Profile, error)
}

// Local serves profiles from the local store and detects platforms by host.
type Local struct {
	Profiles  ProfileLoader
	ProfileID string
	Detector  *Detector
}

// NewLocal creates a Local coordinator. An empty id uses the default profile.
func NewLocal(profiles ProfileLoader, id string, d *Detector) *Local {
	if id == "" {
		id = store.DefaultProfileID
	}
	if d == nil {
		d = MustDetector()
	}
	return &Local{Profiles: profiles, ProfileID: id, Detector: d}
}

func (l *Local) DetectPlatform(ctx context.Context, pageURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return l.Detector.Detect(pageURL), nil
}

func (l *Local) UserProfile(ctx context.Context) (profile.Profile, error) {
	if l.Profiles == nil {
		return nil, errors.New("host: no profile store")
	}
	p, err := l.Profiles.LoadProfile(ctx, l.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("host: user profile: %w", err)
	}
	return p, nil
}

// Static always returns the same profile, for dry runs from a JSON file.
type Static struct {
	Profile  profile.Profile
	Detector *Detector
}

func (s *Static) DetectPlatform(_ context.Context, pageURL string) (string, error) {
	d := s.Detector
	if d == nil {
		d = MustDetector()
	}
	return d.Detect(pageURL), nil
}

func (s *Static) UserProfile(context.Context) (profile.Profile, error) {
	if s.Profile == nil {
		return nil, errors.New("host: no profile")
	}
	return s.Profile.Clone(), nil
}
