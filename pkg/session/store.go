// Package session mediates the current authentication identity and its
// derived profile against the remote auth service.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/supabase"
)

// Store owns the auth state for one consuming view: the current session,
// the identity, and the lazily provisioned profile. It subscribes to auth
// state changes for its lifetime; Close unsubscribes and arms a liveness
// guard so results landing after teardown are dropped.
type Store struct {
	client   *supabase.Client
	profiles *Profiles
	logger   *slog.Logger

	mu      sync.RWMutex
	user    *supabase.User
	session *supabase.Session
	profile *models.Profile
	loading bool
	alive   bool

	unsubscribe func()
}

// NewStore builds a store, resolves the current session, and loads or
// provisions the profile when a user is signed in.
func NewStore(ctx context.Context, client *supabase.Client, logger *slog.Logger) (*Store, error) {
	s := &Store{
		client:   client,
		profiles: NewProfiles(client, logger),
		logger:   logger,
		loading:  true,
		alive:    true,
	}

	unsubscribe, err := client.OnAuthStateChange(s.handleAuthChange)
	if err != nil {
		return nil, err
	}

	s.unsubscribe = unsubscribe

	current := client.CurrentSession()
	s.applySession(current)

	if current != nil && current.User != nil {
		s.loadProfile(ctx, current)
	}

	s.setLoading(false)

	return s, nil
}

// Close tears the store down. Subsequent notifications are ignored.
func (s *Store) Close() {
	s.mu.Lock()
	s.alive = false
	s.mu.Unlock()

	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// SignIn authenticates with email and password and loads the profile.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	session, err := s.client.SignInWithPassword(ctx, email, password)
	if err != nil {
		return err
	}

	s.applySession(session)
	s.loadProfile(ctx, session)

	return nil
}

// SignUp registers a new identity. The profile is created immediately only
// when the returned identity is already confirmed; otherwise provisioning
// happens on first sign-in.
func (s *Store) SignUp(ctx context.Context, email, password, fullName string) (*supabase.SignUpResult, error) {
	result, err := s.client.SignUp(ctx, email, password, fullName)
	if err != nil {
		return nil, err
	}

	if result.User != nil && result.User.EmailConfirmedAt != nil {
		token := ""
		if result.Session != nil {
			token = result.Session.AccessToken
		}

		profile, err := s.profiles.Create(ctx, token, result.User.ID)
		if err != nil {
			s.logger.Error("Failed to create profile after sign-up", "error", err)
		} else {
			s.setProfile(profile)
		}
	}

	return result, nil
}

// SignOut delegates to the auth service and clears local state.
func (s *Store) SignOut(ctx context.Context) error {
	err := s.client.SignOut(ctx)

	s.applySession(nil)
	s.setProfile(nil)

	return err
}

// GetJWT returns the current access token, failing with
// supabase.ErrNoSession when signed out.
func (s *Store) GetJWT() (string, error) {
	return s.client.AccessToken()
}

// IsAuthenticated reports whether a user is signed in.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.user != nil
}

// User returns the signed-in identity, or nil.
func (s *Store) User() *supabase.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.user
}

// Profile returns the loaded profile, or nil when absent or still loading.
func (s *Store) Profile() *models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.profile
}

// Loading reports whether the initial auth resolution is still in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loading
}

func (s *Store) handleAuthChange(change supabase.AuthChange) {
	if !s.isAlive() {
		return
	}

	ctx := context.Background()

	s.applySession(change.Session)

	if change.Session != nil && change.Session.User != nil {
		// Skip the refetch when the same profile is already loaded.
		s.mu.RLock()
		current := s.profile
		s.mu.RUnlock()

		if current == nil || current.ID != change.Session.User.ID {
			s.loadProfile(ctx, change.Session)
		}
	} else {
		s.setProfile(nil)
	}

	s.setLoading(false)
}

// loadProfile fetches or provisions the profile. Failures are logged and
// swallowed; the view proceeds without a profile.
func (s *Store) loadProfile(ctx context.Context, session *supabase.Session) {
	profile, err := s.profiles.GetOrCreate(ctx, session.AccessToken, session.User.ID)
	if err != nil {
		s.logger.Error("Failed to fetch profile", "user_id", session.User.ID, "error", err)

		return
	}

	s.setProfile(profile)
}

func (s *Store) applySession(session *supabase.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.alive {
		return
	}

	s.session = session

	if session != nil {
		s.user = session.User
	} else {
		s.user = nil
	}
}

func (s *Store) setProfile(profile *models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.alive {
		return
	}

	s.profile = profile
}

func (s *Store) setLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = loading
}

func (s *Store) isAlive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.alive
}
