// Package session owns the authenticated user. All writes go through Login,
// Logout, Refresh, UpdateProfile and SetCharity; readers subscribe for changes.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"heartbids/internal/apiclient"
	"heartbids/internal/biddingerrors"
	"heartbids/internal/clock"
	model "heartbids/internal/models"
	"heartbids/utils"
)

//go:generate mockgen -source=service.go -destination=mock_auth_api.go -package=session

// AuthAPI is the part of the external API the session talks to
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (model.AuthData, error)
	Register(ctx context.Context, in model.RegisterRequest) (model.Profile, error)
	GetProfile(ctx context.Context, name string, q apiclient.ProfileQuery) (model.Profile, error)
	UpdateProfile(ctx context.Context, name string, upd model.ProfileUpdate) (model.Profile, error)
}

type EventKind int

const (
	EventLogin EventKind = iota + 1
	EventLogout
	EventRefresh
	EventReload
)

func (k EventKind) String() string {
	switch k {
	case EventLogin:
		return "login"
	case EventLogout:
		return "logout"
	case EventRefresh:
		return "refresh"
	case EventReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers after the session changed
type Event struct {
	Kind    EventKind
	Profile model.Profile
}

type Service struct {
	api   AuthAPI
	store Storage
	clock clock.Clock

	mu     sync.RWMutex
	record Record

	subMu  sync.Mutex
	subs   map[int]func(Event)
	nextID int
}

// NewService loads whatever session was persisted by a previous run.
func NewService(api AuthAPI, store Storage, clk clock.Clock) (*Service, error) {
	rec, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &Service{
		api:    api,
		store:  store,
		clock:  clk,
		record: rec,
		subs:   make(map[int]func(Event)),
	}, nil
}

// Current returns the logged in user.
func (s *Service) Current() (model.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record.Profile, s.record.LoggedIn()
}

// Token returns the in-memory bearer token.
func (s *Service) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record.Token
}

// Subscribe registers fn for every later change. Call the returned func to stop.
func (s *Service) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Service) notify(ev Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (s *Service) commit(rec Record) error {
	rec.SavedAt = s.clock.Now()
	if err := s.store.Save(rec); err != nil {
		return err
	}
	s.mu.Lock()
	s.record = rec
	s.mu.Unlock()
	return nil
}

// Login authenticates, persists the token and then loads the full profile, since
// the login response lacks credits, bio and avatar.
func (s *Service) Login(ctx context.Context, email, password string) (model.Profile, error) {
	if email == "" || password == "" {
		return model.Profile{}, &biddingerrors.AuthError{Err: biddingerrors.ErrInvalidCredentials}
	}

	data, err := s.api.Login(ctx, email, password)
	if err != nil {
		return model.Profile{}, &biddingerrors.AuthError{Err: err}
	}
	if data.AccessToken == "" || data.Name == "" {
		return model.Profile{}, &biddingerrors.AuthError{Err: biddingerrors.ErrInvalidCredentials}
	}

	partial := model.Profile{
		Name:   data.Name,
		Email:  data.Email,
		Bio:    data.Bio,
		Avatar: data.Avatar,
		Banner: data.Banner,
	}
	if err := s.commit(Record{Profile: partial, Token: data.AccessToken}); err != nil {
		return model.Profile{}, fmt.Errorf("session: persist login: %w", err)
	}

	profile, err := s.api.GetProfile(ctx, data.Name, apiclient.ProfileQuery{})
	if err != nil {
		// a session without a loaded profile has no credits to bid with
		if clearErr := s.store.Clear(); clearErr != nil {
			utils.Warn("session: clear after failed login", map[string]any{"user": data.Name, "error": clearErr.Error()})
		}
		s.mu.Lock()
		s.record = Record{}
		s.mu.Unlock()
		return model.Profile{}, fmt.Errorf("session: load profile of %s: %w", data.Name, err)
	}

	if err := s.commit(Record{Profile: profile, Token: data.AccessToken}); err != nil {
		return model.Profile{}, fmt.Errorf("session: persist profile: %w", err)
	}

	utils.Info("session: logged in", map[string]any{"user": profile.Name, "credits": profile.Credits})
	s.notify(Event{Kind: EventLogin, Profile: profile})
	return profile, nil
}

// Register creates an account without logging in.
func (s *Service) Register(ctx context.Context, in model.RegisterRequest) (model.Profile, error) {
	profile, err := s.api.Register(ctx, in)
	if err != nil {
		return model.Profile{}, fmt.Errorf("session: register %s: %w", in.Name, err)
	}
	return profile, nil
}

// Logout forgets the identity and token and tells every subscriber to drop its state.
func (s *Service) Logout() error {
	if err := s.store.Clear(); err != nil {
		return err
	}

	s.mu.Lock()
	name := s.record.Profile.Name
	s.record = Record{}
	s.mu.Unlock()

	utils.Info("session: logged out", map[string]any{"user": name})
	s.notify(Event{Kind: EventLogout})
	return nil
}

// Refresh re-reads the current user's profile, typically after a credit-affecting action.
func (s *Service) Refresh(ctx context.Context) (model.Profile, error) {
	s.mu.RLock()
	rec := s.record
	s.mu.RUnlock()

	if !rec.LoggedIn() {
		return model.Profile{}, biddingerrors.ErrNotLoggedIn
	}

	profile, err := s.api.GetProfile(ctx, rec.Profile.Name, apiclient.ProfileQuery{})
	if err != nil {
		return model.Profile{}, fmt.Errorf("session: refresh %s: %w", rec.Profile.Name, err)
	}
	if profile.Charity == "" {
		profile.Charity = rec.Profile.Charity
	}

	rec.Profile = profile
	if err := s.commit(rec); err != nil {
		return model.Profile{}, fmt.Errorf("session: persist refresh: %w", err)
	}

	utils.Debug("session: refreshed", map[string]any{"user": profile.Name, "credits": profile.Credits})
	s.notify(Event{Kind: EventRefresh, Profile: profile})
	return profile, nil
}

// UpdateProfile edits the logged in user's profile and stores the result.
func (s *Service) UpdateProfile(ctx context.Context, upd model.ProfileUpdate) (model.Profile, error) {
	s.mu.RLock()
	rec := s.record
	s.mu.RUnlock()

	if !rec.LoggedIn() {
		return model.Profile{}, biddingerrors.ErrNotLoggedIn
	}

	profile, err := s.api.UpdateProfile(ctx, rec.Profile.Name, upd)
	if err != nil {
		return model.Profile{}, fmt.Errorf("session: update profile: %w", err)
	}
	if profile.Charity == "" {
		profile.Charity = rec.Profile.Charity
	}

	rec.Profile = profile
	if err := s.commit(rec); err != nil {
		return model.Profile{}, err
	}
	s.notify(Event{Kind: EventRefresh, Profile: profile})
	return profile, nil
}

// SetCharity records the charity chosen by the user in the local session.
func (s *Service) SetCharity(charityID string) error {
	s.mu.RLock()
	rec := s.record
	s.mu.RUnlock()

	if !rec.LoggedIn() {
		return biddingerrors.ErrNotLoggedIn
	}

	rec.Profile.Charity = charityID
	if err := s.commit(rec); err != nil {
		return err
	}
	s.notify(Event{Kind: EventRefresh, Profile: rec.Profile})
	return nil
}

// Reload re-reads storage and notifies subscribers when another writer changed it.
func (s *Service) Reload() error {
	rec, err := s.store.Load()
	if err != nil {
		return err
	}

	s.mu.Lock()
	changed := !s.record.same(rec)
	s.record = rec
	s.mu.Unlock()

	if changed {
		utils.Debug("session: reloaded from storage", map[string]any{"user": rec.Profile.Name})
		s.notify(Event{Kind: EventReload, Profile: rec.Profile})
	}
	return nil
}

// TokenExpiry returns when the stored token stops being accepted, if it says so.
func (s *Service) TokenExpiry() (time.Time, bool) {
	return TokenExpiry(s.Token())
}
