package repository

import (
	"crypto/sha256"
	"fmt"
	"io"
	"strings"
	"time"

	"heartbids/internal/biddingerrors"
	"heartbids/internal/clock"
	model "heartbids/internal/models"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/hkdf"
)

const (
	StartingCredits = 1000

	// sandbox accounts are throwaway
	passwordCost = bcrypt.MinCost
)

// TokenIssuer signs and verifies the sandbox's HS256 access tokens.
type TokenIssuer struct {
	key   []byte
	ttl   time.Duration
	clock clock.Clock
}

// NewTokenIssuer derives the signing key from secret.
func NewTokenIssuer(secret string, ttl time.Duration, clk clock.Clock) (*TokenIssuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("token issuer: empty secret")
	}
	kdf := hkdf.New(sha256.New, []byte(secret), []byte("heartbids.sandbox"), []byte("access-token signing key"))
	key := make([]byte, 32)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("token issuer: derive key: %w", err)
	}
	return &TokenIssuer{key: key, ttl: ttl, clock: clk}, nil
}

// Issue returns a signed token for the named profile.
func (ti *TokenIssuer) Issue(name, email string) (string, error) {
	now := ti.clock.Now()
	tok, err := jwt.NewBuilder().
		Subject(name).
		IssuedAt(now).
		Expiration(now.Add(ti.ttl)).
		Claim("name", name).
		Claim("email", email).
		Build()
	if err != nil {
		return "", fmt.Errorf("token issuer: build: %w", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256(), ti.key))
	if err != nil {
		return "", fmt.Errorf("token issuer: sign: %w", err)
	}
	return string(signed), nil
}

// Verify checks signature and expiry and returns the subject.
func (ti *TokenIssuer) Verify(raw string) (string, error) {
	tok, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.HS256(), ti.key),
		jwt.WithValidate(true),
		jwt.WithClock(jwt.ClockFunc(ti.clock.Now)))
	if err != nil {
		return "", fmt.Errorf("verify token: %w", biddingerrors.ErrUnauthorized)
	}
	sub, ok := tok.Subject()
	if !ok || sub == "" {
		return "", fmt.Errorf("verify token: no subject: %w", biddingerrors.ErrUnauthorized)
	}
	return sub, nil
}

// Register creates an account with the starting credit balance.
func (r *MemoryRepo) Register(in model.RegisterRequest) (model.Profile, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" || email == "" || in.Password == "" {
		return model.Profile{}, fmt.Errorf("register: %w", biddingerrors.ErrInvalidCredentials)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), passwordCost)
	if err != nil {
		return model.Profile{}, fmt.Errorf("register %s: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.accounts[name]; taken {
		return model.Profile{}, fmt.Errorf("register %s: %w", name, biddingerrors.ErrProfileExists)
	}
	if _, taken := r.emails[email]; taken {
		return model.Profile{}, fmt.Errorf("register %s: %w", email, biddingerrors.ErrProfileExists)
	}

	p := model.Profile{
		Name:    name,
		Email:   email,
		Bio:     in.Bio,
		Avatar:  in.Avatar,
		Banner:  in.Banner,
		Credits: StartingCredits,
	}
	r.accounts[name] = &account{profile: p, password: hash}
	r.emails[email] = name

	return p, nil
}

// Login checks the password and issues an access token.
func (r *MemoryRepo) Login(email, password string) (model.AuthData, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	r.mu.RLock()
	var acc *account
	if name, ok := r.emails[email]; ok {
		acc = r.accounts[name]
	}
	var p model.Profile
	var hash []byte
	if acc != nil {
		p = acc.profile
		hash = acc.password
	}
	r.mu.RUnlock()

	if acc == nil || bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
		return model.AuthData{}, fmt.Errorf("login %s: %w", email, biddingerrors.ErrInvalidCredentials)
	}

	token, err := r.tokens.Issue(p.Name, p.Email)
	if err != nil {
		return model.AuthData{}, err
	}

	return model.AuthData{
		Name:        p.Name,
		Email:       p.Email,
		Bio:         p.Bio,
		Avatar:      p.Avatar,
		Banner:      p.Banner,
		AccessToken: token,
	}, nil
}

// Authenticate maps a bearer token to an existing profile name.
func (r *MemoryRepo) Authenticate(token string) (string, error) {
	name, err := r.tokens.Verify(token)
	if err != nil {
		return "", err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.accounts[name]; !ok {
		return "", fmt.Errorf("authenticate %s: %w", name, biddingerrors.ErrUnauthorized)
	}
	return name, nil
}

// GetProfile returns the profile with its counters and optional collections.
func (r *MemoryRepo) GetProfile(name string, q ProfileQuery) (model.Profile, error) {
	now := r.clock.Now()

	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.accounts[name]
	if !ok {
		return model.Profile{}, fmt.Errorf("get profile %s: %w", name, biddingerrors.ErrProfileNotFound)
	}

	p := acc.profile
	var listings, wins []model.Listing
	for _, rec := range r.sortedRecords() {
		l := rec.listing
		if l.Seller != nil && l.Seller.Name == name {
			listings = append(listings, r.decorate(l, ListQuery{WithBids: true}))
		}
		if !l.IsActive(now) {
			if leader, ok := l.Leader(); ok && leader.Bidder.Name == name {
				wins = append(wins, r.decorate(l, ListQuery{WithBids: true, WithSeller: true}))
			}
		}
	}

	p.Count = &model.ProfileCount{Listings: len(listings), Wins: len(wins)}
	if q.WithListings {
		p.Listings = listings
	}
	if q.WithWins {
		p.Wins = wins
	}
	return p, nil
}

// UpdateProfile edits the media and bio fields that are present in upd.
func (r *MemoryRepo) UpdateProfile(name string, upd model.ProfileUpdate) (model.Profile, error) {
	r.mu.Lock()
	acc, ok := r.accounts[name]
	if !ok {
		r.mu.Unlock()
		return model.Profile{}, fmt.Errorf("update profile %s: %w", name, biddingerrors.ErrProfileNotFound)
	}
	if upd.Bio != nil {
		acc.profile.Bio = upd.Bio
	}
	if upd.Avatar != nil {
		acc.profile.Avatar = upd.Avatar
	}
	if upd.Banner != nil {
		acc.profile.Banner = upd.Banner
	}
	r.mu.Unlock()

	return r.GetProfile(name, ProfileQuery{})
}

// ProfileBids returns every bid the user placed, oldest first.
func (r *MemoryRepo) ProfileBids(name string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.accounts[name]; !ok {
		return nil, fmt.Errorf("profile bids %s: %w", name, biddingerrors.ErrProfileNotFound)
	}

	var bids []model.Bid
	for _, rec := range r.sortedRecords() {
		for _, b := range rec.listing.SortedBids() {
			if b.Bidder.Name == name {
				bids = append(bids, b)
			}
		}
	}
	return bids, nil
}

// AdjustCredits sets a profile's balance. Intended for seeding and tests.
func (r *MemoryRepo) AdjustCredits(name string, credits int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.accounts[name]
	if !ok {
		return fmt.Errorf("adjust credits %s: %w", name, biddingerrors.ErrProfileNotFound)
	}
	acc.profile.Credits = credits
	return nil
}

// sortedRecords returns listings oldest first. Callers hold r.mu.
func (r *MemoryRepo) sortedRecords() []*listingRecord {
	recs := make([]*listingRecord, 0, len(r.listings))
	for _, rec := range r.listings {
		recs = append(recs, rec)
	}
	sortRecords(recs, "created", "asc")
	return recs
}
