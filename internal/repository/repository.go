package repository

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"heartbids/internal/biddingerrors"
	"heartbids/internal/clock"
	model "heartbids/internal/models"
	"heartbids/utils"
)

// AuctionDB is the storage behind the sandbox auction API
type AuctionDB interface {
	Register(in model.RegisterRequest) (model.Profile, error)
	Login(email, password string) (model.AuthData, error)
	Authenticate(token string) (string, error)

	GetProfile(name string, q ProfileQuery) (model.Profile, error)
	UpdateProfile(name string, upd model.ProfileUpdate) (model.Profile, error)
	ProfileBids(name string) ([]model.Bid, error)

	ListListings(q ListQuery) ([]model.Listing, model.PageMeta)
	GetListing(id string, q ListQuery) (model.Listing, error)
	CreateListing(seller string, in model.ListingInput) (model.Listing, error)
	UpdateListing(seller, id string, in model.ListingInput) (model.Listing, error)
	DeleteListing(seller, id string) error
	RecordBid(listingID, bidder string, amount int) (model.Bid, error)

	CountCall(key string)
}

type listingRecord struct {
	listing model.Listing
	seq     int
}

type account struct {
	profile  model.Profile
	password []byte
}

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB
type MemoryRepo struct {
	mu       sync.RWMutex
	clock    clock.Clock
	tokens   *TokenIssuer
	listings map[string]*listingRecord // key: listingID
	accounts map[string]*account       // key: profile name
	emails   map[string]string         // key: lowercased email -> value: profile name
	nextSeq  int

	callsMu sync.Mutex
	calls   map[string]int // key: "METHOD /route"
}

// NewMemoryRepo creates an empty store whose tokens are signed by issuer.
func NewMemoryRepo(clk clock.Clock, issuer *TokenIssuer) *MemoryRepo {
	return &MemoryRepo{
		clock:    clk,
		tokens:   issuer,
		listings: make(map[string]*listingRecord),
		accounts: make(map[string]*account),
		emails:   make(map[string]string),
		calls:    make(map[string]int),
	}
}

// CountCall records one request against key.
func (r *MemoryRepo) CountCall(key string) {
	r.callsMu.Lock()
	defer r.callsMu.Unlock()
	r.calls[key]++
}

// Calls returns how many requests were recorded against key.
func (r *MemoryRepo) Calls(key string) int {
	r.callsMu.Lock()
	defer r.callsMu.Unlock()
	return r.calls[key]
}

func (r *MemoryRepo) ResetCalls() {
	r.callsMu.Lock()
	defer r.callsMu.Unlock()
	r.calls = make(map[string]int)
}

// GetListing returns one listing decorated as q asks.
func (r *MemoryRepo) GetListing(id string, q ListQuery) (model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.listings[id]
	if !ok {
		return model.Listing{}, fmt.Errorf("get listing %s: %w", id, biddingerrors.ErrListingNotFound)
	}
	return r.decorate(rec.listing, q), nil
}

// ListListings returns one page of listings after filtering and sorting.
func (r *MemoryRepo) ListListings(q ListQuery) ([]model.Listing, model.PageMeta) {
	q = q.normalized()
	now := r.clock.Now()

	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*listingRecord, 0, len(r.listings))
	for _, rec := range r.listings {
		if q.matches(rec.listing, now) {
			matched = append(matched, rec)
		}
	}
	sortRecords(matched, q.Sort, q.SortOrder)

	meta := pageMeta(len(matched), q.Page, q.Limit)
	start := len(matched)
	if q.Page <= meta.PageCount {
		start = (q.Page - 1) * q.Limit
	}
	end := min(start+q.Limit, len(matched))

	out := make([]model.Listing, 0, end-start)
	for _, rec := range matched[start:end] {
		out = append(out, r.decorate(rec.listing, q))
	}
	return out, meta
}

// CreateListing adds a listing sold by seller.
func (r *MemoryRepo) CreateListing(seller string, in model.ListingInput) (model.Listing, error) {
	now := r.clock.Now()
	if err := validateListing(in, now); err != nil {
		return model.Listing{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.accounts[seller]
	if !ok {
		return model.Listing{}, fmt.Errorf("create listing for %s: %w", seller, biddingerrors.ErrProfileNotFound)
	}

	ref := acc.profile.Ref()
	l := model.Listing{
		ID:          utils.GenerateID(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Tags:        slices.Clone(in.Tags),
		Media:       slices.Clone(in.Media),
		Created:     now,
		Updated:     now,
		EndsAt:      in.EndsAt.UTC(),
		Seller:      &ref,
	}
	r.nextSeq++
	r.listings[l.ID] = &listingRecord{listing: l, seq: r.nextSeq}

	return r.decorate(l, ListQuery{WithSeller: true, WithBids: true}), nil
}

// UpdateListing replaces the editable fields. Only the seller may do so.
func (r *MemoryRepo) UpdateListing(seller, id string, in model.ListingInput) (model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.ownedListing(seller, id)
	if err != nil {
		return model.Listing{}, err
	}

	l := rec.listing
	if t := strings.TrimSpace(in.Title); t != "" {
		l.Title = t
	}
	if in.Description != nil {
		l.Description = in.Description
	}
	if in.Tags != nil {
		l.Tags = slices.Clone(in.Tags)
	}
	if in.Media != nil {
		l.Media = slices.Clone(in.Media)
	}
	l.Updated = r.clock.Now()
	rec.listing = l

	return r.decorate(l, ListQuery{WithSeller: true, WithBids: true}), nil
}

func (r *MemoryRepo) DeleteListing(seller, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.ownedListing(seller, id); err != nil {
		return err
	}
	delete(r.listings, id)
	return nil
}

func (r *MemoryRepo) ownedListing(seller, id string) (*listingRecord, error) {
	rec, ok := r.listings[id]
	if !ok {
		return nil, fmt.Errorf("listing %s: %w", id, biddingerrors.ErrListingNotFound)
	}
	if rec.listing.Seller == nil || rec.listing.Seller.Name != seller {
		return nil, fmt.Errorf("listing %s: %w", id, biddingerrors.ErrNotListingOwner)
	}
	return rec, nil
}

// RecordBid applies the auction rules and appends the bid.
func (r *MemoryRepo) RecordBid(listingID, bidder string, amount int) (model.Bid, error) {
	if amount <= 0 {
		return model.Bid{}, fmt.Errorf("record bid: %w", biddingerrors.ErrInvalidBid)
	}
	now := r.clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.listings[listingID]
	if !ok {
		return model.Bid{}, fmt.Errorf("record bid on %s: %w", listingID, biddingerrors.ErrListingNotFound)
	}
	acc, ok := r.accounts[bidder]
	if !ok {
		return model.Bid{}, fmt.Errorf("record bid by %s: %w", bidder, biddingerrors.ErrProfileNotFound)
	}

	l := rec.listing
	switch {
	case !l.IsActive(now):
		return model.Bid{}, fmt.Errorf("record bid on %s: %w", listingID, biddingerrors.ErrAuctionEnded)
	case l.Seller != nil && l.Seller.Name == bidder:
		return model.Bid{}, fmt.Errorf("record bid on %s: %w", listingID, biddingerrors.ErrOwnListing)
	case amount <= l.HighestBid():
		return model.Bid{}, fmt.Errorf("record bid on %s: %w", listingID, biddingerrors.ErrBidTooLow)
	case acc.profile.Credits < amount:
		return model.Bid{}, fmt.Errorf("record bid by %s: %w", bidder, biddingerrors.ErrInsufficientCredits)
	}

	bid := model.Bid{
		ID:        utils.GenerateID(),
		ListingID: listingID,
		Amount:    amount,
		Bidder:    acc.profile.Ref(),
		Created:   now,
	}
	rec.listing.Bids = append(rec.listing.Bids, bid)
	rec.listing.Updated = now

	return bid, nil
}

// decorate copies l and adds the relations q asks for. Callers hold r.mu.
func (r *MemoryRepo) decorate(l model.Listing, q ListQuery) model.Listing {
	out := l.Clone()
	out.Count.Bids = len(l.Bids)
	if q.WithBids {
		out.Bids = l.SortedBids()
	} else {
		out.Bids = nil
	}
	if q.WithSeller && l.Seller != nil {
		if acc, ok := r.accounts[l.Seller.Name]; ok {
			ref := acc.profile.Ref()
			out.Seller = &ref
		}
	} else {
		out.Seller = nil
	}
	return out
}

func validateListing(in model.ListingInput, now time.Time) error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return fmt.Errorf("%w: title is required", biddingerrors.ErrInvalidListing)
	case !in.EndsAt.After(now):
		return fmt.Errorf("%w: endsAt must be in the future", biddingerrors.ErrInvalidListing)
	case in.EndsAt.After(now.AddDate(1, 0, 0)):
		return fmt.Errorf("%w: endsAt must be within a year", biddingerrors.ErrInvalidListing)
	}
	return nil
}
