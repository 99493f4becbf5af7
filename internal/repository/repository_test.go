package repository

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"heartbids/internal/biddingerrors"
	"heartbids/internal/clock"
	model "heartbids/internal/models"

	"github.com/stretchr/testify/require"
)

var seedNow = time.Date(2026, 5, 20, 18, 0, 0, 0, time.UTC)

// newRepo returns a store with sam selling one listing and two funded bidders
func newRepo(t *testing.T) (*MemoryRepo, model.Listing) {
	t.Helper()

	clk := clock.NewFixed(seedNow)
	issuer, err := NewTokenIssuer("test-secret", time.Hour, clk)
	require.NoError(t, err)
	repo := NewMemoryRepo(clk, issuer)

	for _, name := range []string{"sam", "bob", "ada"} {
		_, err := repo.Register(model.RegisterRequest{Name: name, Email: name + "@stud.noroff.no", Password: "password1"})
		require.NoError(t, err)
	}

	l, err := repo.CreateListing("sam", model.ListingInput{Title: "Teapot", EndsAt: seedNow.Add(24 * time.Hour)})
	require.NoError(t, err)
	return repo, l
}

func TestMemoryRepo_RecordBid(t *testing.T) {
	t.Parallel()

	repo, l := newRepo(t)
	_, err := repo.RecordBid(l.ID, "bob", 10)
	require.NoError(t, err)
	require.NoError(t, repo.AdjustCredits("ada", 40))

	ended, err := repo.CreateListing("sam", model.ListingInput{Title: "Old lamp", EndsAt: seedNow.Add(time.Minute)})
	require.NoError(t, err)
	repo.mu.Lock()
	repo.listings[ended.ID].listing.EndsAt = seedNow
	repo.mu.Unlock()

	tests := []struct {
		name    string
		listing string
		bidder  string
		amount  int
		wantErr error
	}{
		{name: "outbids_current", listing: l.ID, bidder: "ada", amount: 11},
		{name: "below_new_highest", listing: l.ID, bidder: "ada", amount: 10, wantErr: biddingerrors.ErrBidTooLow},
		{name: "zero_amount", listing: l.ID, bidder: "ada", amount: 0, wantErr: biddingerrors.ErrInvalidBid},
		{name: "own_listing", listing: l.ID, bidder: "sam", amount: 500, wantErr: biddingerrors.ErrOwnListing},
		{name: "more_than_balance", listing: l.ID, bidder: "ada", amount: 41, wantErr: biddingerrors.ErrInsufficientCredits},
		{name: "ended", listing: ended.ID, bidder: "ada", amount: 5, wantErr: biddingerrors.ErrAuctionEnded},
		{name: "unknown_listing", listing: "missing", bidder: "ada", amount: 50, wantErr: biddingerrors.ErrListingNotFound},
		{name: "unknown_bidder", listing: l.ID, bidder: "ghost", amount: 50, wantErr: biddingerrors.ErrProfileNotFound},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			// sequential: later cases depend on the first accepted bid
			bid, err := repo.RecordBid(tc.listing, tc.bidder, tc.amount)
			if tc.wantErr != nil {
				require.True(t, errors.Is(err, tc.wantErr), "expected error: %v, got: %v", tc.wantErr, err)
				return
			}
			require.NoError(t, err)
			require.NotEmpty(t, bid.ID)
			require.Equal(t, tc.bidder, bid.Bidder.Name)
			require.Equal(t, seedNow, bid.Created)
		})
	}

	got, err := repo.GetListing(l.ID, ListQuery{WithBids: true})
	require.NoError(t, err)
	require.Equal(t, 11, got.HighestBid())
	require.Equal(t, 2, got.Count.Bids)
}

func TestMemoryRepo_ConcurrentBids(t *testing.T) {
	t.Parallel()

	repo, l := newRepo(t)

	const bidders = 20
	names := make([]string, bidders)
	for i := range names {
		names[i] = fmt.Sprintf("bidder%02d", i)
		_, err := repo.Register(model.RegisterRequest{Name: names[i], Email: names[i] + "@stud.noroff.no", Password: "password1"})
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(amount int, name string) {
			defer wg.Done()
			_, _ = repo.RecordBid(l.ID, name, amount)
		}(i+1, name)
	}
	wg.Wait()

	got, err := repo.GetListing(l.ID, ListQuery{WithBids: true})
	require.NoError(t, err)
	require.Equal(t, bidders, got.HighestBid())

	// accepted bids are strictly increasing in arrival order
	for i := 1; i < len(got.Bids); i++ {
		require.Greater(t, got.Bids[i].Amount, got.Bids[i-1].Amount)
	}
}

func TestMemoryRepo_ListListings(t *testing.T) {
	t.Parallel()

	repo, first := newRepo(t)
	for i := 2; i <= 35; i++ {
		_, err := repo.CreateListing("sam", model.ListingInput{
			Title:  fmt.Sprintf("Listing %02d", i),
			Tags:   []string{fmt.Sprintf("batch%d", i%2)},
			EndsAt: seedNow.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	page1, meta1 := repo.ListListings(ListQuery{Page: 1, Limit: 30, Sort: "created", SortOrder: "asc"})
	page2, meta2 := repo.ListListings(ListQuery{Page: 2, Limit: 30, Sort: "created", SortOrder: "asc"})
	require.Len(t, page1, 30)
	require.Len(t, page2, 5)
	require.Equal(t, first.ID, page1[0].ID, "equal timestamps keep insertion order")
	require.False(t, meta1.IsLastPage)
	require.True(t, meta2.IsLastPage)
	require.Equal(t, 2, *meta1.NextPage)
	require.Equal(t, 1, *meta2.PreviousPage)
	require.Equal(t, 35, meta2.TotalCount)
	require.Nil(t, page1[0].Bids)
	require.Nil(t, page1[0].Seller)

	desc, _ := repo.ListListings(ListQuery{Limit: 100})
	require.Equal(t, page2[4].ID, desc[0].ID, "default order is newest first")

	tagged, meta := repo.ListListings(ListQuery{Tag: "BATCH1", WithSeller: true})
	require.Equal(t, 17, meta.TotalCount)
	require.Equal(t, "sam", tagged[0].Seller.Name)

	ending, _ := repo.ListListings(ListQuery{Sort: "endsAt", SortOrder: "asc", Limit: 1})
	require.Equal(t, "Listing 02", ending[0].Title)

	found, _ := repo.ListListings(ListQuery{Search: "listing 3"})
	require.Len(t, found, 6)

	empty, meta := repo.ListListings(ListQuery{Page: 9, Limit: 30})
	require.Empty(t, empty)
	require.True(t, meta.IsLastPage)
}

func TestMemoryRepo_ListListings_ActiveOnly(t *testing.T) {
	t.Parallel()

	repo, l := newRepo(t)
	closing, err := repo.CreateListing("sam", model.ListingInput{Title: "Closing", EndsAt: seedNow.Add(time.Minute)})
	require.NoError(t, err)

	repo.mu.Lock()
	repo.listings[closing.ID].listing.EndsAt = seedNow.Add(-time.Minute)
	repo.mu.Unlock()

	active, meta := repo.ListListings(ListQuery{ActiveOnly: true})
	require.Equal(t, 1, meta.TotalCount)
	require.Equal(t, l.ID, active[0].ID)
}

func TestMemoryRepo_ListingOwnership(t *testing.T) {
	t.Parallel()

	repo, l := newRepo(t)
	desc := "Now with a lid"

	_, err := repo.UpdateListing("bob", l.ID, model.ListingInput{Description: &desc})
	require.ErrorIs(t, err, biddingerrors.ErrNotListingOwner)

	updated, err := repo.UpdateListing("sam", l.ID, model.ListingInput{Description: &desc})
	require.NoError(t, err)
	require.Equal(t, "Teapot", updated.Title)
	require.Equal(t, desc, *updated.Description)

	require.ErrorIs(t, repo.DeleteListing("bob", l.ID), biddingerrors.ErrNotListingOwner)
	require.NoError(t, repo.DeleteListing("sam", l.ID))
	_, err = repo.GetListing(l.ID, ListQuery{})
	require.ErrorIs(t, err, biddingerrors.ErrListingNotFound)
}

func TestMemoryRepo_CreateListing_Validation(t *testing.T) {
	t.Parallel()

	repo, _ := newRepo(t)

	tests := []struct {
		name string
		in   model.ListingInput
	}{
		{name: "no_title", in: model.ListingInput{Title: "  ", EndsAt: seedNow.Add(time.Hour)}},
		{name: "ends_in_past", in: model.ListingInput{Title: "Lamp", EndsAt: seedNow.Add(-time.Hour)}},
		{name: "ends_too_late", in: model.ListingInput{Title: "Lamp", EndsAt: seedNow.AddDate(2, 0, 0)}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := repo.CreateListing("sam", tc.in)
			require.ErrorIs(t, err, biddingerrors.ErrInvalidListing)
		})
	}
}

func TestMemoryRepo_Accounts(t *testing.T) {
	t.Parallel()

	repo, _ := newRepo(t)

	_, err := repo.Register(model.RegisterRequest{Name: "sam", Email: "other@stud.noroff.no", Password: "password1"})
	require.ErrorIs(t, err, biddingerrors.ErrProfileExists)
	_, err = repo.Register(model.RegisterRequest{Name: "samuel", Email: "SAM@stud.noroff.no", Password: "password1"})
	require.ErrorIs(t, err, biddingerrors.ErrProfileExists)

	_, err = repo.Login("sam@stud.noroff.no", "wrong")
	require.ErrorIs(t, err, biddingerrors.ErrInvalidCredentials)
	_, err = repo.Login("nobody@stud.noroff.no", "password1")
	require.ErrorIs(t, err, biddingerrors.ErrInvalidCredentials)

	auth, err := repo.Login(" Sam@stud.noroff.no ", "password1")
	require.NoError(t, err)
	require.Equal(t, "sam", auth.Name)
	require.NotEmpty(t, auth.AccessToken)

	name, err := repo.Authenticate(auth.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "sam", name)

	_, err = repo.Authenticate(auth.AccessToken + "x")
	require.ErrorIs(t, err, biddingerrors.ErrUnauthorized)
	_, err = repo.Authenticate("not-a-token")
	require.ErrorIs(t, err, biddingerrors.ErrUnauthorized)
}

func TestTokenIssuer_Expiry(t *testing.T) {
	t.Parallel()

	issuer, err := NewTokenIssuer("test-secret", time.Hour, clock.NewFixed(seedNow))
	require.NoError(t, err)
	token, err := issuer.Issue("sam", "sam@stud.noroff.no")
	require.NoError(t, err)

	later, err := NewTokenIssuer("test-secret", time.Hour, clock.NewFixed(seedNow.Add(2*time.Hour)))
	require.NoError(t, err)
	_, err = later.Verify(token)
	require.ErrorIs(t, err, biddingerrors.ErrUnauthorized)

	other, err := NewTokenIssuer("other-secret", time.Hour, clock.NewFixed(seedNow))
	require.NoError(t, err)
	_, err = other.Verify(token)
	require.ErrorIs(t, err, biddingerrors.ErrUnauthorized)

	_, err = NewTokenIssuer("", time.Hour, clock.NewFixed(seedNow))
	require.Error(t, err)
}

func TestMemoryRepo_Profiles(t *testing.T) {
	t.Parallel()

	repo, l := newRepo(t)
	_, err := repo.RecordBid(l.ID, "bob", 15)
	require.NoError(t, err)

	p, err := repo.GetProfile("sam", ProfileQuery{WithListings: true})
	require.NoError(t, err)
	require.Equal(t, StartingCredits, p.Credits)
	require.Equal(t, 1, p.Count.Listings)
	require.Len(t, p.Listings, 1)
	require.Nil(t, p.Wins)

	// closing the auction turns bob's leading bid into a win
	repo.mu.Lock()
	repo.listings[l.ID].listing.EndsAt = seedNow
	repo.mu.Unlock()

	bob, err := repo.GetProfile("bob", ProfileQuery{WithWins: true})
	require.NoError(t, err)
	require.Equal(t, 1, bob.Count.Wins)
	require.Equal(t, l.ID, bob.Wins[0].ID)

	bids, err := repo.ProfileBids("bob")
	require.NoError(t, err)
	require.Len(t, bids, 1)
	require.Equal(t, l.ID, bids[0].ListingID)

	bio := "Collector"
	updated, err := repo.UpdateProfile("bob", model.ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	require.Equal(t, bio, *updated.Bio)

	_, err = repo.GetProfile("ghost", ProfileQuery{})
	require.ErrorIs(t, err, biddingerrors.ErrProfileNotFound)
}

func TestSeed(t *testing.T) {
	t.Parallel()

	clk := clock.NewFixed(seedNow)
	issuer, err := NewTokenIssuer("seed-secret", time.Hour, clk)
	require.NoError(t, err)
	repo := NewMemoryRepo(clk, issuer)

	require.NoError(t, Seed(repo))

	items, meta := repo.ListListings(ListQuery{WithBids: true})
	require.Equal(t, len(seedListings), meta.TotalCount)
	require.Len(t, items, len(seedListings))

	_, err = repo.Login("ada@stud.noroff.no", SeedPassword)
	require.NoError(t, err)
}

func TestMemoryRepo_Calls(t *testing.T) {
	t.Parallel()

	repo, _ := newRepo(t)
	repo.CountCall("GET /auction/listings")
	repo.CountCall("GET /auction/listings")
	repo.CountCall("POST /auction/listings/:id/bids")

	require.Equal(t, 2, repo.Calls("GET /auction/listings"))
	require.Equal(t, 1, repo.Calls("POST /auction/listings/:id/bids"))

	repo.ResetCalls()
	require.Zero(t, repo.Calls("GET /auction/listings"))
}
