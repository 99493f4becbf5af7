package integrationtests

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"heartbids/internal/apiclient"
	bidding "heartbids/internal/biddingService"
	"heartbids/internal/clock"
	"heartbids/internal/listings"
	model "heartbids/internal/models"
	"heartbids/internal/repository"
	"heartbids/internal/server"
	"heartbids/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey   = "integration-key"
	testPassword = "password1"
	tokenTTL     = 2 * time.Hour

	bidRoute     = "POST /auction/listings/:id/bids"
	listingRoute = "GET /auction/listings/:id"
	listRoute    = "GET /auction/listings"
	profileRoute = "GET /auction/profiles/:name"
)

var now = time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

// Sandbox is a running auction API backed by an in-memory store.
type Sandbox struct {
	URL   string
	Repo  *repository.MemoryRepo
	Clock clock.Clock
}

// Bidder is one client process: its own API client, session and listing repository.
type Bidder struct {
	Client   *apiclient.Client
	Session  *session.Service
	Listings *listings.Repository
}

// StartSandbox serves the auction API on a local port for the duration of the test.
func StartSandbox(t *testing.T) *Sandbox {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clk := clock.NewFixed(now)
	issuer, err := repository.NewTokenIssuer("integration-secret", tokenTTL, clk)
	require.NoError(t, err)
	repo := repository.NewMemoryRepo(clk, issuer)

	srv := httptest.NewServer(server.SetupRouter(repo, testAPIKey))
	t.Cleanup(srv.Close)

	return &Sandbox{URL: srv.URL, Repo: repo, Clock: clk}
}

// Register creates accounts named after the given profiles with testPassword.
func (s *Sandbox) Register(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		_, err := s.Repo.Register(model.RegisterRequest{Name: name, Email: name + "@stud.noroff.no", Password: testPassword})
		require.NoError(t, err)
	}
}

// AddListing creates a listing ending in a day, with the given bids placed in order.
func (s *Sandbox) AddListing(t *testing.T, seller, title string, bids ...placed) model.Listing {
	t.Helper()
	l, err := s.Repo.CreateListing(seller, model.ListingInput{Title: title, EndsAt: now.Add(24 * time.Hour)})
	require.NoError(t, err)
	for _, b := range bids {
		_, err := s.Repo.RecordBid(l.ID, b.bidder, b.amount)
		require.NoError(t, err)
	}
	return l
}

// NewBidder builds a client with its own in-memory session storage.
func (s *Sandbox) NewBidder(t *testing.T, opts ...listings.Option) *Bidder {
	t.Helper()

	storage := session.NewMemoryStorage()
	client, err := apiclient.New(s.URL, testAPIKey, apiclient.WithTokenSource(storage), apiclient.WithTimeout(5*time.Second))
	require.NoError(t, err)

	sess, err := session.NewService(client, storage, s.Clock)
	require.NoError(t, err)

	return &Bidder{Client: client, Session: sess, Listings: listings.NewRepository(client, opts...)}
}

// LoggedIn returns a bidder logged in as name.
func (s *Sandbox) LoggedIn(t *testing.T, name string) *Bidder {
	t.Helper()
	b := s.NewBidder(t)
	_, err := b.Session.Login(context.Background(), name+"@stud.noroff.no", testPassword)
	require.NoError(t, err)
	return b
}

// Open loads the listing and starts a bidding workflow on it, as opening the listing view does.
func (b *Bidder) Open(t *testing.T, clk clock.Clock, id string) *bidding.Workflow {
	t.Helper()
	l, err := b.Listings.Get(context.Background(), id)
	require.NoError(t, err)
	return bidding.NewWorkflow(l, b.Listings, b.Client, b.Session, bidding.WithClock(clk))
}

type placed struct {
	bidder string
	amount int
}

func bid(bidder string, amount int) placed {
	return placed{bidder: bidder, amount: amount}
}

func listingTitle(i int) string {
	return fmt.Sprintf("Lot %02d", i)
}
