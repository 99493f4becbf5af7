package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"heartbids/internal/biddingerrors"
	"heartbids/internal/clock"
	"heartbids/internal/repository"
	"heartbids/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const bidRoute = "POST /auction/listings/:id/bids"

type harness struct {
	t       *testing.T
	clock   clock.Clock
	cfgPath string
	repo    *repository.MemoryRepo
}

// newHarness starts a seeded sandbox and writes a config pointing the CLI at it.
func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clk := clock.NewFixed(time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC))
	issuer, err := repository.NewTokenIssuer("cli-test", time.Hour, clk)
	require.NoError(t, err)
	repo := repository.NewMemoryRepo(clk, issuer)
	require.NoError(t, repository.Seed(repo))

	srv := httptest.NewServer(server.SetupRouter(repo, "sandbox-key"))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfg := fmt.Sprintf(`api:
  base_url: %s
  key: sandbox-key
  rate_limit: 1000
  burst: 100
session:
  path: %s
  watch: false
log:
  level: error
`, srv.URL, filepath.Join(dir, "session.json"))
	cfgPath := filepath.Join(dir, "heartbids.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	return &harness{t: t, clock: clk, cfgPath: cfgPath, repo: repo}
}

func (h *harness) run(args ...string) (string, string, error) {
	h.t.Helper()

	var stdout, stderr bytes.Buffer
	root := NewRootCommand(h.clock)
	root.SetArgs(append([]string{"--config", h.cfgPath}, args...))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(""))

	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func (h *harness) listingID(search string) string {
	h.t.Helper()
	items, _ := h.repo.ListListings(repository.ListQuery{Search: search})
	require.Len(h.t, items, 1)
	return items[0].ID
}

// The commands share the process-wide logger, so these run sequentially.
func TestBidderJourney(t *testing.T) {
	h := newHarness(t)
	teapot := h.listingID("teapot")
	cabin := h.listingID("cabin")

	out, _, err := h.run("whoami", "--offline")
	require.ErrorIs(t, err, biddingerrors.ErrNotLoggedIn)
	require.Empty(t, out)

	out, _, err = h.run("login", "--email", "bob@stud.noroff.no", "--password", repository.SeedPassword)
	require.NoError(t, err)
	require.Contains(t, out, "Logged in as bob_bidder (1000 credits)")

	out, _, err = h.run("whoami")
	require.NoError(t, err)
	require.Contains(t, out, "bob_bidder")
	require.Contains(t, out, "Session expires")

	out, _, err = h.run("listings", "--sort", "highest-price")
	require.NoError(t, err)
	require.Less(t, strings.Index(out, "Weekend cabin stay"), strings.Index(out, "Hand-thrown teapot"))
	require.Contains(t, out, "Page 1 of 1, 4 listings")

	out, _, err = h.run("listings", "--search", "fjord", "--all")
	require.NoError(t, err)
	require.Contains(t, out, "Weekend cabin stay")
	require.NotContains(t, out, "Hand-thrown teapot")

	_, _, err = h.run("listings", "--sort", "cheapest")
	require.Error(t, err)

	_, _, err = h.run("show", "teapot")
	require.ErrorContains(t, err, "not a valid id")

	out, _, err = h.run("show", teapot)
	require.NoError(t, err)
	require.Contains(t, out, "Minimum next bid: 26")

	out, _, err = h.run("bid", teapot)
	require.NoError(t, err)
	require.Contains(t, out, `Bid of 26 credits placed on "Hand-thrown teapot"`)
	require.Equal(t, 1, h.repo.Calls(bidRoute))

	_, stderr, err := h.run("bid", teapot, "40")
	require.ErrorIs(t, err, errReported)
	require.Contains(t, stderr, biddingerrors.ErrConsecutiveBid.Error())
	require.Equal(t, 1, h.repo.Calls(bidRoute), "local rejection must not reach the server")

	_, stderr, err = h.run("bid", cabin, "500")
	require.ErrorIs(t, err, errReported)
	require.Contains(t, stderr, biddingerrors.ErrOwnListing.Error())

	_, _, err = h.run("bid", teapot, "abc")
	require.Error(t, err)
}

func TestProfileAndCharityCommands(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run("login", "--email", "ada@stud.noroff.no", "--password", repository.SeedPassword)
	require.NoError(t, err)

	out, _, err := h.run("charity", "select", "unicef")
	require.NoError(t, err)
	require.Contains(t, out, "UNICEF")

	_, _, err = h.run("charity", "select", "nope")
	require.ErrorIs(t, err, biddingerrors.ErrUnknownCharity)

	// a new process has an empty memory store and falls back to the session
	out, _, err = h.run("charity", "show")
	require.NoError(t, err)
	require.Contains(t, out, "unicef")

	out, _, err = h.run("charity", "list")
	require.NoError(t, err)
	require.Contains(t, out, "Doctors Without Borders")

	out, _, err = h.run("profile", "update", "--bio", "Collector of typewriters")
	require.NoError(t, err)
	require.Contains(t, out, "Profile of ada_lovelace updated")

	_, _, err = h.run("profile", "update")
	require.Error(t, err)

	out, _, err = h.run("listing", "create", "--title", "Kayak", "--ends-in", "24h", "--tag", "outdoor")
	require.NoError(t, err)
	require.Contains(t, out, "Created listing")
	kayak := h.listingID("kayak")

	out, _, err = h.run("listing", "update", kayak, "--description", "Two seats")
	require.NoError(t, err)
	require.Contains(t, out, "Updated Kayak")

	out, _, err = h.run("listing", "delete", kayak)
	require.NoError(t, err)
	require.Contains(t, out, "Deleted "+kayak)

	out, _, err = h.run("logout")
	require.NoError(t, err)
	require.Contains(t, out, "Logged out.")

	_, _, err = h.run("listing", "create", "--title", "Late", "--ends-in", "1h")
	require.ErrorIs(t, err, biddingerrors.ErrNotLoggedIn)
}
