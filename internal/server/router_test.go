package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"heartbids/internal/clock"
	model "heartbids/internal/models"
	"heartbids/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testKey = "sandbox-key"

func newSandbox(t *testing.T, now time.Time) (*gin.Engine, *repository.MemoryRepo, *repository.TokenIssuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	issuer, err := repository.NewTokenIssuer("router-test", time.Hour, clock.NewFixed(now))
	require.NoError(t, err)
	repo := repository.NewMemoryRepo(clock.NewFixed(now), issuer)
	require.NoError(t, repository.Seed(repo))

	return SetupRouter(repo, testKey), repo, issuer
}

func login(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()
	body, _ := json.Marshal(model.LoginRequest{Email: email, Password: repository.SeedPassword})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var env model.Envelope[model.AuthData]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env.Data.AccessToken
}

func TestProtectedRoutes(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	router, _, _ := newSandbox(t, now)
	token := login(t, router, "bob@stud.noroff.no")

	expired, err := repository.NewTokenIssuer("router-test", time.Hour, clock.NewFixed(now.Add(-2*time.Hour)))
	require.NoError(t, err)
	staleToken, err := expired.Issue("bob_bidder", "bob@stud.noroff.no")
	require.NoError(t, err)

	forged, err := repository.NewTokenIssuer("some-other-secret", time.Hour, clock.NewFixed(now))
	require.NoError(t, err)
	forgedToken, err := forged.Issue("bob_bidder", "bob@stud.noroff.no")
	require.NoError(t, err)

	tests := []struct {
		name           string
		apiKey         string
		auth           string
		expectedStatus int
	}{
		{name: "valid", apiKey: testKey, auth: "Bearer " + token, expectedStatus: http.StatusOK},
		{name: "missing_api_key", auth: "Bearer " + token, expectedStatus: http.StatusUnauthorized},
		{name: "wrong_api_key", apiKey: "nope", auth: "Bearer " + token, expectedStatus: http.StatusUnauthorized},
		{name: "missing_token", apiKey: testKey, expectedStatus: http.StatusUnauthorized},
		{name: "not_bearer", apiKey: testKey, auth: "Basic " + token, expectedStatus: http.StatusUnauthorized},
		{name: "expired_token", apiKey: testKey, auth: "Bearer " + staleToken, expectedStatus: http.StatusUnauthorized},
		{name: "forged_token", apiKey: testKey, auth: "Bearer " + forgedToken, expectedStatus: http.StatusUnauthorized},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/auction/profiles/bob_bidder", nil)
			if tc.apiKey != "" {
				req.Header.Set(headerAPIKey, tc.apiKey)
			}
			if tc.auth != "" {
				req.Header.Set("Authorization", tc.auth)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tc.expectedStatus, w.Code, w.Body.String())
			if tc.expectedStatus == http.StatusOK {
				var env model.Envelope[model.Profile]
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
				require.Equal(t, "bob_bidder", env.Data.Name)
				require.Equal(t, repository.StartingCredits, env.Data.Credits)
			}
		})
	}
}

func TestPublicRoutesSkipAuth(t *testing.T) {
	t.Parallel()

	router, _, _ := newSandbox(t, time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC))

	for _, path := range []string{"/auction/listings", "/auction/listings/search?q=teapot"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestCallCounter(t *testing.T) {
	t.Parallel()

	router, repo, _ := newSandbox(t, time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC))
	token := login(t, router, "ada@stud.noroff.no")

	listings, _ := repo.ListListings(repository.ListQuery{Search: "football"})
	require.Len(t, listings, 1)
	id := listings[0].ID

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/auction/listings/"+id, nil)
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	body, _ := json.Marshal(model.BidRequest{Amount: 50})
	req := httptest.NewRequest(http.MethodPost, "/auction/listings/"+id+"/bids", bytes.NewReader(body))
	req.Header.Set(headerAPIKey, testKey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.Equal(t, 1, repo.Calls("POST /auth/login"))
	require.Equal(t, 2, repo.Calls("GET /auction/listings/:id"))
	require.Equal(t, 1, repo.Calls("POST /auction/listings/:id/bids"))

	repo.ResetCalls()
	require.Zero(t, repo.Calls("GET /auction/listings/:id"))
}
