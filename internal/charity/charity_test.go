package charity

import (
	"context"
	"errors"
	"testing"
	"time"

	"heartbids/internal/biddingerrors"
	"heartbids/internal/clock"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

var selectedAt = time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC)

func TestCatalog(t *testing.T) {
	t.Parallel()

	all := Catalog()
	require.NotEmpty(t, all)

	seen := map[string]bool{}
	for _, c := range all {
		require.NotEmpty(t, c.Name)
		require.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
	}

	all[0].Name = "changed"
	require.NotEqual(t, "changed", Catalog()[0].Name, "callers get a copy")

	c, ok := Lookup("  UNICEF ")
	require.True(t, ok)
	require.Equal(t, "unicef", c.ID)
}

func TestService_Select(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		user      string
		id        string
		mockSetup func(store *MockStore)
		wantErr   error
		failed    bool
	}{
		{
			name: "valid",
			user: "ada",
			id:   "WWF",
			mockSetup: func(store *MockStore) {
				store.EXPECT().Set(gomock.Any(), Selection{UserName: "ada", CharityID: "wwf", UpdatedAt: selectedAt}).Return(nil)
			},
		},
		{
			name:      "unknown_charity",
			user:      "ada",
			id:        "my-cousin",
			mockSetup: func(store *MockStore) {},
			wantErr:   biddingerrors.ErrUnknownCharity,
		},
		{
			name:      "anonymous",
			id:        "wwf",
			mockSetup: func(store *MockStore) {},
			wantErr:   biddingerrors.ErrNotLoggedIn,
		},
		{
			name: "store_failure",
			user: "ada",
			id:   "wwf",
			mockSetup: func(store *MockStore) {
				store.EXPECT().Set(gomock.Any(), gomock.Any()).Return(errors.New("server selection timeout"))
			},
			failed: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := NewMockStore(ctrl)
			tc.mockSetup(store)
			svc := NewService(store, clock.NewFixed(selectedAt))

			c, err := svc.Select(context.Background(), tc.user, tc.id)
			switch {
			case tc.wantErr != nil:
				require.True(t, errors.Is(err, tc.wantErr), "expected error: %v, got: %v", tc.wantErr, err)
			case tc.failed:
				require.Error(t, err)
			default:
				require.NoError(t, err)
				require.Equal(t, "wwf", c.ID)
			}
		})
	}
}

func TestService_Selected(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	svc := NewService(store, clock.NewFixed(selectedAt))
	ctx := context.Background()

	_, ok, err := svc.Selected(ctx, "ada")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = svc.Select(ctx, "ada", "msf")
	require.NoError(t, err)

	c, ok, err := svc.Selected(ctx, "ada")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Doctors Without Borders", c.Name)

	sel, err := store.Get(ctx, "ada")
	require.NoError(t, err)
	require.Equal(t, selectedAt, sel.UpdatedAt)

	require.NoError(t, store.Set(ctx, Selection{UserName: "bob", CharityID: "retired"}))
	_, ok, err = svc.Selected(ctx, "bob")
	require.NoError(t, err)
	require.False(t, ok)
}
