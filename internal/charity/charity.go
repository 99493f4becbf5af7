// Package charity manages which charity receives the proceeds of a user's auctions.
package charity

import (
	"context"
	"errors"
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

//go:generate mockgen -source=charity.go -destination=mock_store.go -package=charity

var catalog = []model.Charity{
	{ID: "redcross", Name: "Red Cross", Description: "Emergency relief and disaster response.", URL: "https://www.redcross.org"},
	{ID: "unicef", Name: "UNICEF", Description: "Health, education and protection for children.", URL: "https://www.unicef.org"},
	{ID: "wwf", Name: "WWF", Description: "Conservation of wildlife and natural habitats.", URL: "https://www.worldwildlife.org"},
	{ID: "msf", Name: "Doctors Without Borders", Description: "Medical care where it is needed most.", URL: "https://www.msf.org"},
	{ID: "savethechildren", Name: "Save the Children", Description: "Giving children a healthy start in life.", URL: "https://www.savethechildren.net"},
	{ID: "amnesty", Name: "Amnesty International", Description: "Defending human rights worldwide.", URL: "https://www.amnesty.org"},
}

// Catalog returns the supported charities.
func Catalog() []model.Charity {
	return slices.Clone(catalog)
}

// Lookup finds a charity by id, ignoring case.
func Lookup(id string) (model.Charity, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, c := range catalog {
		if c.ID == id {
			return c, true
		}
	}
	return model.Charity{}, false
}

// ErrNoSelection is returned by Store.Get when the user never picked a charity.
var ErrNoSelection = errors.New("no charity selected")

// Selection is one user's stored choice.
type Selection struct {
	UserName  string
	CharityID string
	UpdatedAt time.Time
}

// Store persists charity selections keyed by user name
type Store interface {
	Get(ctx context.Context, user string) (Selection, error)
	Set(ctx context.Context, sel Selection) error
}

type Service struct {
	store Store
	clock clock.Clock
}

func NewService(store Store, clk clock.Clock) *Service {
	return &Service{store: store, clock: clk}
}

// Select validates id against the catalog and stores it for user.
func (s *Service) Select(ctx context.Context, user, id string) (model.Charity, error) {
	if user == "" {
		return model.Charity{}, biddingerrors.ErrNotLoggedIn
	}
	c, ok := Lookup(id)
	if !ok {
		return model.Charity{}, fmt.Errorf("charity: %w: %q", biddingerrors.ErrUnknownCharity, id)
	}

	sel := Selection{UserName: user, CharityID: c.ID, UpdatedAt: s.clock.Now()}
	if err := s.store.Set(ctx, sel); err != nil {
		return model.Charity{}, fmt.Errorf("charity: save selection for %s: %w", user, err)
	}

	utils.Info("charity: selected", map[string]any{"user": user, "charity": c.ID})
	return c, nil
}

// Selected returns the user's charity. ok is false when nothing was chosen.
func (s *Service) Selected(ctx context.Context, user string) (c model.Charity, ok bool, err error) {
	sel, err := s.store.Get(ctx, user)
	if errors.Is(err, ErrNoSelection) {
		return model.Charity{}, false, nil
	}
	if err != nil {
		return model.Charity{}, false, fmt.Errorf("charity: load selection for %s: %w", user, err)
	}

	c, ok = Lookup(sel.CharityID)
	if !ok {
		// retired from the catalog since it was stored
		utils.Warn("charity: stored selection not in catalog", map[string]any{"user": user, "charity": sel.CharityID})
		return model.Charity{}, false, nil
	}
	return c, true, nil
}

// MemoryStore keeps selections in process.
type MemoryStore struct {
	mu   sync.RWMutex
	sels map[string]Selection
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sels: make(map[string]Selection)}
}

func (m *MemoryStore) Get(_ context.Context, user string) (Selection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sel, ok := m.sels[user]
	if !ok {
		return Selection{}, ErrNoSelection
	}
	return sel, nil
}

func (m *MemoryStore) Set(_ context.Context, sel Selection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sels[sel.UserName] = sel
	return nil
}
