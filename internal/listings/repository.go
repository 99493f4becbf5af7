package listings

import (
	"context"
	"fmt"
	"iter"

	"heartbids/internal/apiclient"
	"heartbids/internal/biddingerrors"
	model "heartbids/internal/models"
	"heartbids/utils"
)

//go:generate mockgen -source=repository.go -destination=mock_listing_source.go -package=listings

// ListingSource is the part of the auction API the repository reads from
type ListingSource interface {
	ListListings(ctx context.Context, q apiclient.ListingQuery) ([]model.Listing, model.PageMeta, error)
	GetListing(ctx context.Context, id string) (model.Listing, error)
}

const (
	DefaultPageSize = 30
	DefaultMaxPages = 100
)

// Page is one page of the remote listing collection
type Page struct {
	Number     int
	Items      []model.Listing
	IsLastPage bool
}

// Repository owns the in-memory snapshot of listings fetched for display
type Repository struct {
	src        ListingSource
	pageSize   int
	maxPages   int
	activeOnly bool
	sort       string
	sortOrder  string
}

type Option func(*Repository)

// WithPageSize sets how many listings each remote page holds.
func WithPageSize(n int) Option {
	return func(r *Repository) {
		if n > 0 {
			r.pageSize = n
		}
	}
}

// WithMaxPages caps how many pages Stream and FetchAll will request.
func WithMaxPages(n int) Option {
	return func(r *Repository) {
		if n > 0 {
			r.maxPages = n
		}
	}
}

// WithActiveOnly asks the server to return open auctions only.
func WithActiveOnly(active bool) Option {
	return func(r *Repository) {
		r.activeOnly = active
	}
}

// WithServerSort forwards a sort field and order to the server.
func WithServerSort(field, order string) Option {
	return func(r *Repository) {
		r.sort = field
		r.sortOrder = order
	}
}

func NewRepository(src ListingSource, opts ...Option) *Repository {
	r := &Repository{
		src:      src,
		pageSize: DefaultPageSize,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FetchPage issues exactly one request for the given 1-based page. No retry.
func (r *Repository) FetchPage(ctx context.Context, page int) (Page, error) {
	if page < 1 {
		return Page{}, &biddingerrors.FetchError{Page: page, Err: fmt.Errorf("page must be >= 1")}
	}

	items, meta, err := r.src.ListListings(ctx, apiclient.ListingQuery{
		Page:       page,
		Limit:      r.pageSize,
		ActiveOnly: r.activeOnly,
		Sort:       r.sort,
		SortOrder:  r.sortOrder,
	})
	if err != nil {
		return Page{}, &biddingerrors.FetchError{Page: page, Err: err}
	}

	for i := range items {
		items[i] = normalize(items[i])
	}

	return Page{
		Number:     page,
		Items:      items,
		IsLastPage: meta.IsLastPage || len(items) == 0,
	}, nil
}

// Stream yields listings page by page until the last page. It stops with
// ErrPageCeiling when the collection has more pages than the configured maximum.
func (r *Repository) Stream(ctx context.Context) iter.Seq2[model.Listing, error] {
	return func(yield func(model.Listing, error) bool) {
		for page := 1; ; page++ {
			if page > r.maxPages {
				yield(model.Listing{}, &biddingerrors.FetchError{
					Page: page,
					Err:  fmt.Errorf("%w: more than %d pages", biddingerrors.ErrPageCeiling, r.maxPages),
				})
				return
			}

			p, err := r.FetchPage(ctx, page)
			if err != nil {
				yield(model.Listing{}, err)
				return
			}

			for _, l := range p.Items {
				if !yield(l, nil) {
					return
				}
			}

			if p.IsLastPage {
				return
			}
		}
	}
}

// FetchAll accumulates every page. Any failure discards what was collected so far.
func (r *Repository) FetchAll(ctx context.Context) ([]model.Listing, error) {
	var all []model.Listing
	for l, err := range r.Stream(ctx) {
		if err != nil {
			utils.Warn("listings: fetch all aborted", map[string]any{"error": err.Error(), "collected": len(all)})
			return nil, err
		}
		all = append(all, l)
	}

	utils.Debug("listings: fetched all", map[string]any{"count": len(all)})
	return all, nil
}

// Get fetches one listing with its bids and seller.
func (r *Repository) Get(ctx context.Context, id string) (model.Listing, error) {
	if id == "" {
		return model.Listing{}, fmt.Errorf("listings: %w - empty listing ID", biddingerrors.ErrListingNotFound)
	}

	l, err := r.src.GetListing(ctx, id)
	if err != nil {
		if apiclient.IsNotFound(err) {
			return model.Listing{}, fmt.Errorf("listings: get %s: %w: %w", id, biddingerrors.ErrListingNotFound, err)
		}
		return model.Listing{}, &biddingerrors.FetchError{Err: fmt.Errorf("get %s: %w", id, err)}
	}
	return normalize(l), nil
}

// normalize fills the bid back-references and orders bids by creation time.
func normalize(l model.Listing) model.Listing {
	l.Bids = l.SortedBids()
	for i := range l.Bids {
		l.Bids[i].ListingID = l.ID
	}
	return l
}
