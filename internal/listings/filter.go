package listings

import (
	"fmt"
	"slices"
	"strings"
	"time"

	model "heartbids/internal/models"
)

// SortKey names one of the supported listing orders
type SortKey string

const (
	SortNewest       SortKey = "newest"
	SortOldest       SortKey = "oldest"
	SortMostBids     SortKey = "most-bids"
	SortFewestBids   SortKey = "fewest-bids"
	SortHighestPrice SortKey = "highest-price"
	SortLowestPrice  SortKey = "lowest-price"
	SortEndingSoon   SortKey = "ending-soon"
)

// SortKeys lists every supported key in display order.
var SortKeys = []SortKey{
	SortNewest, SortOldest, SortMostBids, SortFewestBids,
	SortHighestPrice, SortLowestPrice, SortEndingSoon,
}

// ParseSortKey validates a user supplied sort key.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(SortKeys, k) {
		return k, nil
	}
	return "", fmt.Errorf("listings: unknown sort key %q", s)
}

// FilterActive keeps listings whose auction closes after now.
func FilterActive(items []model.Listing, now time.Time) []model.Listing {
	out := make([]model.Listing, 0, len(items))
	for _, l := range items {
		if l.EndsAt.After(now) {
			out = append(out, l)
		}
	}
	return out
}

// Sort returns a stably sorted copy; equal keys keep their fetch order.
func Sort(items []model.Listing, key SortKey) []model.Listing {
	out := slices.Clone(items)

	var cmp func(a, b model.Listing) int
	switch key {
	case SortNewest:
		cmp = func(a, b model.Listing) int { return b.Created.Compare(a.Created) }
	case SortOldest:
		cmp = func(a, b model.Listing) int { return a.Created.Compare(b.Created) }
	case SortMostBids:
		cmp = func(a, b model.Listing) int { return b.BidCount() - a.BidCount() }
	case SortFewestBids:
		cmp = func(a, b model.Listing) int { return a.BidCount() - b.BidCount() }
	case SortHighestPrice:
		cmp = func(a, b model.Listing) int { return b.HighestBid() - a.HighestBid() }
	case SortLowestPrice:
		cmp = func(a, b model.Listing) int { return a.HighestBid() - b.HighestBid() }
	case SortEndingSoon:
		cmp = func(a, b model.Listing) int { return a.EndsAt.Compare(b.EndsAt) }
	default:
		return out
	}

	slices.SortStableFunc(out, cmp)
	return out
}

// Paginate returns the 1-based page of the given size. Out of range pages are empty.
func Paginate(items []model.Listing, pageSize, pageIndex int) []model.Listing {
	if pageSize <= 0 || pageIndex < 1 || pageIndex > PageCount(len(items), pageSize) {
		return []model.Listing{}
	}

	start := (pageIndex - 1) * pageSize
	end := min(start+pageSize, len(items))
	return items[start:end]
}

// PageCount is the number of pages Paginate can return for n items.
func PageCount(n, pageSize int) int {
	if pageSize <= 0 || n <= 0 {
		return 0
	}
	pages := n / pageSize
	if n%pageSize != 0 {
		pages++
	}
	return pages
}

// Search keeps listings whose title, description or tags contain query, ignoring case.
func Search(items []model.Listing, query string) []model.Listing {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return slices.Clone(items)
	}

	out := make([]model.Listing, 0, len(items))
	for _, l := range items {
		if matches(l, q) {
			out = append(out, l)
		}
	}
	return out
}

func matches(l model.Listing, q string) bool {
	if strings.Contains(strings.ToLower(l.Title), q) {
		return true
	}
	if l.Description != nil && strings.Contains(strings.ToLower(*l.Description), q) {
		return true
	}
	for _, tag := range l.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
