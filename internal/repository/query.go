package repository

import (
	"cmp"
	"slices"
	"strings"
	"time"

	model "heartbids/internal/models"
)

const (
	DefaultLimit = 100
	MaxLimit     = 100
)

// ListQuery mirrors the query parameters of GET /auction/listings
type ListQuery struct {
	Page       int
	Limit      int
	ActiveOnly bool
	Sort       string
	SortOrder  string
	Tag        string
	Search     string
	WithBids   bool
	WithSeller bool
}

// ProfileQuery selects the embedded collections of a profile
type ProfileQuery struct {
	WithListings bool
	WithWins     bool
}

func (q ListQuery) normalized() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.Sort == "" {
		q.Sort = "created"
	}
	if q.SortOrder != "asc" {
		q.SortOrder = "desc"
	}
	return q
}

func (q ListQuery) matches(l model.Listing, now time.Time) bool {
	if q.ActiveOnly && !l.IsActive(now) {
		return false
	}
	if q.Tag != "" && !slices.ContainsFunc(l.Tags, func(t string) bool { return strings.EqualFold(t, q.Tag) }) {
		return false
	}
	if s := strings.ToLower(strings.TrimSpace(q.Search)); s != "" {
		inTitle := strings.Contains(strings.ToLower(l.Title), s)
		inDesc := l.Description != nil && strings.Contains(strings.ToLower(*l.Description), s)
		if !inTitle && !inDesc {
			return false
		}
	}
	return true
}

// sortRecords orders by field then by insertion, so equal keys keep a fixed order.
func sortRecords(recs []*listingRecord, field, order string) {
	key := func(a, b *listingRecord) int {
		switch field {
		case "title":
			return cmp.Compare(strings.ToLower(a.listing.Title), strings.ToLower(b.listing.Title))
		case "endsAt":
			return a.listing.EndsAt.Compare(b.listing.EndsAt)
		case "updated":
			return a.listing.Updated.Compare(b.listing.Updated)
		default:
			return a.listing.Created.Compare(b.listing.Created)
		}
	}

	slices.SortStableFunc(recs, func(a, b *listingRecord) int {
		c := key(a, b)
		if c == 0 {
			c = cmp.Compare(a.seq, b.seq)
		}
		if order == "desc" {
			return -c
		}
		return c
	})
}

func pageMeta(total, page, limit int) model.PageMeta {
	pages := (total + limit - 1) / limit
	meta := model.PageMeta{
		IsFirstPage: page == 1,
		IsLastPage:  page >= pages,
		CurrentPage: page,
		PageCount:   pages,
		TotalCount:  total,
	}
	if page > 1 {
		prev := page - 1
		meta.PreviousPage = &prev
	}
	if page < pages {
		next := page + 1
		meta.NextPage = &next
	}
	return meta
}
