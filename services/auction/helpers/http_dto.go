package helpers

import "heartbids/internal/repository"

// ListingsQuery binds the query string of the listing collection routes
type ListingsQuery struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Active    bool   `form:"_active"`
	Sort      string `form:"sort" binding:"omitempty,oneof=created updated endsAt title"`
	SortOrder string `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
	Tag       string `form:"_tag"`
	Bids      bool   `form:"_bids"`
	Seller    bool   `form:"_seller"`
	Q         string `form:"q"`
}

func (q ListingsQuery) ToRepo() repository.ListQuery {
	return repository.ListQuery{
		Page:       q.Page,
		Limit:      q.Limit,
		ActiveOnly: q.Active,
		Sort:       q.Sort,
		SortOrder:  q.SortOrder,
		Tag:        q.Tag,
		Search:     q.Q,
		WithBids:   q.Bids,
		WithSeller: q.Seller,
	}
}

// ProfileQuery binds the query string of GET /auction/profiles/:name
type ProfileQuery struct {
	Listings bool `form:"_listings"`
	Wins     bool `form:"_wins"`
}

func (q ProfileQuery) ToRepo() repository.ProfileQuery {
	return repository.ProfileQuery{WithListings: q.Listings, WithWins: q.Wins}
}
