package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	model "heartbids/internal/models"
)

// ListingQuery holds the query parameters of GET /auction/listings
type ListingQuery struct {
	Page       int
	Limit      int
	ActiveOnly bool
	Sort       string
	SortOrder  string
	Tag        string
}

func (q ListingQuery) values() url.Values {
	v := url.Values{}
	v.Set("_bids", "true")
	v.Set("_seller", "true")
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.ActiveOnly {
		v.Set("_active", "true")
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.SortOrder != "" {
		v.Set("sortOrder", q.SortOrder)
	}
	if q.Tag != "" {
		v.Set("_tag", q.Tag)
	}
	return v
}

// ProfileQuery selects which collections GET /auction/profiles/{name} embeds
type ProfileQuery struct {
	Listings bool
	Wins     bool
}

// ListListings fetches one page of listings with bids and seller embedded.
func (c *Client) ListListings(ctx context.Context, q ListingQuery) ([]model.Listing, model.PageMeta, error) {
	var listings []model.Listing
	meta, err := c.do(ctx, http.MethodGet, "auction/listings", q.values(), nil, public, &listings)
	if err != nil {
		return nil, model.PageMeta{}, err
	}
	return listings, meta, nil
}

// SearchListings runs the server-side search over titles and descriptions.
func (c *Client) SearchListings(ctx context.Context, query string, q ListingQuery) ([]model.Listing, model.PageMeta, error) {
	v := q.values()
	v.Set("q", query)

	var listings []model.Listing
	meta, err := c.do(ctx, http.MethodGet, "auction/listings/search", v, nil, public, &listings)
	if err != nil {
		return nil, model.PageMeta{}, err
	}
	return listings, meta, nil
}

// GetListing fetches a single listing with bids and seller embedded.
func (c *Client) GetListing(ctx context.Context, id string) (model.Listing, error) {
	v := url.Values{}
	v.Set("_bids", "true")
	v.Set("_seller", "true")

	var listing model.Listing
	if _, err := c.do(ctx, http.MethodGet, "auction/listings/"+id, v, nil, public, &listing); err != nil {
		return model.Listing{}, err
	}
	return listing, nil
}

// CreateListing publishes a new listing owned by the logged in user.
func (c *Client) CreateListing(ctx context.Context, in model.ListingInput) (model.Listing, error) {
	var listing model.Listing
	if _, err := c.do(ctx, http.MethodPost, "auction/listings", nil, in, authedWrite, &listing); err != nil {
		return model.Listing{}, err
	}
	return listing, nil
}

// UpdateListing edits a listing owned by the logged in user.
func (c *Client) UpdateListing(ctx context.Context, id string, in model.ListingInput) (model.Listing, error) {
	var listing model.Listing
	if _, err := c.do(ctx, http.MethodPut, "auction/listings/"+id, nil, in, authedWrite, &listing); err != nil {
		return model.Listing{}, err
	}
	return listing, nil
}

// DeleteListing removes a listing owned by the logged in user.
func (c *Client) DeleteListing(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "auction/listings/"+id, nil, nil, authenticated, nil)
	return err
}

// PlaceBid creates a bid on a listing. It is the only financial call and is never retried.
func (c *Client) PlaceBid(ctx context.Context, listingID string, amount int) (model.Bid, error) {
	var bid model.Bid
	body := model.BidRequest{Amount: amount}
	if _, err := c.do(ctx, http.MethodPost, "auction/listings/"+listingID+"/bids", nil, body, authedWrite, &bid); err != nil {
		return model.Bid{}, err
	}
	if bid.ListingID == "" {
		bid.ListingID = listingID
	}
	return bid, nil
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (model.AuthData, error) {
	var data model.AuthData
	body := model.LoginRequest{Email: email, Password: password}
	if _, err := c.do(ctx, http.MethodPost, "auth/login", nil, body, publicWrite, &data); err != nil {
		return model.AuthData{}, err
	}
	return data, nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, in model.RegisterRequest) (model.Profile, error) {
	var profile model.Profile
	if _, err := c.do(ctx, http.MethodPost, "auth/register", nil, in, publicWrite, &profile); err != nil {
		return model.Profile{}, err
	}
	return profile, nil
}

// GetProfile fetches a profile by name.
func (c *Client) GetProfile(ctx context.Context, name string, q ProfileQuery) (model.Profile, error) {
	v := url.Values{}
	if q.Listings {
		v.Set("_listings", "true")
	}
	if q.Wins {
		v.Set("_wins", "true")
	}

	var profile model.Profile
	if _, err := c.do(ctx, http.MethodGet, "auction/profiles/"+name, v, nil, authenticated, &profile); err != nil {
		return model.Profile{}, err
	}
	return profile, nil
}

// UpdateProfile edits bio, avatar and banner of the logged in user.
func (c *Client) UpdateProfile(ctx context.Context, name string, upd model.ProfileUpdate) (model.Profile, error) {
	var profile model.Profile
	if _, err := c.do(ctx, http.MethodPut, "auction/profiles/"+name, nil, upd, authedWrite, &profile); err != nil {
		return model.Profile{}, err
	}
	return profile, nil
}

// ProfileBids lists the bids a user has placed, each with its listing id.
func (c *Client) ProfileBids(ctx context.Context, name string) ([]model.Bid, error) {
	v := url.Values{}
	v.Set("_listings", "true")

	var raw []struct {
		model.Bid
		Listing *model.Listing `json:"listing,omitempty"`
	}
	if _, err := c.do(ctx, http.MethodGet, "auction/profiles/"+name+"/bids", v, nil, authenticated, &raw); err != nil {
		return nil, err
	}

	bids := make([]model.Bid, 0, len(raw))
	for _, r := range raw {
		b := r.Bid
		if b.ListingID == "" && r.Listing != nil {
			b.ListingID = r.Listing.ID
		}
		bids = append(bids, b)
	}
	return bids, nil
}
