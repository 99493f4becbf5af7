package models

import "time"

// Media is an image reference attached to a listing or profile
type Media struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// ProfileRef is the embedded form of a user on listings and bids
type ProfileRef struct {
	Name    string  `json:"name"`
	Email   string  `json:"email,omitempty"`
	Bio     *string `json:"bio,omitempty"`
	Avatar  *Media  `json:"avatar,omitempty"`
	Banner  *Media  `json:"banner,omitempty"`
	Charity string  `json:"charity,omitempty"`
}

// ProfileCount holds the server-side aggregate counters of a profile
type ProfileCount struct {
	Listings int `json:"listings"`
	Wins     int `json:"wins"`
}

// Profile represents a participant in the auction
type Profile struct {
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Bio      *string       `json:"bio,omitempty"`
	Avatar   *Media        `json:"avatar,omitempty"`
	Banner   *Media        `json:"banner,omitempty"`
	Credits  int           `json:"credits"`
	Charity  string        `json:"charity,omitempty"`
	Count    *ProfileCount `json:"_count,omitempty"`
	Listings []Listing     `json:"listings,omitempty"`
	Wins     []Listing     `json:"wins,omitempty"`
}

// Ref returns the embedded form of the profile.
func (p Profile) Ref() ProfileRef {
	return ProfileRef{
		Name:    p.Name,
		Email:   p.Email,
		Bio:     p.Bio,
		Avatar:  p.Avatar,
		Banner:  p.Banner,
		Charity: p.Charity,
	}
}

// ListingCount holds the server-side aggregate counters of a listing
type ListingCount struct {
	Bids int `json:"bids"`
}

// Listing represents an auction item
type Listing struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Tags        []string     `json:"tags"`
	Media       []Media      `json:"media"`
	Created     time.Time    `json:"created"`
	Updated     time.Time    `json:"updated"`
	EndsAt      time.Time    `json:"endsAt"`
	Seller      *ProfileRef  `json:"seller,omitempty"`
	Bids        []Bid        `json:"bids,omitempty"`
	Count       ListingCount `json:"_count"`
}

// Bid represents a user's bid on a listing
type Bid struct {
	ID        string     `json:"id"`
	ListingID string     `json:"listingId,omitempty"`
	Amount    int        `json:"amount"`
	Bidder    ProfileRef `json:"bidder"`
	Created   time.Time  `json:"created"`
}

// Charity is a recipient of auction proceeds a user can select
type Charity struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}
