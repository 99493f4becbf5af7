package models

import "time"

// PageMeta describes the position of a page in a paginated collection
type PageMeta struct {
	IsFirstPage  bool `json:"isFirstPage"`
	IsLastPage   bool `json:"isLastPage"`
	CurrentPage  int  `json:"currentPage"`
	PreviousPage *int `json:"previousPage"`
	NextPage     *int `json:"nextPage"`
	PageCount    int  `json:"pageCount"`
	TotalCount   int  `json:"totalCount"`
}

// Envelope is the success body of every API response
type Envelope[T any] struct {
	Data T        `json:"data"`
	Meta PageMeta `json:"meta"`
}

// APIErrorDetail is one entry of an API error body
type APIErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// APIErrorBody is the body of every non-2xx API response
type APIErrorBody struct {
	Errors     []APIErrorDetail `json:"errors"`
	Status     string           `json:"status,omitempty"`
	StatusCode int              `json:"statusCode,omitempty"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthData is the payload returned by a successful login
type AuthData struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Bio         *string `json:"bio,omitempty"`
	Avatar      *Media  `json:"avatar,omitempty"`
	Banner      *Media  `json:"banner,omitempty"`
	AccessToken string  `json:"accessToken"`
}

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Bio      *string `json:"bio,omitempty"`
	Avatar   *Media  `json:"avatar,omitempty"`
	Banner   *Media  `json:"banner,omitempty"`
}

// BidRequest is the body of POST /auction/listings/{id}/bids
type BidRequest struct {
	Amount int `json:"amount" binding:"required,gt=0"`
}

// ListingInput is the body for creating or updating a listing
type ListingInput struct {
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Media       []Media   `json:"media,omitempty"`
	EndsAt      time.Time `json:"endsAt"`
}

// ProfileUpdate is the body of PUT /auction/profiles/{name}
type ProfileUpdate struct {
	Bio    *string `json:"bio,omitempty"`
	Avatar *Media  `json:"avatar,omitempty"`
	Banner *Media  `json:"banner,omitempty"`
}
