package biddingerrors

import (
	"errors"
	"fmt"
)

// Repository-level errors
var (
	ErrListingNotFound = errors.New("listing not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrPageCeiling     = errors.New("listing page ceiling reached")
	ErrProfileExists   = errors.New("profile already exists")
)

// business logic errors
var (
	ErrInvalidBid          = errors.New("invalid bid")
	ErrAmountNotPositive   = errors.New("bid amount must be a positive number")
	ErrBidTooLow           = errors.New("bid amount too low")
	ErrAuctionEnded        = errors.New("auction has ended")
	ErrOwnListing          = errors.New("you cannot bid on your own listing")
	ErrConsecutiveBid      = errors.New("you already hold the latest bid on this listing")
	ErrInsufficientCredits = errors.New("not enough credits for this bid")
	ErrNotLoggedIn         = errors.New("you are not logged in")
	ErrSubmissionInFlight  = errors.New("a bid is already being submitted")
	ErrUnknownCharity      = errors.New("unknown charity")
	ErrInvalidListing      = errors.New("invalid listing")
	ErrNotListingOwner     = errors.New("only the seller can change this listing")
)

// auth errors
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("missing or invalid access token")
	ErrInvalidAPIKey      = errors.New("missing or invalid api key")
)

// ValidationError is a local, pre-network rejection of a candidate bid.
type ValidationError struct {
	Reason error
}

func (e *ValidationError) Error() string {
	return e.Reason.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

// NewValidationError wraps one of the business logic sentinels.
func NewValidationError(reason error) *ValidationError {
	return &ValidationError{Reason: reason}
}

// StaleStateError reports that a fresh read of the listing no longer satisfies
// the precondition the candidate bid was computed against.
type StaleStateError struct {
	Reason          error
	FreshHighest    int
	FreshLastBidder string
}

func (e *StaleStateError) Error() string {
	return fmt.Sprintf("listing changed before your bid was sent: %v", e.Reason)
}

func (e *StaleStateError) Unwrap() error {
	return e.Reason
}

// NetworkError is a transport failure or a non-2xx response without a parseable error body.
type NetworkError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op + ": network error"
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerValidationError is a non-2xx response carrying a structured message from the API.
type ServerValidationError struct {
	StatusCode int
	Message    string
	Messages   []string
}

func (e *ServerValidationError) Error() string {
	return e.Message
}

// AuthError is returned when the login exchange fails.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return "login failed: " + e.Err.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// FetchError wraps any failure while loading listings.
type FetchError struct {
	Page int
	Err  error
}

func (e *FetchError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("fetch listings page %d: %v", e.Page, e.Err)
	}
	return fmt.Sprintf("fetch listings: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
