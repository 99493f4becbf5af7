package models

import (
	"slices"
	"time"
)

// IsActive reports whether bidding is still open at now.
func (l Listing) IsActive(now time.Time) bool {
	return now.Before(l.EndsAt)
}

// HighestBid returns the largest bid amount, or 0 when there are no bids.
func (l Listing) HighestBid() int {
	highest := 0
	for _, b := range l.Bids {
		if b.Amount > highest {
			highest = b.Amount
		}
	}
	return highest
}

// Leader returns the bid holding the highest amount. Ties go to the earliest bid.
func (l Listing) Leader() (Bid, bool) {
	if len(l.Bids) == 0 {
		return Bid{}, false
	}

	leader := l.Bids[0]
	for _, b := range l.Bids[1:] {
		if b.Amount > leader.Amount || (b.Amount == leader.Amount && b.Created.Before(leader.Created)) {
			leader = b
		}
	}
	return leader, true
}

// LastBid returns the most recent bid by creation time.
func (l Listing) LastBid() (Bid, bool) {
	if len(l.Bids) == 0 {
		return Bid{}, false
	}

	last := l.Bids[0]
	for _, b := range l.Bids[1:] {
		if !b.Created.Before(last.Created) {
			last = b
		}
	}
	return last, true
}

// BidCount prefers the embedded bids and falls back to the server counter.
func (l Listing) BidCount() int {
	if len(l.Bids) > 0 {
		return len(l.Bids)
	}
	return l.Count.Bids
}

// NextMinimumBid is the smallest amount that can outbid the current leader.
func (l Listing) NextMinimumBid() int {
	return l.HighestBid() + 1
}

// SortedBids returns the bids ordered by creation time, oldest first.
func (l Listing) SortedBids() []Bid {
	bids := slices.Clone(l.Bids)
	slices.SortStableFunc(bids, func(a, b Bid) int {
		return a.Created.Compare(b.Created)
	})
	return bids
}

// Clone returns a copy whose slices can be mutated independently.
func (l Listing) Clone() Listing {
	c := l
	c.Tags = slices.Clone(l.Tags)
	c.Media = slices.Clone(l.Media)
	c.Bids = slices.Clone(l.Bids)
	if l.Seller != nil {
		seller := *l.Seller
		c.Seller = &seller
	}
	return c
}
