package repository

import (
	"fmt"
	"time"

	model "heartbids/internal/models"
)

// SeedPassword is the password of every seeded account.
const SeedPassword = "sandbox-pass"

var seedAccounts = []model.RegisterRequest{
	{Name: "sam_seller", Email: "sam@stud.noroff.no"},
	{Name: "bob_bidder", Email: "bob@stud.noroff.no"},
	{Name: "ada_lovelace", Email: "ada@stud.noroff.no"},
}

type seedBid struct {
	bidder string
	amount int
}

var seedListings = []struct {
	seller string
	title  string
	desc   string
	tags   []string
	ends   time.Duration
	bids   []seedBid
}{
	{seller: "sam_seller", title: "Hand-thrown teapot", desc: "Stoneware, holds a litre.", tags: []string{"ceramics", "kitchen"}, ends: 72 * time.Hour,
		bids: []seedBid{{"bob_bidder", 10}, {"ada_lovelace", 25}}},
	{seller: "sam_seller", title: "Signed football", desc: "Match ball from the charity cup.", tags: []string{"sport"}, ends: 30 * time.Hour},
	{seller: "bob_bidder", title: "Weekend cabin stay", desc: "Two nights by the fjord.", tags: []string{"travel"}, ends: 7 * 24 * time.Hour,
		bids: []seedBid{{"ada_lovelace", 120}}},
	{seller: "ada_lovelace", title: "Vintage typewriter", desc: "Works, ribbon included.", tags: []string{"vintage"}, ends: 5 * time.Hour},
}

// Seed fills an empty store with a few accounts, listings and bids.
func Seed(r *MemoryRepo) error {
	for _, acc := range seedAccounts {
		acc.Password = SeedPassword
		if _, err := r.Register(acc); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	now := r.clock.Now()
	for _, s := range seedListings {
		desc := s.desc
		l, err := r.CreateListing(s.seller, model.ListingInput{
			Title:       s.title,
			Description: &desc,
			Tags:        s.tags,
			EndsAt:      now.Add(s.ends),
		})
		if err != nil {
			return fmt.Errorf("seed listing %q: %w", s.title, err)
		}
		for _, b := range s.bids {
			if _, err := r.RecordBid(l.ID, b.bidder, b.amount); err != nil {
				return fmt.Errorf("seed bid on %q: %w", s.title, err)
			}
		}
	}
	return nil
}
