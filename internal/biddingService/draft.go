package bidding

import model "heartbids/internal/models"

// Draft holds the amount the user is about to bid. Any change to the listing's
// highest bid moves it back to the new minimum, discarding what the user typed.
type Draft struct {
	amount  int
	highest int
	primed  bool
}

// Reset moves the draft to highest+1 whenever the highest bid changed since the last call.
func (d *Draft) Reset(l model.Listing) int {
	highest := l.HighestBid()
	if !d.primed || highest != d.highest {
		d.amount = highest + 1
		d.highest = highest
		d.primed = true
	}
	return d.amount
}

// Set records a user-typed amount.
func (d *Draft) Set(amount int) {
	d.amount = amount
}

func (d *Draft) Amount() int {
	return d.amount
}
