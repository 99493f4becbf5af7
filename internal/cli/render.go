package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	model "heartbids/internal/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
	cardStyle    = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
	tableBorder = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorder).
		Headers(headers...)
}

func renderListings(w io.Writer, items []model.Listing, now time.Time) {
	t := newTable("ID", "Title", "Seller", "Bids", "Highest", "Ends")
	for _, l := range items {
		seller := "-"
		if l.Seller != nil {
			seller = l.Seller.Name
		}
		t.Row(l.ID, truncate(l.Title, 32), seller, strconv.Itoa(l.BidCount()), strconv.Itoa(l.HighestBid()), timeLeft(l.EndsAt, now))
	}
	fmt.Fprintln(w, t.Render())
}

func renderListing(w io.Writer, l model.Listing, now time.Time) {
	var b strings.Builder
	b.WriteString(titleStyle.Render(l.Title) + "\n")
	if l.Description != nil && *l.Description != "" {
		b.WriteString(*l.Description + "\n")
	}
	if l.Seller != nil {
		fmt.Fprintf(&b, "Seller:  %s\n", l.Seller.Name)
	}
	if len(l.Tags) > 0 {
		fmt.Fprintf(&b, "Tags:    %s\n", strings.Join(l.Tags, ", "))
	}
	fmt.Fprintf(&b, "Ends:    %s (%s)\n", l.EndsAt.Local().Format(time.DateTime), timeLeft(l.EndsAt, now))
	fmt.Fprintf(&b, "Highest: %d credits", l.HighestBid())
	if leader, ok := l.Leader(); ok {
		fmt.Fprintf(&b, " by %s", leader.Bidder.Name)
	}
	if l.IsActive(now) {
		fmt.Fprintf(&b, "\nMinimum next bid: %d", l.NextMinimumBid())
	}
	fmt.Fprintln(w, cardStyle.Render(b.String()))

	bids := l.SortedBids()
	if len(bids) == 0 {
		fmt.Fprintln(w, helpStyle.Render("No bids yet."))
		return
	}
	t := newTable("Bidder", "Amount", "Placed")
	for i := len(bids) - 1; i >= 0; i-- {
		t.Row(bids[i].Bidder.Name, strconv.Itoa(bids[i].Amount), bids[i].Created.Local().Format(time.DateTime))
	}
	fmt.Fprintln(w, t.Render())
}

func renderProfile(w io.Writer, p model.Profile, charityName string, expiry time.Time, hasExpiry bool) {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Name) + "\n")
	fmt.Fprintf(&b, "Email:   %s\n", p.Email)
	fmt.Fprintf(&b, "Credits: %d", p.Credits)
	if p.Bio != nil && *p.Bio != "" {
		fmt.Fprintf(&b, "\nBio:     %s", *p.Bio)
	}
	if p.Count != nil {
		fmt.Fprintf(&b, "\nListings: %d  Wins: %d", p.Count.Listings, p.Count.Wins)
	}
	if charityName != "" {
		fmt.Fprintf(&b, "\nCharity: %s", charityName)
	}
	if hasExpiry {
		fmt.Fprintf(&b, "\nSession expires %s", expiry.Local().Format(time.DateTime))
	}
	fmt.Fprintln(w, cardStyle.Render(b.String()))
}

func renderCharities(w io.Writer, items []model.Charity, selected string) {
	t := newTable("", "ID", "Name", "Description")
	for _, c := range items {
		mark := ""
		if c.ID == selected {
			mark = "*"
		}
		t.Row(mark, c.ID, c.Name, c.Description)
	}
	fmt.Fprintln(w, t.Render())
}

func timeLeft(endsAt, now time.Time) string {
	d := endsAt.Sub(now)
	switch {
	case d <= 0:
		return "ended"
	case d < time.Hour:
		return fmt.Sprintf("%dm left", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh left", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd left", int(d.Hours()/24))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
