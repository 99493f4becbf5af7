package cli

import (
	"fmt"
	"time"

	"heartbids/internal/listings"
	model "heartbids/internal/models"
	"heartbids/utils"

	"github.com/spf13/cobra"
)

func newListingsCommand(app func() *App) *cobra.Command {
	var (
		sortKey string
		active  bool
		page    int
		search  string
		all     bool
	)

	cmd := &cobra.Command{
		Use:   "listings",
		Short: "Browse auction listings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			key, err := listings.ParseSortKey(sortKey)
			if err != nil {
				return err
			}

			items, err := a.listings.FetchAll(cmd.Context())
			if err != nil {
				return err
			}

			now := a.clock.Now()
			items = listings.Search(items, search)
			if active {
				items = listings.FilterActive(items, now)
			}
			items = listings.Sort(items, key)

			total := len(items)
			pageSize := a.cfg.Listings.PageSize
			if !all {
				items = listings.Paginate(items, pageSize, page)
			}

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, helpStyle.Render("No listings match."))
				return nil
			}
			renderListings(out, items, now)
			if !all {
				fmt.Fprintln(out, helpStyle.Render(fmt.Sprintf("Page %d of %d, %d listings", page, listings.PageCount(total, pageSize), total)))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sortKey, "sort", string(listings.SortNewest), "order: newest, oldest, most-bids, fewest-bids, highest-price, lowest-price, ending-soon")
	cmd.Flags().BoolVar(&active, "active", false, "only show auctions that are still open")
	cmd.Flags().IntVar(&page, "page", 1, "page to show")
	cmd.Flags().StringVar(&search, "search", "", "match title, description or tags")
	cmd.Flags().BoolVar(&all, "all", false, "show every listing without paging")
	return cmd
}

func newShowCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <listing-id>",
		Short: "Show one listing with its bids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			id, err := utils.ParseID(args[0])
			if err != nil {
				return err
			}
			l, err := a.listings.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			renderListing(cmd.OutOrStdout(), l, a.clock.Now())
			return nil
		},
	}
}

func newListingCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listing",
		Short: "Manage your own listings",
	}
	cmd.AddCommand(newListingCreateCommand(app), newListingUpdateCommand(app), newListingDeleteCommand(app))
	return cmd
}

type listingFlags struct {
	title       string
	description string
	tags        []string
	media       []string
	endsIn      time.Duration
}

func (f *listingFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "listing title")
	cmd.Flags().StringVar(&f.description, "description", "", "listing description")
	cmd.Flags().StringSliceVar(&f.tags, "tag", nil, "tag, repeatable")
	cmd.Flags().StringSliceVar(&f.media, "media", nil, "image URL, repeatable")
	cmd.Flags().DurationVar(&f.endsIn, "ends-in", 0, "auction length from now, e.g. 72h")
}

func (f *listingFlags) input(cmd *cobra.Command, now time.Time) model.ListingInput {
	in := model.ListingInput{Title: f.title}
	if cmd.Flags().Changed("description") {
		in.Description = &f.description
	}
	if cmd.Flags().Changed("tag") {
		in.Tags = f.tags
	}
	for _, u := range f.media {
		in.Media = append(in.Media, model.Media{URL: u})
	}
	if f.endsIn > 0 {
		in.EndsAt = now.Add(f.endsIn)
	}
	return in
}

func newListingCreateCommand(app func() *App) *cobra.Command {
	var f listingFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Put an item up for auction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			if _, ok := a.session.Current(); !ok {
				return errNotLoggedIn()
			}
			l, err := a.client.CreateListing(cmd.Context(), f.input(cmd, a.clock.Now()))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Created listing %s (%s)", l.ID, l.Title)))
			return nil
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("ends-in")
	return cmd
}

func newListingUpdateCommand(app func() *App) *cobra.Command {
	var f listingFlags
	cmd := &cobra.Command{
		Use:   "update <listing-id>",
		Short: "Edit the title, description, tags or media of a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if _, ok := a.session.Current(); !ok {
				return errNotLoggedIn()
			}
			id, err := utils.ParseID(args[0])
			if err != nil {
				return err
			}
			l, err := a.client.UpdateListing(cmd.Context(), id, f.input(cmd, a.clock.Now()))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Updated "+l.Title))
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newListingDeleteCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <listing-id>",
		Short: "Remove one of your listings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if _, ok := a.session.Current(); !ok {
				return errNotLoggedIn()
			}
			id, err := utils.ParseID(args[0])
			if err != nil {
				return err
			}
			if err := a.client.DeleteListing(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted "+id)
			return nil
		},
	}
}
