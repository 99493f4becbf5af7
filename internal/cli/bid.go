package cli

import (
	"fmt"
	"strconv"

	bidding "heartbids/internal/biddingService"
	"heartbids/internal/biddingerrors"
	"heartbids/utils"

	"github.com/spf13/cobra"
)

func errNotLoggedIn() error {
	return fmt.Errorf("%w, run `heartbids login` first", biddingerrors.ErrNotLoggedIn)
}

func newBidCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "bid <listing-id> [amount]",
		Short: "Place a bid; without an amount the minimum winning bid is used",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			id, err := utils.ParseID(args[0])
			if err != nil {
				return err
			}
			listing, err := a.listings.Get(ctx, id)
			if err != nil {
				return err
			}

			var draft bidding.Draft
			draft.Reset(listing)
			if len(args) == 2 {
				amount, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("amount %q: must be a whole number of credits", args[1])
				}
				draft.Set(amount)
			}

			wf := bidding.NewWorkflow(listing, a.listings, a.client, a.session,
				bidding.WithClock(a.clock),
				bidding.WithSubmitTimeout(a.cfg.Bidding.SubmitTimeout),
			)

			outcome := wf.Submit(ctx, draft.Amount())
			if outcome.State != bidding.Succeeded {
				fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render(outcome.Message))
				if snapshot := wf.Listing(); snapshot.HighestBid() != listing.HighestBid() {
					fmt.Fprintln(cmd.ErrOrStderr(), helpStyle.Render(fmt.Sprintf("Current highest bid is now %d. Try %d.", snapshot.HighestBid(), draft.Reset(snapshot))))
				}
				return errReported
			}

			fmt.Fprintln(out, successStyle.Render(outcome.Message))
			renderListing(out, outcome.Listing, a.clock.Now())
			if p, ok := a.session.Current(); ok {
				fmt.Fprintln(out, helpStyle.Render(fmt.Sprintf("You have %d credits.", p.Credits)))
			}
			return nil
		},
	}
}
