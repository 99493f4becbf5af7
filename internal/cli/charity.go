package cli

import (
	"fmt"

	"heartbids/internal/charity"
	model "heartbids/internal/models"

	"github.com/spf13/cobra"
)

func newCharityCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "charity",
		Short: "Choose the charity your auctions support",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List supported charities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			selected := ""
			if p, ok := a.session.Current(); ok {
				selected = p.Charity
			}
			renderCharities(cmd.OutOrStdout(), charity.Catalog(), selected)
			return nil
		},
	}

	sel := &cobra.Command{
		Use:   "select <charity-id>",
		Short: "Select the charity that receives your proceeds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			p, ok := a.session.Current()
			if !ok {
				return errNotLoggedIn()
			}
			svc, err := a.Charity(cmd.Context())
			if err != nil {
				return err
			}

			c, err := svc.Select(cmd.Context(), p.Name, args[0])
			if err != nil {
				return err
			}
			if err := a.session.SetCharity(c.ID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Your auctions now support "+c.Name))
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the selected charity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			p, ok := a.session.Current()
			if !ok {
				return errNotLoggedIn()
			}
			svc, err := a.Charity(cmd.Context())
			if err != nil {
				return err
			}

			c, found, err := svc.Selected(cmd.Context(), p.Name)
			if err != nil {
				return err
			}
			if !found {
				// the in-memory store does not outlive the process, the session does
				c, found = charity.Lookup(p.Charity)
			}
			if !found {
				fmt.Fprintln(cmd.OutOrStdout(), helpStyle.Render("No charity selected. See `heartbids charity list`."))
				return nil
			}
			renderCharities(cmd.OutOrStdout(), []model.Charity{c}, c.ID)
			return nil
		},
	}

	cmd.AddCommand(list, sel, show)
	return cmd
}

func newProfileCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your profile",
	}

	var bio, avatar, banner string
	update := &cobra.Command{
		Use:   "update",
		Short: "Change bio, avatar or banner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			var upd model.ProfileUpdate
			if cmd.Flags().Changed("bio") {
				upd.Bio = &bio
			}
			if cmd.Flags().Changed("avatar") {
				upd.Avatar = &model.Media{URL: avatar}
			}
			if cmd.Flags().Changed("banner") {
				upd.Banner = &model.Media{URL: banner}
			}
			if upd.Bio == nil && upd.Avatar == nil && upd.Banner == nil {
				return fmt.Errorf("profile update: nothing to change, pass --bio, --avatar or --banner")
			}

			p, err := a.session.UpdateProfile(cmd.Context(), upd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Profile of "+p.Name+" updated"))
			return nil
		},
	}
	update.Flags().StringVar(&bio, "bio", "", "profile bio")
	update.Flags().StringVar(&avatar, "avatar", "", "avatar image URL")
	update.Flags().StringVar(&banner, "banner", "", "banner image URL")

	cmd.AddCommand(update)
	return cmd
}
