package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"heartbids/internal/biddingerrors"
	"heartbids/internal/charity"
	model "heartbids/internal/models"
	"heartbids/internal/session"

	"github.com/spf13/cobra"
)

func newLoginCommand(app func() *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			if password == "" {
				p, err := readLine(cmd, "Password: ")
				if err != nil {
					return err
				}
				password = p
			}

			profile, err := a.session.Login(cmd.Context(), email, password)
			if err != nil {
				var authErr *biddingerrors.AuthError
				if errors.As(err, &authErr) {
					return err
				}
				// logged in, but the full profile could not be loaded
				fmt.Fprintln(cmd.OutOrStdout(), helpStyle.Render("Logged in; profile details unavailable: "+err.Error()))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Logged in as %s (%d credits)", profile.Name, profile.Credits)))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when empty)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app().session.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newRegisterCommand(app func() *App) *cobra.Command {
	var in model.RegisterRequest
	var bio string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account (does not log in)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			if in.Password == "" {
				p, err := readLine(cmd, "Password: ")
				if err != nil {
					return err
				}
				in.Password = p
			}
			if bio != "" {
				in.Bio = &bio
			}

			profile, err := a.session.Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Registered "+profile.Name+". Run `heartbids login` to start bidding."))
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "profile name")
	cmd.Flags().StringVar(&in.Email, "email", "", "account email")
	cmd.Flags().StringVar(&in.Password, "password", "", "account password (prompted when empty)")
	cmd.Flags().StringVar(&bio, "bio", "", "short profile bio")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newWhoamiCommand(app func() *App) *cobra.Command {
	var follow, offline bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			ctx := cmd.Context()

			profile, ok := a.session.Current()
			if !ok {
				return biddingerrors.ErrNotLoggedIn
			}
			if !offline {
				fresh, err := a.session.Refresh(ctx)
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), helpStyle.Render("Showing stored profile: "+err.Error()))
				} else {
					profile = fresh
				}
			}

			expiry, hasExpiry := a.session.TokenExpiry()
			renderProfile(cmd.OutOrStdout(), profile, charityName(profile.Charity), expiry, hasExpiry)

			if !follow {
				return nil
			}
			if !a.cfg.Session.Watch {
				return fmt.Errorf("whoami --follow: session.watch is disabled")
			}

			// print every change another heartbids process makes to the session file
			unsubscribe := a.session.Subscribe(func(ev session.Event) {
				name := ev.Profile.Name
				if name == "" {
					name = "(logged out)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", helpStyle.Render(ev.Kind.String()), name)
			})
			defer unsubscribe()

			return a.session.Watch(ctx, a.storage.Path())
		},
	}
	cmd.Flags().BoolVar(&follow, "follow", false, "keep running and report session changes")
	cmd.Flags().BoolVar(&offline, "offline", false, "do not refresh the profile from the server")
	return cmd
}

func charityName(id string) string {
	if id == "" {
		return ""
	}
	if c, ok := charity.Lookup(id); ok {
		return c.Name
	}
	return id
}

func readLine(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.ToLower(prompt), ": "), err)
	}
	return strings.TrimSpace(line), nil
}
