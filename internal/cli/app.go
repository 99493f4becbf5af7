// Package cli is the heartbids command line front end. Commands only render
// state and forward user intent to the session, listing and bidding packages.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"heartbids/internal/apiclient"
	"heartbids/internal/charity"
	"heartbids/internal/clock"
	"heartbids/internal/config"
	"heartbids/internal/listings"
	"heartbids/internal/session"
	"heartbids/utils"

	"github.com/spf13/cobra"
)

// App holds the collaborators shared by every command.
type App struct {
	cfg      *config.Config
	clock    clock.Clock
	storage  *session.FileStorage
	client   *apiclient.Client
	session  *session.Service
	listings *listings.Repository

	charity      *charity.Service
	closeCharity func(context.Context) error
}

// NewApp wires the client side from cfg. Nothing here touches the network.
func NewApp(cfg *config.Config, clk clock.Clock) (*App, error) {
	storage := session.NewFileStorage(cfg.Session.Path)

	client, err := apiclient.New(cfg.API.BaseURL, cfg.API.Key,
		apiclient.WithTokenSource(storage),
		apiclient.WithTimeout(cfg.API.Timeout),
		apiclient.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst),
	)
	if err != nil {
		return nil, err
	}

	sess, err := session.NewService(client, storage, clk)
	if err != nil {
		return nil, fmt.Errorf("cli: open session: %w", err)
	}

	repo := listings.NewRepository(client,
		listings.WithPageSize(cfg.Listings.PageSize),
		listings.WithMaxPages(cfg.Listings.MaxPages),
	)

	return &App{
		cfg:      cfg,
		clock:    clk,
		storage:  storage,
		client:   client,
		session:  sess,
		listings: repo,
	}, nil
}

// Charity returns the charity service, connecting to MongoDB on first use when a URI is configured.
func (a *App) Charity(ctx context.Context) (*charity.Service, error) {
	if a.charity != nil {
		return a.charity, nil
	}

	var store charity.Store = charity.NewMemoryStore()
	if uri := a.cfg.Charity.MongoURI; uri != "" {
		ms, err := charity.NewMongoStore(ctx, uri, a.cfg.Charity.Database, a.cfg.Charity.Collection)
		if err != nil {
			return nil, err
		}
		store = ms
		a.closeCharity = ms.Close
	}

	a.charity = charity.NewService(store, a.clock)
	return a.charity, nil
}

// Close releases connections opened by commands.
func (a *App) Close(ctx context.Context) {
	if a.closeCharity == nil {
		return
	}
	if err := a.closeCharity(ctx); err != nil {
		utils.Warn("cli: closing charity store", map[string]any{"error": err.Error()})
	}
}

// NewRootCommand builds the command tree. The App is created once flags are parsed.
func NewRootCommand(clk clock.Clock) *cobra.Command {
	var (
		cfgPath string
		app     *App
	)

	root := &cobra.Command{
		Use:           "heartbids",
		Short:         "Browse and bid on charity auctions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			utils.Configure(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())

			app, err = NewApp(cfg, clk)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if app != nil {
				app.Close(cmd.Context())
			}
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default: ./heartbids.yaml or the user config dir)")

	get := func() *App { return app }
	root.AddCommand(
		newLoginCommand(get),
		newLogoutCommand(get),
		newRegisterCommand(get),
		newWhoamiCommand(get),
		newListingsCommand(get),
		newShowCommand(get),
		newBidCommand(get),
		newCharityCommand(get),
		newProfileCommand(get),
		newListingCommand(get),
		newSandboxCommand(get),
	)
	return root
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand(clock.NewSystem())
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(stderr, errorStyle.Render("Error: "+err.Error()))
		}
		return 1
	}
	return 0
}

// errReported marks failures whose message the command already printed.
var errReported = errors.New("reported")
