package bidding

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"heartbids/internal/biddingerrors"
	"heartbids/internal/clock"
	model "heartbids/internal/models"
	"heartbids/utils"

	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=bidding_service.go -destination=mock_bidding_service.go -package=bidding

const DefaultSubmitTimeout = 15 * time.Second

// NetworkFailureMessage is shown when the API could not be reached or answered without a usable message.
const NetworkFailureMessage = "Could not reach the auction service. Please try again."

// ListingGetter reads the authoritative state of one listing
type ListingGetter interface {
	Get(ctx context.Context, id string) (model.Listing, error)
}

// BidPoster creates a bid on behalf of the logged in user
type BidPoster interface {
	PlaceBid(ctx context.Context, listingID string, amount int) (model.Bid, error)
}

// Session is the read side of the session store plus its credit refresh
type Session interface {
	Current() (model.Profile, bool)
	Refresh(ctx context.Context) (model.Profile, error)
}

type State int

const (
	Idle State = iota
	Validating
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Outcome is the terminal result of one submission attempt.
type Outcome struct {
	State   State
	Message string
	Err     error
	Bid     model.Bid
	Listing model.Listing
}

// Precondition is what a candidate bid was computed against.
type Precondition struct {
	ListingID string
	Amount    int
	Bidder    string
}

// Check compares the precondition with a fresh read of the listing.
func (p Precondition) Check(fresh model.Listing, now time.Time) error {
	highest := fresh.HighestBid()
	var lastBidder string
	if last, ok := fresh.LastBid(); ok {
		lastBidder = last.Bidder.Name
	}

	stale := func(reason error) error {
		return &biddingerrors.StaleStateError{Reason: reason, FreshHighest: highest, FreshLastBidder: lastBidder}
	}

	switch {
	case !fresh.IsActive(now):
		return stale(biddingerrors.ErrAuctionEnded)
	case highest >= p.Amount:
		return stale(biddingerrors.ErrBidTooLow)
	case lastBidder != "" && lastBidder == p.Bidder:
		return stale(biddingerrors.ErrConsecutiveBid)
	}
	return nil
}

// Validate runs the local checks on a candidate bid. It never touches the network.
func Validate(l model.Listing, user model.Profile, loggedIn bool, amount int, now time.Time) error {
	if amount <= 0 {
		return biddingerrors.NewValidationError(biddingerrors.ErrAmountNotPositive)
	}
	if !l.IsActive(now) {
		return biddingerrors.NewValidationError(biddingerrors.ErrAuctionEnded)
	}
	if !loggedIn {
		return biddingerrors.NewValidationError(biddingerrors.ErrNotLoggedIn)
	}
	if l.Seller != nil && l.Seller.Name == user.Name {
		return biddingerrors.NewValidationError(biddingerrors.ErrOwnListing)
	}
	if last, ok := l.LastBid(); ok && last.Bidder.Name == user.Name {
		return biddingerrors.NewValidationError(biddingerrors.ErrConsecutiveBid)
	}
	highest := l.HighestBid()
	if amount <= highest {
		return &biddingerrors.ValidationError{Reason: fmt.Errorf("%w: the current highest bid is %d", biddingerrors.ErrBidTooLow, highest)}
	}
	if user.Credits < highest+1 {
		return &biddingerrors.ValidationError{Reason: fmt.Errorf("%w: you have %d", biddingerrors.ErrInsufficientCredits, user.Credits)}
	}
	return nil
}

// Workflow drives bid submission for one listing view. Only one attempt can be in flight.
type Workflow struct {
	listings ListingGetter
	bids     BidPoster
	session  Session
	clock    clock.Clock
	timeout  time.Duration

	mu      sync.Mutex
	state   State
	listing model.Listing
	last    Outcome
}

type Option func(*Workflow)

func WithClock(c clock.Clock) Option {
	return func(w *Workflow) {
		w.clock = c
	}
}

// WithSubmitTimeout bounds each network step of a submission.
func WithSubmitTimeout(d time.Duration) Option {
	return func(w *Workflow) {
		if d > 0 {
			w.timeout = d
		}
	}
}

// NewWorkflow starts in Idle with listing as the local snapshot.
func NewWorkflow(listing model.Listing, listings ListingGetter, bids BidPoster, sess Session, opts ...Option) *Workflow {
	w := &Workflow{
		listings: listings,
		bids:     bids,
		session:  sess,
		clock:    clock.NewSystem(),
		timeout:  DefaultSubmitTimeout,
		state:    Idle,
		listing:  listing.Clone(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Listing returns a copy of the local snapshot.
func (w *Workflow) Listing() model.Listing {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.listing.Clone()
}

// LastOutcome returns the result of the most recent attempt.
func (w *Workflow) LastOutcome() Outcome {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

// Reload replaces the snapshot with the server's copy. It is refused while a bid is in flight.
func (w *Workflow) Reload(ctx context.Context) (model.Listing, error) {
	w.mu.Lock()
	if w.inFlight() {
		w.mu.Unlock()
		return model.Listing{}, biddingerrors.ErrSubmissionInFlight
	}
	id := w.listing.ID
	w.mu.Unlock()

	fresh, err := w.fetch(ctx, id)
	if err != nil {
		return model.Listing{}, err
	}
	w.replace(fresh)
	return fresh, nil
}

func (w *Workflow) inFlight() bool {
	return w.state == Validating || w.state == Submitting
}

func (w *Workflow) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

func (w *Workflow) replace(l model.Listing) {
	w.mu.Lock()
	w.listing = l.Clone()
	w.mu.Unlock()
}

// finish records the terminal outcome of an attempt.
func (w *Workflow) finish(state State, err error) Outcome {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.state = state
	w.last = Outcome{State: state, Err: err, Message: messageFor(err), Listing: w.listing.Clone()}
	return w.last
}

// Submit validates, re-checks against the server and posts one bid. It never retries.
func (w *Workflow) Submit(ctx context.Context, amount int) Outcome {
	w.mu.Lock()
	if w.inFlight() {
		current := w.state
		w.mu.Unlock()
		return Outcome{State: current, Err: biddingerrors.ErrSubmissionInFlight, Message: biddingerrors.ErrSubmissionInFlight.Error()}
	}
	w.state = Validating
	snapshot := w.listing.Clone()
	w.mu.Unlock()

	user, loggedIn := w.session.Current()
	if err := Validate(snapshot, user, loggedIn, amount, w.clock.Now()); err != nil {
		utils.Debug("bidding: rejected locally", map[string]any{"listing": snapshot.ID, "amount": amount, "reason": err.Error()})
		return w.finish(Idle, err)
	}

	w.setState(Submitting)
	pre := Precondition{ListingID: snapshot.ID, Amount: amount, Bidder: user.Name}
	bid, err := w.SubmitIfStillValid(ctx, pre)
	if err != nil {
		utils.Info("bidding: submission failed", map[string]any{"listing": snapshot.ID, "amount": amount, "error": err.Error()})
		return w.finish(Failed, err)
	}

	bid.ListingID = snapshot.ID
	bid.Amount = amount
	bid.Bidder = user.Ref()
	bid.Created = w.clock.Now()
	if bid.ID == "" {
		bid.ID = utils.GenerateID()
	}

	w.mu.Lock()
	w.listing.Bids = append(w.listing.Bids, bid)
	w.state = Succeeded
	w.mu.Unlock()

	utils.Info("bidding: bid placed", map[string]any{"listing": snapshot.ID, "amount": amount, "bidder": user.Name})
	w.reconcile(ctx, snapshot.ID)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.last = Outcome{
		State:   Succeeded,
		Bid:     bid,
		Listing: w.listing.Clone(),
		Message: fmt.Sprintf("Bid of %d credits placed on %q", amount, snapshot.Title),
	}
	return w.last
}

// SubmitIfStillValid re-reads the listing and posts the bid only if pre still holds.
// The read strictly precedes the post.
func (w *Workflow) SubmitIfStillValid(ctx context.Context, pre Precondition) (model.Bid, error) {
	fresh, err := w.fetch(ctx, pre.ListingID)
	if err != nil {
		return model.Bid{}, err
	}
	if err := pre.Check(fresh, w.clock.Now()); err != nil {
		w.replace(fresh)
		return model.Bid{}, err
	}

	stepCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	bid, err := w.bids.PlaceBid(stepCtx, pre.ListingID, pre.Amount)
	if err != nil {
		return model.Bid{}, asTransportError("place bid", err)
	}
	return bid, nil
}

func (w *Workflow) fetch(ctx context.Context, id string) (model.Listing, error) {
	stepCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	fresh, err := w.listings.Get(stepCtx, id)
	if err != nil {
		if errors.Is(err, biddingerrors.ErrListingNotFound) {
			return model.Listing{}, err
		}
		return model.Listing{}, asTransportError("fetch listing", err)
	}
	return fresh, nil
}

// reconcile replaces the optimistic snapshot with the server's and resyncs credits.
// Failures are logged and do not change the outcome.
func (w *Workflow) reconcile(ctx context.Context, id string) {
	var g errgroup.Group

	g.Go(func() error {
		fresh, err := w.fetch(ctx, id)
		if err != nil {
			return fmt.Errorf("bidding: reconcile listing %s: %w", id, err)
		}
		w.replace(fresh)
		return nil
	})

	g.Go(func() error {
		stepCtx, cancel := context.WithTimeout(ctx, w.timeout)
		defer cancel()
		if _, err := w.session.Refresh(stepCtx); err != nil {
			return fmt.Errorf("bidding: refresh credits: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		utils.Warn("bidding: post-bid sync incomplete", map[string]any{"listing": id, "error": err.Error()})
	}
}

// asTransportError keeps API errors as they are and turns anything else into a NetworkError.
func asTransportError(op string, err error) error {
	var sve *biddingerrors.ServerValidationError
	if errors.As(err, &sve) {
		return sve
	}
	var ne *biddingerrors.NetworkError
	if errors.As(err, &ne) {
		return ne
	}
	return &biddingerrors.NetworkError{Op: op, Err: err}
}

func messageFor(err error) string {
	if err == nil {
		return ""
	}
	var sve *biddingerrors.ServerValidationError
	if errors.As(err, &sve) {
		return sve.Message
	}
	var ne *biddingerrors.NetworkError
	if errors.As(err, &ne) {
		return NetworkFailureMessage
	}
	return err.Error()
}
