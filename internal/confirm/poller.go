package confirm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/llatelier/storefront/internal/shopapi"
	"github.com/llatelier/storefront/pkg/logger"
	"github.com/llatelier/storefront/pkg/metrics"
)

// State is one step of the confirmation lifecycle. Checking is the only
// non-terminal state; no transition ever leaves the other four.
type State string

const (
	StateChecking  State = "checking"
	StateConfirmed State = "confirmed"
	StateExpired   State = "expired"
	StateErrored   State = "errored"
	StateTimedOut  State = "timed_out"
)

// Terminal reports whether the state has no outgoing transitions.
func (s State) Terminal() bool {
	return s != StateChecking && s != ""
}

const (
	// DefaultMaxAttempts bounds how many status queries one confirmation
	// issues before giving up.
	DefaultMaxAttempts = 5
	// DefaultPollDelay is the fixed wait between consecutive queries.
	DefaultPollDelay = 2 * time.Second
)

// StatusFetcher queries the payment provider's session status through the
// shop API.
type StatusFetcher interface {
	CheckoutStatus(ctx context.Context, sessionID string) (*shopapi.CheckoutStatus, error)
}

// CartClearer empties the cart once a payment settles.
type CartClearer interface {
	Clear(ctx context.Context) error
}

// Result is what one confirmation run produced. Status is only populated when
// the run reached Confirmed.
type Result struct {
	State    State
	Status   *shopapi.CheckoutStatus
	Attempts int
}

// Poller drives the bounded-retry confirmation loop for one checkout session.
// One poller handles one session; a new confirmation-page visit builds a new
// poller.
type Poller struct {
	sessionID   string
	fetcher     StatusFetcher
	cart        CartClearer
	maxAttempts int
	delay       time.Duration
	logg        *logger.Logger
	metrics     *metrics.ConfirmationMetrics
}

// Option tunes the poller.
type Option func(*Poller)

// WithBudget overrides the attempt budget and inter-attempt delay.
func WithBudget(maxAttempts int, delay time.Duration) Option {
	return func(p *Poller) {
		if maxAttempts > 0 {
			p.maxAttempts = maxAttempts
		}
		if delay > 0 {
			p.delay = delay
		}
	}
}

// WithLogger attaches structured logging to the loop.
func WithLogger(logg *logger.Logger) Option {
	return func(p *Poller) { p.logg = logg }
}

// WithMetrics attaches confirmation metrics to the loop.
func WithMetrics(m *metrics.ConfirmationMetrics) Option {
	return func(p *Poller) { p.metrics = m }
}

// NewPoller builds a poller for the given session. The session id comes from
// the provider's return-URL query parameters; an empty one means the caller
// should send the user back to the cart instead of polling.
func NewPoller(sessionID string, fetcher StatusFetcher, cart CartClearer, opts ...Option) (*Poller, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session id required")
	}
	if fetcher == nil {
		return nil, fmt.Errorf("status fetcher required")
	}
	if cart == nil {
		return nil, fmt.Errorf("cart clearer required")
	}

	p := &Poller{
		sessionID:   sessionID,
		fetcher:     fetcher,
		cart:        cart,
		maxAttempts: DefaultMaxAttempts,
		delay:       DefaultPollDelay,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

// Run executes the confirmation loop until a terminal state or cancellation.
// Only one query is ever in flight; the loop sleeps the fixed delay between
// attempts and checks ctx before every query, so tearing the caller down
// cancels any scheduled retry without a late state change or cart clear.
//
// Exhausting the budget on a "still pending" response yields TimedOut;
// exhausting it on a failed query yields Errored. The distinction is
// diagnostic only, both read as failure to the user.
func (p *Poller) Run(ctx context.Context) (Result, error) {
	started := time.Now()
	ctx = p.logCtx(ctx)

	for attempt := 0; ; {
		if err := ctx.Err(); err != nil {
			return Result{State: StateChecking, Attempts: attempt}, err
		}

		status, err := p.fetcher.CheckoutStatus(ctx, p.sessionID)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Result{State: StateChecking, Attempts: attempt}, ctxErr
			}
			p.observeAttempt("error")
			attempt++
			if attempt >= p.maxAttempts {
				p.warn(ctx, "confirmation gave up after repeated query failures", err)
				return p.finish(ctx, started, StateErrored, nil, attempt), nil
			}
			if waitErr := p.wait(ctx); waitErr != nil {
				return Result{State: StateChecking, Attempts: attempt}, waitErr
			}
			continue
		}

		switch {
		case status.Paid():
			p.observeAttempt("paid")
			p.clearCart(ctx)
			return p.finish(ctx, started, StateConfirmed, status, attempt+1), nil

		case status.Expired():
			p.observeAttempt("expired")
			return p.finish(ctx, started, StateExpired, nil, attempt+1), nil

		default:
			p.observeAttempt("pending")
			attempt++
			if attempt >= p.maxAttempts {
				return p.finish(ctx, started, StateTimedOut, nil, attempt), nil
			}
			if waitErr := p.wait(ctx); waitErr != nil {
				return Result{State: StateChecking, Attempts: attempt}, waitErr
			}
		}
	}
}

func (p *Poller) wait(ctx context.Context) error {
	timer := time.NewTimer(p.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// clearCart runs at most once per poller because Confirmed is terminal and
// Run returns immediately after.
func (p *Poller) clearCart(ctx context.Context) {
	if err := p.cart.Clear(ctx); err != nil && p.logg != nil {
		p.logg.Error(ctx, "clearing cart after confirmed payment failed", err)
	}
}

func (p *Poller) finish(ctx context.Context, started time.Time, state State, status *shopapi.CheckoutStatus, attempts int) Result {
	p.metrics.IncOutcome(string(state))
	p.metrics.ObserveDuration(string(state), time.Since(started))
	if p.logg != nil {
		ctx = p.logg.WithFields(ctx, map[string]any{"state": string(state), "attempts": attempts})
		p.logg.Info(ctx, "confirmation finished")
	}
	return Result{State: state, Status: status, Attempts: attempts}
}

func (p *Poller) observeAttempt(result string) {
	p.metrics.IncAttempt(result)
}

func (p *Poller) logCtx(ctx context.Context) context.Context {
	if p.logg == nil {
		return ctx
	}
	return p.logg.WithSessionID(ctx, p.sessionID)
}

func (p *Poller) warn(ctx context.Context, msg string, err error) {
	if p.logg == nil {
		return
	}
	p.logg.Error(ctx, msg, err)
}
