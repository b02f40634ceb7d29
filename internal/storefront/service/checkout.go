package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/murodbro/turfa-bazar-client/internal/storefront/domain"
	"github.com/murodbro/turfa-bazar-client/internal/storefront/store"
	"github.com/murodbro/turfa-bazar-client/pkg/commercesdk"
	"github.com/murodbro/turfa-bazar-client/pkg/idx"
)

const (
	// DefaultConfirmWindow is how long the shopper has to enter the emailed
	// confirmation code once the order is created.
	DefaultConfirmWindow = 180 * time.Second

	// DefaultFallbackLead is how far before the window closes the fallback
	// reconciliation check runs, covering the case where the code-entry UI
	// was dismissed without an explicit action.
	DefaultFallbackLead = 10 * time.Second

	// DefaultDeliveredAfter is the delay before a confirmed order is marked
	// delivered. Best effort: the timer is not persisted.
	DefaultDeliveredAfter = 24 * time.Hour

	statusTimeout = 15 * time.Second
)

var (
	// ErrNotAuthenticated means checkout was attempted without a session.
	ErrNotAuthenticated = errors.New("checkout: not logged in")

	// ErrCheckoutInProgress means an order is already awaiting its code.
	ErrCheckoutInProgress = errors.New("checkout: an order is already awaiting confirmation")

	// ErrNoActiveCheckout means there is no order awaiting confirmation.
	ErrNoActiveCheckout = errors.New("checkout: no order awaiting confirmation")
)

// CheckoutConfig tunes the controller's timing. Zero values select defaults;
// tests compress the window to milliseconds.
type CheckoutConfig struct {
	ConfirmWindow    time.Duration
	FallbackLead     time.Duration
	DeliveredAfter   time.Duration
	ProgressInterval time.Duration
}

func (c CheckoutConfig) withDefaults() CheckoutConfig {
	if c.ConfirmWindow <= 0 {
		c.ConfirmWindow = DefaultConfirmWindow
	}
	if c.FallbackLead <= 0 || c.FallbackLead >= c.ConfirmWindow {
		c.FallbackLead = DefaultFallbackLead
		if c.FallbackLead >= c.ConfirmWindow {
			c.FallbackLead = c.ConfirmWindow / 2
		}
	}
	if c.DeliveredAfter <= 0 {
		c.DeliveredAfter = DefaultDeliveredAfter
	}
	if c.ProgressInterval <= 0 {
		c.ProgressInterval = time.Second
	}
	return c
}

// CheckoutService drives the bounded-time order confirmation handshake:
// submit the form, create the order, wait for the emailed code, and guarantee
// exactly one terminal outcome within the confirmation window, surviving a
// process restart in between.
//
// One scheduler goroutine per order holds the single authoritative deadline.
// The fallback reconciliation and the hard timeout are phases of that one
// schedule, so no two timers can race over the same session.
type CheckoutService struct {
	sdk      *commercesdk.Client
	auth     *AuthService
	store    store.Store
	logger   *slog.Logger
	notifier Notifier
	cfg      CheckoutConfig
	now      func() time.Time

	mu         sync.Mutex
	state      domain.CheckoutState
	orderID    string
	windowEnds time.Time
	redirect   string
	stop       chan struct{}

	deliveredTimer *time.Timer
}

func NewCheckoutService(
	sdk *commercesdk.Client,
	auth *AuthService,
	st store.Store,
	logger *slog.Logger,
	notifier Notifier,
	cfg CheckoutConfig,
) *CheckoutService {
	return &CheckoutService{
		sdk:      sdk,
		auth:     auth,
		store:    st,
		logger:   logger,
		notifier: notifier,
		cfg:      cfg.withDefaults(),
		now:      time.Now,
	}
}

// CheckoutStatus is the observable state of the controller.
type CheckoutStatus struct {
	State            domain.CheckoutState
	OrderID          string
	RemainingSeconds int
	Redirect         string
}

// Status returns a snapshot of the current checkout.
func (s *CheckoutService) Status() CheckoutStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := CheckoutStatus{
		State:    s.state,
		OrderID:  s.orderID,
		Redirect: s.redirect,
	}
	if s.state == domain.StateAwaitingCode {
		status.RemainingSeconds = int(s.until(s.windowEnds).Seconds())
	}
	return status
}

// Submit validates the form and creates the order, opening the confirmation
// window. A creation failure leaves the controller resubmittable.
func (s *CheckoutService) Submit(ctx context.Context, form domain.CheckoutForm) (string, error) {
	if err := form.Validate(); err != nil {
		return "", err
	}

	sess := s.auth.Session()
	if !sess.IsAuthenticated {
		return "", ErrNotAuthenticated
	}

	// AwaitingSubmission marks a creation in flight: a second Submit racing
	// the first (gateway handlers run concurrently) must not reach the
	// backend and create a second order from the same cart.
	s.mu.Lock()
	if s.state == domain.StateAwaitingSubmission || s.state == domain.StateAwaitingCode {
		s.mu.Unlock()
		return "", ErrCheckoutInProgress
	}
	s.state = domain.StateAwaitingSubmission
	s.mu.Unlock()

	orderID, err := s.sdk.CreateOrder(ctx, sess.AccessToken, sess.UserID, form.Request(), idx.New().String())
	if err != nil {
		// Back to Idle so the form can be submitted again.
		s.mu.Lock()
		s.state = domain.StateIdle
		s.mu.Unlock()
		s.notifier.Error("could not place the order, please try again")
		return "", err
	}

	start := s.now()
	s.persistSession(ctx, orderID, start, form.Email)

	s.mu.Lock()
	s.state = domain.StateAwaitingCode
	s.orderID = orderID
	s.windowEnds = start.Add(s.cfg.ConfirmWindow)
	s.redirect = ""
	s.startSchedule(orderID, s.windowEnds)
	s.mu.Unlock()

	s.logger.Info("order created, awaiting confirmation code",
		"order_id", orderID, "window", s.cfg.ConfirmWindow)
	return orderID, nil
}

// SubmitCode sends the shopper's confirmation code to the backend. On
// success it returns the redirect target (order-detail path or external
// payment URL). A definitive backend rejection cancels the checkout; a
// transport failure keeps it open for another attempt.
func (s *CheckoutService) SubmitCode(ctx context.Context, code string) (string, error) {
	s.mu.Lock()
	if s.state != domain.StateAwaitingCode {
		s.mu.Unlock()
		return "", ErrNoActiveCheckout
	}
	orderID := s.orderID
	s.mu.Unlock()

	redirect, err := s.sdk.ConfirmOrder(ctx, s.auth.AccessToken(), orderID, code)
	if err != nil {
		var apiErr *commercesdk.APIError
		if errors.As(err, &apiErr) {
			s.finishCancelled(ctx, orderID, domain.StateCancelled, "order was not completed")
			return "", err
		}
		// Transport failure: still awaiting the code.
		s.notifier.Error("something went wrong, please try again")
		return "", err
	}

	if redirect == "" {
		redirect = "/order_detail/" + orderID + "/"
	}
	s.finishConfirmed(ctx, orderID, redirect)

	// The confirm response may have lost a race against a cancellation; only
	// report success if this order actually reached Confirmed.
	s.mu.Lock()
	confirmed := s.state == domain.StateConfirmed && s.orderID == orderID
	redirect = s.redirect
	s.mu.Unlock()
	if !confirmed {
		return "", ErrNoActiveCheckout
	}
	return redirect, nil
}

// Cancel is the shopper's explicit cancellation. Cancelling when nothing is
// awaiting a code is a no-op.
func (s *CheckoutService) Cancel(ctx context.Context) error {
	s.mu.Lock()
	if s.state != domain.StateAwaitingCode {
		s.mu.Unlock()
		return nil
	}
	orderID := s.orderID
	s.mu.Unlock()

	s.finishCancelled(ctx, orderID, domain.StateCancelled, "order was not completed")
	return nil
}

// Resume reconstructs an in-flight checkout after a restart. Absence of
// either marker key means no session; a stray partial write is cleaned up.
func (s *CheckoutService) Resume(ctx context.Context) error {
	orderID, err := s.store.Get(ctx, store.KeyOrderID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	inProgress, err := s.store.Get(ctx, store.KeyOrderInProgress)
	if errors.Is(err, store.ErrNotFound) || (err == nil && inProgress != "true") {
		s.clearSessionKeys(ctx)
		return nil
	}
	if err != nil {
		return err
	}

	start := s.now()
	if raw, serr := s.store.Get(ctx, store.KeyStartTime); serr == nil {
		if ms, perr := strconv.ParseInt(raw, 10, 64); perr == nil {
			start = time.UnixMilli(ms)
		}
	}

	windowEnds := start.Add(s.cfg.ConfirmWindow)

	s.mu.Lock()
	s.state = domain.StateAwaitingCode
	s.orderID = orderID
	s.windowEnds = windowEnds
	s.redirect = ""
	s.startSchedule(orderID, windowEnds)
	s.mu.Unlock()

	s.logger.Info("resumed checkout session",
		"order_id", orderID, "remaining", s.until(windowEnds))
	return nil
}

// Close stops the scheduler and any pending delivered timer. Used on
// shutdown; it does not transition state.
func (s *CheckoutService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopScheduleLocked()
	if s.deliveredTimer != nil {
		s.deliveredTimer.Stop()
		s.deliveredTimer = nil
	}
}

// ============================================================================
// Scheduler
// ============================================================================

// startSchedule arms the per-order scheduler. Callers must hold s.mu.
func (s *CheckoutService) startSchedule(orderID string, windowEnds time.Time) {
	s.stopScheduleLocked()
	stopC := make(chan struct{})
	s.stop = stopC
	go s.runSchedule(stopC, orderID, windowEnds)
}

// stopScheduleLocked signals the active scheduler, if any. Callers must hold
// s.mu.
func (s *CheckoutService) stopScheduleLocked() {
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}

// runSchedule owns the single authoritative deadline for one order. Phase
// one fires the fallback reconciliation; if its status check cannot decide, the hard
// deadline remains armed and phase two cancels unconditionally. A 1s tick
// writes the progress key for resume approximation.
func (s *CheckoutService) runSchedule(stopC chan struct{}, orderID string, windowEnds time.Time) {
	fallbackAt := windowEnds.Add(-s.cfg.FallbackLead)

	timer := time.NewTimer(s.until(fallbackAt))
	defer timer.Stop()
	progress := time.NewTicker(s.cfg.ProgressInterval)
	defer progress.Stop()

	fallbackDone := false
	for {
		select {
		case <-timer.C:
			if !fallbackDone {
				fallbackDone = true
				if s.reconcile(orderID) {
					return
				}
				timer.Reset(s.until(windowEnds))
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), statusTimeout)
			s.finishCancelled(ctx, orderID, domain.StateTimedOut, "order was not completed in time")
			cancel()
			return
		case <-progress.C:
			s.writeProgress(windowEnds)
		case <-stopC:
			return
		}
	}
}

func (s *CheckoutService) until(t time.Time) time.Duration {
	d := t.Sub(s.now())
	if d < 0 {
		return 0
	}
	return d
}

// writeProgress persists the remaining seconds while the window is open.
func (s *CheckoutService) writeProgress(windowEnds time.Time) {
	s.mu.Lock()
	awaiting := s.state == domain.StateAwaitingCode
	s.mu.Unlock()
	if !awaiting {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	remaining := int(s.until(windowEnds).Seconds())
	if err := s.store.Set(ctx, store.KeyProgress, strconv.Itoa(remaining)); err != nil {
		s.logger.Debug("failed to write countdown progress", "error", err)
	}
}

// reconcile is the fallback check: query the order once and settle it. It
// reports whether a terminal state was reached; a transport failure leaves
// the hard deadline to decide.
func (s *CheckoutService) reconcile(orderID string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), statusTimeout)
	defer cancel()

	order, err := s.sdk.OrderDetail(ctx, s.auth.AccessToken(), orderID)
	if err != nil {
		var apiErr *commercesdk.APIError
		if errors.As(err, &apiErr) {
			// The backend answered and the order is not retrievable.
			s.logger.Warn("order status check rejected", "order_id", orderID, "error", err)
			s.finishCancelled(ctx, orderID, domain.StateCancelled, "order was not completed")
			return true
		}
		s.logger.Warn("order status check failed, hard deadline stands",
			"order_id", orderID, "error", err)
		return false
	}

	if order.FullyConfirmed() {
		s.finishConfirmed(ctx, orderID, "/order_detail/"+orderID+"/")
		return true
	}

	s.finishCancelled(ctx, orderID, domain.StateCancelled, "order was not completed")
	return true
}

// ============================================================================
// Terminal transitions
// ============================================================================

// finishConfirmed moves the checkout to Confirmed. A stale call (session
// already terminal, or a different order) is ignored.
func (s *CheckoutService) finishConfirmed(ctx context.Context, orderID, redirect string) {
	s.mu.Lock()
	if s.state != domain.StateAwaitingCode || s.orderID != orderID {
		s.mu.Unlock()
		return
	}
	s.state = domain.StateConfirmed
	s.redirect = redirect
	s.stopScheduleLocked()
	s.armDeliveredTimerLocked(orderID)
	s.mu.Unlock()

	s.clearSessionKeys(ctx)
	s.notifier.Success("order confirmed")
	s.logger.Info("checkout confirmed", "order_id", orderID)
}

// finishCancelled moves the checkout to Cancelled or TimedOut, notifies the
// backend best-effort and clears the session. Stale calls are ignored, so a
// late-arriving outcome cannot resurrect a settled session.
func (s *CheckoutService) finishCancelled(
	ctx context.Context,
	orderID string,
	terminal domain.CheckoutState,
	msg string,
) {
	s.mu.Lock()
	if s.state != domain.StateAwaitingCode || s.orderID != orderID {
		s.mu.Unlock()
		return
	}
	s.state = terminal
	s.redirect = ""
	s.stopScheduleLocked()
	s.mu.Unlock()

	// Cancellation is advisory: the backend reconciles abandoned orders on
	// its own. Local state is cleared no matter what the call returns.
	if err := s.sdk.CancelOrder(ctx, s.auth.AccessToken(), orderID); err != nil {
		s.logger.Warn("order cancellation call failed", "order_id", orderID, "error", err)
	}

	s.clearSessionKeys(ctx)
	s.notifier.Error(msg)
	s.logger.Info("checkout ended", "order_id", orderID, "state", terminal.String())
}

// armDeliveredTimerLocked schedules the mark-delivered call for a confirmed
// order. Not persisted; a restart loses it. Callers must hold s.mu.
func (s *CheckoutService) armDeliveredTimerLocked(orderID string) {
	if s.deliveredTimer != nil {
		s.deliveredTimer.Stop()
	}
	s.deliveredTimer = time.AfterFunc(s.cfg.DeliveredAfter, func() {
		ctx, cancel := context.WithTimeout(context.Background(), statusTimeout)
		defer cancel()

		if err := s.sdk.MarkDelivered(ctx, s.auth.AccessToken(), orderID); err != nil {
			s.logger.Warn("mark-delivered call failed", "order_id", orderID, "error", err)
		}
	})
}

// ============================================================================
// Session keys
// ============================================================================

func (s *CheckoutService) persistSession(ctx context.Context, orderID string, start time.Time, email string) {
	// Partial writes are tolerated by Resume, so each failure is logged and
	// the flow continues.
	writes := []struct{ key, value string }{
		{store.KeyOrderID, orderID},
		{store.KeyOrderInProgress, "true"},
		{store.KeyStartTime, strconv.FormatInt(start.UnixMilli(), 10)},
		{store.KeyEmail, email},
	}
	for _, w := range writes {
		if err := s.store.Set(ctx, w.key, w.value); err != nil {
			s.logger.Error("failed to persist checkout key", "key", w.key, "error", err)
		}
	}
}

// clearSessionKeys removes every checkout key. Idempotent; every terminal
// path calls it. The email key stays: it prefills the next checkout.
func (s *CheckoutService) clearSessionKeys(ctx context.Context) {
	err := s.store.DeleteAll(ctx,
		store.KeyOrderID,
		store.KeyOrderInProgress,
		store.KeyStartTime,
		store.KeyProgress,
	)
	if err != nil {
		s.logger.Error("failed to clear checkout session keys", "error", err)
	}
}
