package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/murodbro/turfa-bazar-client/internal/storefront/domain"
	"github.com/murodbro/turfa-bazar-client/internal/storefront/store"
	"github.com/murodbro/turfa-bazar-client/pkg/commercesdk"
	"github.com/murodbro/turfa-bazar-client/pkg/jwtx"
)

const (
	// DefaultCheckInterval is how often the recurring token check runs.
	DefaultCheckInterval = 60 * time.Second

	// DefaultRefreshHorizon is how close to expiry a token must be before a
	// check exchanges the refresh token for a new one.
	DefaultRefreshHorizon = 180 * time.Second
)

// AuthService keeps the access token fresh without user interaction. It owns
// the persisted token keys and the in-memory auth session; a recurring check
// refreshes the token when expiry comes within the horizon and fails closed
// (cleared state, re-login required) when a refresh is rejected.
//
// At most one recurring check is active per session lifetime. Login, logout
// and fail-closed paths all cancel any prior check before arming a new one.
type AuthService struct {
	sdk      *commercesdk.Client
	store    store.Store
	logger   *slog.Logger
	interval time.Duration
	horizon  time.Duration
	now      func() time.Time

	mu      sync.Mutex
	session domain.AuthSession
	stop    chan struct{}
}

// NewAuthService creates the scheduler. Zero interval or horizon select the
// defaults.
func NewAuthService(
	sdk *commercesdk.Client,
	st store.Store,
	logger *slog.Logger,
	interval, horizon time.Duration,
) *AuthService {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	if horizon <= 0 {
		horizon = DefaultRefreshHorizon
	}

	return &AuthService{
		sdk:      sdk,
		store:    st,
		logger:   logger,
		interval: interval,
		horizon:  horizon,
		now:      time.Now,
	}
}

// Init restores the session from persisted tokens. A stored token that is
// already expired or not decodable forces logged-out state immediately, with
// no speculative refresh; only a valid token arms the recurring check.
func (s *AuthService) Init(ctx context.Context) error {
	access, err := s.store.Get(ctx, store.KeyAuthTokens)
	if errors.Is(err, store.ErrNotFound) {
		return nil // no session to restore
	}
	if err != nil {
		return fmt.Errorf("read persisted access token: %w", err)
	}

	refresh, err := s.store.Get(ctx, store.KeyAuthTokensRefresh)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("read persisted refresh token: %w", err)
	}

	tok := jwtx.Decode(access, s.now())
	if tok.Status != jwtx.StatusValid {
		s.logger.Info("stored access token unusable at startup", "status", tok.Status.String())
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = sessionFromToken(access, refresh, tok.Claims)
	s.startChecker()

	s.logger.Info("auth session restored", "user_id", s.session.UserID)
	return nil
}

// Login authenticates, persists the token pair and (re)arms the recurring
// check.
func (s *AuthService) Login(ctx context.Context, email, password string) error {
	pair, err := s.sdk.Login(ctx, email, password)
	if err != nil {
		return err
	}

	tok := jwtx.Decode(pair.AccessToken, s.now())
	if tok.Status != jwtx.StatusValid {
		return fmt.Errorf("backend issued an unusable access token (%s)", tok.Status)
	}

	if err := s.store.Set(ctx, store.KeyAuthTokens, pair.AccessToken); err != nil {
		return fmt.Errorf("persist access token: %w", err)
	}
	if err := s.store.Set(ctx, store.KeyAuthTokensRefresh, pair.RefreshToken); err != nil {
		return fmt.Errorf("persist refresh token: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = sessionFromToken(pair.AccessToken, pair.RefreshToken, tok.Claims)
	s.startChecker()

	s.logger.Info("logged in", "user_id", s.session.UserID)
	return nil
}

// Logout clears the persisted and in-memory auth state and cancels the
// recurring check.
func (s *AuthService) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.stopChecker()
	s.session = domain.AuthSession{}
	s.mu.Unlock()

	s.logger.Info("logged out")
	return s.store.DeleteAll(ctx, store.KeyAuthTokens, store.KeyAuthTokensRefresh)
}

// Stop cancels the recurring check without touching state. Used on shutdown.
func (s *AuthService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopChecker()
}

// Session returns a copy of the current auth session.
func (s *AuthService) Session() domain.AuthSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// AccessToken returns the current access token, or "" when logged out.
func (s *AuthService) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.AccessToken
}

// startChecker arms the recurring check, cancelling any prior one first.
// Callers must hold s.mu.
func (s *AuthService) startChecker() {
	s.stopChecker()
	stopC := make(chan struct{})
	s.stop = stopC
	go s.run(stopC)
}

// stopChecker cancels the active check, if any. Callers must hold s.mu.
func (s *AuthService) stopChecker() {
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}

func (s *AuthService) run(stopC chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !s.check(context.Background()) {
				return
			}
		case <-stopC:
			return
		}
	}
}

// check is one pass of the recurring token check. It returns false when the
// session ended and the loop must stop.
//
// The session token at entry anchors every outcome: a login or logout that
// lands while a network exchange is in flight replaces the session, and a
// stale result must then be discarded rather than applied.
func (s *AuthService) check(ctx context.Context) bool {
	startAccess := s.AccessToken()

	access, err := s.store.Get(ctx, store.KeyAuthTokens)
	if err != nil {
		s.failClosed(ctx, startAccess, "no stored access token")
		return false
	}

	tok := jwtx.Decode(access, s.now())
	if tok.Status == jwtx.StatusInvalid {
		s.failClosed(ctx, startAccess, "stored access token is not decodable")
		return false
	}

	if tok.Status == jwtx.StatusValid && !tok.Claims.ExpiresWithin(s.now(), s.horizon) {
		// Far from expiry: just refresh the snapshot. The stored token may
		// have been replaced underneath us.
		refresh, rerr := s.store.Get(ctx, store.KeyAuthTokensRefresh)
		if rerr != nil {
			refresh = ""
		}
		s.mu.Lock()
		s.session = sessionFromToken(access, refresh, tok.Claims)
		s.mu.Unlock()
		return true
	}

	// Expired, or expiring within the horizon: exchange the refresh token.
	refresh, err := s.store.Get(ctx, store.KeyAuthTokensRefresh)
	if err != nil {
		s.failClosed(ctx, startAccess, "no refresh token available")
		return false
	}

	newAccess, err := s.sdk.Refresh(ctx, refresh)
	if err != nil {
		s.logger.Warn("token refresh failed", "error", err)
		s.failClosed(ctx, startAccess, "refresh rejected")
		return false
	}

	newTok := jwtx.Decode(newAccess, s.now())
	if newTok.Status != jwtx.StatusValid {
		s.failClosed(ctx, startAccess, "refreshed access token unusable")
		return false
	}

	if s.AccessToken() != startAccess {
		// Logged in or out while the exchange was in flight; the fresher
		// session owns the keys now, drop this result.
		s.logger.Debug("session replaced during refresh, discarding result")
		return true
	}

	if err := s.store.Set(ctx, store.KeyAuthTokens, newAccess); err != nil {
		s.logger.Error("failed to persist refreshed access token", "error", err)
		s.failClosed(ctx, startAccess, "could not persist refreshed token")
		return false
	}

	s.mu.Lock()
	if s.session.AccessToken == startAccess {
		s.session = sessionFromToken(newAccess, refresh, newTok.Claims)
	}
	s.mu.Unlock()

	s.logger.Debug("access token refreshed", "expires_at", newTok.Claims.ExpiresAtTime())
	return true
}

// failClosed ends the session: persisted keys and in-memory state are
// cleared, and the caller's check loop stops. Requiring a fresh login beats
// limping along with a token we cannot renew.
//
// The teardown only applies while the session still holds staleAccess. A
// login that landed while the failing exchange was in flight owns the keys
// and the checker slot now; tearing those down would log out the fresh
// session and orphan its checker.
func (s *AuthService) failClosed(ctx context.Context, staleAccess, reason string) {
	s.mu.Lock()
	if s.session.AccessToken != staleAccess {
		s.mu.Unlock()
		s.logger.Debug("session replaced mid-check, skipping teardown", "reason", reason)
		return
	}
	s.session = domain.AuthSession{}
	s.stop = nil // the calling loop exits on its own
	s.mu.Unlock()

	s.logger.Info("auth session ended", "reason", reason)

	if err := s.store.DeleteAll(ctx, store.KeyAuthTokens, store.KeyAuthTokensRefresh); err != nil {
		s.logger.Error("failed to clear persisted auth state", "error", err)
	}
}

func sessionFromToken(access, refresh string, claims jwtx.Claims) domain.AuthSession {
	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}

	return domain.AuthSession{
		IsAuthenticated: true,
		UserID:          userID,
		Email:           claims.Email,
		AccessToken:     access,
		RefreshToken:    refresh,
		ExpiresAt:       claims.ExpiresAtTime(),
	}
}
