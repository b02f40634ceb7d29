package service

import (
	"context"
	"log/slog"

	"github.com/murodbro/turfa-bazar-client/internal/storefront/domain"
	"github.com/murodbro/turfa-bazar-client/pkg/commercesdk"
)

// OrdersService is the read-mostly surface over the backend: order history,
// order detail and the cart. It holds no state of its own; every call uses
// the live auth session.
type OrdersService struct {
	sdk    *commercesdk.Client
	auth   *AuthService
	logger *slog.Logger
}

func NewOrdersService(sdk *commercesdk.Client, auth *AuthService, logger *slog.Logger) *OrdersService {
	return &OrdersService{sdk: sdk, auth: auth, logger: logger}
}

func (s *OrdersService) session() (domain.AuthSession, error) {
	sess := s.auth.Session()
	if !sess.IsAuthenticated {
		return domain.AuthSession{}, ErrNotAuthenticated
	}
	return sess, nil
}

// History lists the shopper's past orders.
func (s *OrdersService) History(ctx context.Context) ([]commercesdk.Order, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	return s.sdk.OrderHistory(ctx, sess.AccessToken)
}

// Detail fetches one order with its per-item confirmation flags.
func (s *OrdersService) Detail(ctx context.Context, orderID string) (*commercesdk.Order, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	return s.sdk.OrderDetail(ctx, sess.AccessToken, orderID)
}

// Cart returns the shopper's cart lines.
func (s *OrdersService) Cart(ctx context.Context) ([]commercesdk.CartItem, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	return s.sdk.Cart(ctx, sess.AccessToken, sess.UserID)
}

// SetCartQuantity changes the quantity of one cart line.
func (s *OrdersService) SetCartQuantity(ctx context.Context, itemID string, quantity int) error {
	sess, err := s.session()
	if err != nil {
		return err
	}
	return s.sdk.UpdateCartItem(ctx, sess.AccessToken, itemID, quantity)
}

// RemoveCartItem deletes one cart line.
func (s *OrdersService) RemoveCartItem(ctx context.Context, itemID string) error {
	sess, err := s.session()
	if err != nil {
		return err
	}
	return s.sdk.RemoveCartItem(ctx, sess.AccessToken, itemID)
}
