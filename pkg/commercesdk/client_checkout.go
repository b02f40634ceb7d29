package commercesdk

import (
	"context"
	"net/http"
)

// IdempotencyKeyHeader carries the client-generated key that lets the backend
// deduplicate retried order submissions.
const IdempotencyKeyHeader = "X-Idempotency-Key"

// CreateOrder creates an order from the user's cart and the checkout form.
// The backend sends a confirmation code to the form's email address and holds
// the order until it is confirmed or cancelled.
func (c *Client) CreateOrder(
	ctx context.Context,
	token, userID string,
	req CheckoutRequest,
	idempotencyKey string,
) (string, error) {
	var headers map[string]string
	if idempotencyKey != "" {
		headers = map[string]string{IdempotencyKeyHeader: idempotencyKey}
	}

	resp, err := c.doJSON(ctx, http.MethodPost, "/checkout/"+userID+"/", token, headers, req)
	if err != nil {
		return "", err
	}

	var created struct {
		OrderID string `json:"orderId"`
	}
	if err := decodeJSON(resp, &created, http.StatusCreated); err != nil {
		return "", err
	}

	return created.OrderID, nil
}

// ConfirmOrder submits the emailed confirmation code for the order. On
// success the backend returns a redirect target: an order-detail path for
// cash orders or an external payment URL for card orders.
func (c *Client) ConfirmOrder(ctx context.Context, token, orderID, code string) (string, error) {
	payload := struct {
		SMTPCode string `json:"smtp_code"`
		OrderID  string `json:"order_id"`
	}{SMTPCode: code, OrderID: orderID}

	resp, err := c.doJSON(ctx, http.MethodPost, "/checkout/confirm_smtp/", token, nil, payload)
	if err != nil {
		return "", err
	}

	var confirmed struct {
		Message string `json:"message"`
	}
	if err := decodeJSON(resp, &confirmed, http.StatusCreated); err != nil {
		return "", err
	}

	return confirmed.Message, nil
}

// OrderDetail fetches an order including the per-item confirmed flags.
func (c *Client) OrderDetail(ctx context.Context, token, orderID string) (*Order, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, "/checkout/order_detail/"+orderID+"/", token, nil, nil)
	if err != nil {
		return nil, err
	}

	var order Order
	if err := decodeJSON(resp, &order, http.StatusOK); err != nil {
		return nil, err
	}

	return &order, nil
}

// CancelOrder asks the backend to cancel an unconfirmed order. The backend
// reconciles abandoned orders on its own schedule, so this call is advisory.
func (c *Client) CancelOrder(ctx context.Context, token, orderID string) error {
	resp, err := c.doJSON(ctx, http.MethodGet, "/checkout/cancel_order/"+orderID+"/", token, nil, nil)
	if err != nil {
		return err
	}

	return checkStatus(resp, http.StatusOK)
}

// MarkDelivered flips the order's status to delivered.
func (c *Client) MarkDelivered(ctx context.Context, token, orderID string) error {
	resp, err := c.doJSON(ctx, http.MethodGet, "/checkout/change_order_status/"+orderID+"/", token, nil, nil)
	if err != nil {
		return err
	}

	return checkStatus(resp, http.StatusOK)
}

// OrderHistory lists the user's past orders.
func (c *Client) OrderHistory(ctx context.Context, token string) ([]Order, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, "/checkout/history/", token, nil, nil)
	if err != nil {
		return nil, err
	}

	var orders []Order
	if err := decodeJSON(resp, &orders, http.StatusOK); err != nil {
		return nil, err
	}

	return orders, nil
}
