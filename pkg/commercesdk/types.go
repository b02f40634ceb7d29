package commercesdk

import "time"

// ============================================================================
// Account types
// ============================================================================

// TokenPair is the response of POST /user/login/.
type TokenPair struct {
	// AccessToken is the JWT used to authenticate API requests.
	AccessToken string `json:"access_token"`

	// RefreshToken is the long-lived token exchanged for new access tokens.
	RefreshToken string `json:"refresh_token"`
}

// RegisterRequest is the body of POST /user/register/.
type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

// ============================================================================
// Checkout types
// ============================================================================

// CheckoutRequest is the checkout form payload posted to POST /checkout/{userId}/.
// The recive_by_deliver field name matches the backend's spelling.
type CheckoutRequest struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	City    string `json:"city"`
	State   string `json:"state"`
	Address string `json:"address"`

	// BuyCash selects payment on receipt (true) or online card payment (false).
	BuyCash bool `json:"buy_cash"`

	// ReceiveByDeliver selects courier delivery (true) or pickup-point
	// collection (false). Courier delivery requires Address.
	ReceiveByDeliver bool `json:"recive_by_deliver"`
}

// Order is the backend's view of an order, returned by order_detail and
// history.
type Order struct {
	ID               string      `json:"id"`
	User             string      `json:"user"`
	City             string      `json:"city"`
	State            string      `json:"state"`
	Address          string      `json:"address"`
	BuyCash          bool        `json:"buy_cash"`
	ReceiveByDeliver bool        `json:"recive_by_deliver"`
	Email            string      `json:"email"`
	CreatedAt        time.Time   `json:"created_at,omitempty"`
	OrderItems       []OrderItem `json:"order_items"`
}

// OrderItem is a single line of an order.
type OrderItem struct {
	ID        string  `json:"id"`
	Order     string  `json:"order"`
	Product   string  `json:"product"`
	Status    string  `json:"status"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	SubTotal  float64 `json:"sub_total"`
	Confirmed bool    `json:"confirmed"`
}

// FullyConfirmed reports whether every line item of the order has been
// confirmed by the backend. An order with no items counts as confirmed.
func (o Order) FullyConfirmed() bool {
	for _, item := range o.OrderItems {
		if !item.Confirmed {
			return false
		}
	}
	return true
}

// ============================================================================
// Cart types
// ============================================================================

// CartItem is a line of the user's cart.
type CartItem struct {
	ID        string  `json:"id"`
	Product   string  `json:"product"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	SubTotal  float64 `json:"sub_total"`
}
