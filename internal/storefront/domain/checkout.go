package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/murodbro/turfa-bazar-client/pkg/commercesdk"
)

// CheckoutState is the phase of the order confirmation handshake.
type CheckoutState int

const (
	// StateIdle means no checkout is underway.
	StateIdle CheckoutState = iota

	// StateAwaitingSubmission means a valid form was accepted and order
	// creation is in flight. Further submissions are rejected until the
	// creation settles; a creation failure falls back to Idle so the form
	// stays resubmittable.
	StateAwaitingSubmission

	// StateAwaitingCode means the order exists and the confirmation window
	// is open.
	StateAwaitingCode

	// StateConfirmed, StateCancelled and StateTimedOut are terminal. They
	// are never persisted; session keys are cleared on entry.
	StateConfirmed
	StateCancelled
	StateTimedOut
)

func (s CheckoutState) String() string {
	switch s {
	case StateAwaitingSubmission:
		return "awaiting_submission"
	case StateAwaitingCode:
		return "awaiting_code"
	case StateConfirmed:
		return "confirmed"
	case StateCancelled:
		return "cancelled"
	case StateTimedOut:
		return "timed_out"
	default:
		return "idle"
	}
}

// Terminal reports whether the state can never transition again.
func (s CheckoutState) Terminal() bool {
	return s == StateConfirmed || s == StateCancelled || s == StateTimedOut
}

// CheckoutForm carries the checkout fields the shopper filled in. The two
// choice fields are pointers so "not chosen yet" is distinguishable from an
// explicit false.
type CheckoutForm struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	City    string `json:"city"`
	State   string `json:"state"`
	Address string `json:"address"`

	// BuyCash: pay on receipt (true) or online by card (false).
	BuyCash *bool `json:"buy_cash"`

	// ReceiveByDeliver: courier delivery (true) or pickup point (false).
	ReceiveByDeliver *bool `json:"recive_by_deliver"`
}

// Validate checks the form field by field. Address is required only for
// courier delivery; a pickup-point order has nowhere to deliver to.
func (f CheckoutForm) Validate() error {
	fields := map[string]string{}

	if strings.TrimSpace(f.Email) == "" {
		fields["email"] = "enter your email address"
	} else if !strings.Contains(f.Email, "@") {
		fields["email"] = "enter a valid email address"
	}
	if strings.TrimSpace(f.Phone) == "" {
		fields["phone"] = "enter your phone number"
	}
	if strings.TrimSpace(f.State) == "" {
		fields["state"] = "enter your region"
	}
	if strings.TrimSpace(f.City) == "" {
		fields["city"] = "enter your city or district"
	}
	if f.BuyCash == nil {
		fields["buy_cash"] = "choose a payment type"
	}
	if f.ReceiveByDeliver == nil {
		fields["recive_by_deliver"] = "choose a delivery method"
	} else if *f.ReceiveByDeliver && strings.TrimSpace(f.Address) == "" {
		fields["address"] = "enter your address for courier delivery"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Request converts a validated form into the backend payload.
func (f CheckoutForm) Request() commercesdk.CheckoutRequest {
	req := commercesdk.CheckoutRequest{
		Email:   f.Email,
		Phone:   f.Phone,
		City:    f.City,
		State:   f.State,
		Address: f.Address,
	}
	if f.BuyCash != nil {
		req.BuyCash = *f.BuyCash
	}
	if f.ReceiveByDeliver != nil {
		req.ReceiveByDeliver = *f.ReceiveByDeliver
	}
	return req
}

// ValidationError holds field-level validation failures. It blocks submission
// and is recoverable by user correction.
type ValidationError struct {
	Fields map[string]string
}

// Error implements the error interface with a stable field order.
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "invalid checkout form: " + strings.Join(parts, "; ")
}
