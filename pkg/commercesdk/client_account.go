package commercesdk

import (
	"context"
	"net/http"
)

// Profile is the shopper's editable account profile.
type Profile struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Profile fetches the account profile of the authenticated shopper.
func (c *Client) Profile(ctx context.Context, token string) (*Profile, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, "/user/profile/", token, nil, nil)
	if err != nil {
		return nil, err
	}

	var profile Profile
	if err := decodeJSON(resp, &profile, http.StatusOK); err != nil {
		return nil, err
	}

	return &profile, nil
}

// UpdateProfile replaces the account profile.
func (c *Client) UpdateProfile(ctx context.Context, token string, profile Profile) error {
	resp, err := c.doJSON(ctx, http.MethodPut, "/user/profile/", token, nil, profile)
	if err != nil {
		return err
	}

	return checkStatus(resp, http.StatusOK)
}

// Password reset is a three-phase exchange against a single endpoint; the
// step field selects the phase.
type passwordResetStep struct {
	Email    string `json:"email"`
	Code     string `json:"code,omitempty"`
	Password string `json:"password,omitempty"`
	Step     int    `json:"step"`
}

func (c *Client) passwordReset(ctx context.Context, payload passwordResetStep) error {
	resp, err := c.doJSON(ctx, http.MethodPost, "/user/forgot_password/", "", nil, payload)
	if err != nil {
		return err
	}

	return checkStatus(resp, http.StatusOK)
}

// RequestPasswordReset asks the backend to email a reset code.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.passwordReset(ctx, passwordResetStep{Email: email, Step: 1})
}

// VerifyPasswordResetCode checks the emailed code before a new password is
// accepted.
func (c *Client) VerifyPasswordResetCode(ctx context.Context, email, code string) error {
	return c.passwordReset(ctx, passwordResetStep{Email: email, Code: code, Step: 2})
}

// CompletePasswordReset sets the new password for a verified reset.
func (c *Client) CompletePasswordReset(ctx context.Context, email, password string) error {
	return c.passwordReset(ctx, passwordResetStep{Email: email, Password: password, Step: 3})
}
