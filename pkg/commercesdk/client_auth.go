package commercesdk

import (
	"context"
	"net/http"
)

// Login exchanges credentials for an access/refresh token pair.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	payload := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	resp, err := c.doJSON(ctx, http.MethodPost, "/user/login/", "", nil, payload)
	if err != nil {
		return nil, err
	}

	var pair TokenPair
	if err := decodeJSON(resp, &pair, http.StatusOK); err != nil {
		return nil, err
	}

	return &pair, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	resp, err := c.doJSON(ctx, http.MethodPost, "/user/register/", "", nil, req)
	if err != nil {
		return err
	}

	return checkStatus(resp, http.StatusCreated)
}

// Refresh exchanges a refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (string, error) {
	payload := struct {
		Refresh string `json:"refresh"`
	}{Refresh: refreshToken}

	resp, err := c.doJSON(ctx, http.MethodPost, "/api/token/refresh/", "", nil, payload)
	if err != nil {
		return "", err
	}

	var refreshed struct {
		Access string `json:"access"`
	}
	if err := decodeJSON(resp, &refreshed, http.StatusOK); err != nil {
		return "", err
	}

	return refreshed.Access, nil
}
