/*
Package commercesdk provides a client for the Turfa Bazar commerce backend.

# Overview

The backend is a REST API over HTTPS. Account operations (login, register,
token refresh) are unauthenticated; everything else takes a bearer access
token supplied by the caller. The SDK does not manage token lifetimes itself:
the storefront's auth scheduler owns refresh timing and hands the current
token to each call.

	client := commercesdk.New("https://api.turfabazar.example")

	pair, err := client.Login(ctx, email, password)

	orderID, err := client.CreateOrder(ctx, pair.AccessToken, userID, form, idempotencyKey)

	redirect, err := client.ConfirmOrder(ctx, pair.AccessToken, orderID, code)

# Errors

Responses the backend produced on purpose (rejected codes, bad credentials,
expired orders) surface as *APIError. Transport failures are plain wrapped
errors. Callers that need to distinguish the two use errors.As:

	var apiErr *commercesdk.APIError
	if errors.As(err, &apiErr) {
		// the backend rejected the request
	}

# Request pacing

Outbound calls share a token-bucket limiter so retry loops and timers cannot
flood the backend. Replace or nil the Limiter field to change the policy.
*/
package commercesdk
