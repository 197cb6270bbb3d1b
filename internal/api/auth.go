// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Portal authentication endpoints.
const (
	verifyPath = "/api/auth/verify"
	loginPath  = "/api/auth/login"
)

// Verify checks the stored token against the portal identity endpoint and
// returns the verified user.
//
// Failure mapping follows the session contract:
//   - no stored token            -> ErrNoCredential (no network call)
//   - any non-2xx response       -> ErrVerificationRejected
//   - missing or hollow user     -> ErrVerificationRejected
//   - unreachable portal         -> ErrTransportFailure
//
// Verify never mutates the token store; cleanup on failure is the session
// manager's transition, not the transport's.
func (c *Client) Verify(ctx context.Context) (*User, error) {
	if _, ok := c.tokens.Get(); !ok {
		return nil, ErrNoCredential
	}

	var resp verifyResponse
	err := c.get(ctx, verifyPath, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("%w: %v", ErrVerificationRejected, apiErr)
		}
		if errors.Is(err, ErrTransportFailure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrTransportFailure, err)
	}

	if !resp.User.WellFormed() {
		return nil, fmt.Errorf("%w: malformed user payload", ErrVerificationRejected)
	}
	return resp.User, nil
}

// Login submits credentials to the portal login endpoint.
//
// Expected rejections (HTTP 4xx: bad credentials, missing fields) come back
// as a LoginResult with OK=false and the portal's message - not as an error.
// The error return is reserved for transport failures and malformed
// responses; in that case the result also carries a generic message so the
// login view always has something to display.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, loginPath, loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
			message := apiErr.Message
			if message == "" {
				message = "Ongeldige inloggegevens"
			}
			return LoginResult{OK: false, Message: message}, nil
		}
		return LoginResult{
			OK:      false,
			Message: "Er is een fout opgetreden bij het inloggen.",
		}, fmt.Errorf("login request failed: %w", err)
	}

	if resp.Token == "" || !resp.User.WellFormed() {
		return LoginResult{
			OK:      false,
			Message: "Er is een fout opgetreden bij het inloggen.",
		}, fmt.Errorf("%w: malformed login response", ErrTransportFailure)
	}

	return LoginResult{OK: true, Token: resp.Token, User: resp.User}, nil
}
