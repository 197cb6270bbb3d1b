// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
)

// Portal resource endpoints. All of these are simple CRUD against the REST
// backend; authorization is enforced server-side, the client only renders.
const (
	policiesPath     = "/api/policies"
	claimsPath       = "/api/claims"
	statisticsPath   = "/api/statistics"
	accountingPath   = "/api/accounting"
	appointmentsPath = "/api/appointments"
	contactPath      = "/api/contact"
)

// Policies fetches the caller's insurance policies.
func (c *Client) Policies(ctx context.Context) ([]Policy, error) {
	var out []Policy
	if err := c.get(ctx, policiesPath, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Claims fetches the caller's claims.
func (c *Client) Claims(ctx context.Context) ([]Claim, error) {
	var out []Claim
	if err := c.get(ctx, claimsPath, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitClaim files a new claim. Not retried: filing twice is worse than
// failing once.
func (c *Client) SubmitClaim(ctx context.Context, claim ClaimRequest) (*Claim, error) {
	var out Claim
	if err := c.do(ctx, http.MethodPost, claimsPath, claim, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Statistics fetches the aggregate portal statistics. Admin only; a
// non-admin caller gets the server's 403 as an *APIError.
func (c *Client) Statistics(ctx context.Context) (*Statistics, error) {
	var out Statistics
	if err := c.get(ctx, statisticsPath, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Accounting fetches the invoice rows. Admin only.
func (c *Client) Accounting(ctx context.Context) ([]Invoice, error) {
	var out []Invoice
	if err := c.get(ctx, accountingPath, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Appointments fetches the agenda entries.
func (c *Client) Appointments(ctx context.Context) ([]Appointment, error) {
	var out []Appointment
	if err := c.get(ctx, appointmentsPath, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendContactMessage submits the contact form. Not retried.
func (c *Client) SendContactMessage(ctx context.Context, msg ContactMessage) error {
	return c.do(ctx, http.MethodPost, contactPath, msg, nil)
}
