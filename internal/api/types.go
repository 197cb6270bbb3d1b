// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"github.com/jeranaias/riskportal-tui/internal/rbac"
)

// =============================================================================
// IDENTITY TYPES
// =============================================================================

// User is the portal identity as verified by the server. It is only ever
// derived from a server response, never constructed from local state.
type User struct {
	ID    int       `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  rbac.Role `json:"role"`
}

// WellFormed reports whether the user record carries the fields the session
// layer requires. A 2xx verify response with a hollow user is still a
// verification failure.
func (u *User) WellFormed() bool {
	return u != nil && u.ID != 0 && u.Email != "" && u.Role.Valid()
}

// verifyResponse is the identity-check endpoint payload.
type verifyResponse struct {
	User *User `json:"user"`
}

// loginRequest is the login endpoint request payload.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse is the login endpoint success payload.
type loginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// LoginResult is the outcome of a login attempt.
//
// Expected rejections (bad credentials) are not errors: OK is false and
// Message carries the portal's human-readable reason for inline display.
type LoginResult struct {
	OK      bool
	Token   string
	User    *User
	Message string
}

// =============================================================================
// PORTAL RESOURCE TYPES
// =============================================================================

// Policy is an insurance policy row.
type Policy struct {
	ID       int     `json:"id"`
	UserID   int     `json:"user_id"`
	Coverage string  `json:"dekking"`
	Premium  float64 `json:"premie"`
	Expiry   string  `json:"vervaldatum"`
}

// Claim is an insurance claim row.
type Claim struct {
	ID          int    `json:"id"`
	PolicyID    int    `json:"policy_id"`
	Status      string `json:"status"`
	DocumentURL string `json:"document_url"`
}

// ClaimRequest is the payload for filing a new claim.
type ClaimRequest struct {
	PolicyID    int    `json:"policy_id"`
	Description string `json:"description"`
}

// Appointment is an agenda entry.
type Appointment struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Location string `json:"location"`
}

// Invoice is an accounting row (admin only).
type Invoice struct {
	ID     int     `json:"id"`
	Number string  `json:"invoice"`
	Amount float64 `json:"amount"`
	Status string  `json:"status"`
	Date   string  `json:"date"`
}

// Series is a labelled data series for the statistics view.
type Series struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

// Statistics is the aggregate statistics payload (admin only).
type Statistics struct {
	MonthlyPremiums Series `json:"monthly_premiums"`
	ClaimsByType    Series `json:"claims_by_type"`
	CustomerGrowth  Series `json:"customer_growth"`
	Summary         struct {
		ActivePolicies int     `json:"active_policies"`
		OpenClaims     int     `json:"open_claims"`
		TotalCustomers int     `json:"total_customers"`
		TotalPremium   float64 `json:"total_premium"`
	} `json:"summary"`
}

// ContactMessage is the payload for the contact form.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
