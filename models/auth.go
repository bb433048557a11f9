// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Arenvest Labs

package models

import "github.com/golang-jwt/jwt/v5"

// Principal is the currently signed-in account as reported by the hosted
// auth provider. A nil *Principal means no one is signed in.
type Principal struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// Claims is the fixed set of subscription flags recognized on the auth
// provider's claims token. This set is the sole input contract of tier
// resolution: a principal is on the paid tier iff PaidUser is true, or
// StripeRole is "pro" or "premium", or SubscriptionStatus is "active".
// Unknown flags on the token are ignored.
type Claims struct {
	PaidUser           bool   `json:"paidUser"`
	StripeRole         string `json:"stripeRole"`
	SubscriptionStatus string `json:"subscriptionStatus"`
	PlanExpiresAt      int64  `json:"planExpiresAt"`

	jwt.RegisteredClaims
}

// AuthEventKind enumerates principal state transitions published by the auth
// provider client.
type AuthEventKind int

const (
	AuthSignedIn AuthEventKind = iota
	AuthSignedOut

	// AuthTokenRefreshed is reserved for unsolicited background token
	// rotation. Forced claims fetches during tier resolution do not emit
	// it; subscribers refresh on events, so publishing there would feed
	// the refresh back into itself.
	AuthTokenRefreshed
)

func (k AuthEventKind) String() string {
	switch k {
	case AuthSignedIn:
		return "signed_in"
	case AuthSignedOut:
		return "signed_out"
	case AuthTokenRefreshed:
		return "token_refreshed"
	default:
		return "unknown"
	}
}

// AuthEvent is delivered to subscribers on every auth state transition.
// Principal is nil for sign-out events.
type AuthEvent struct {
	Kind      AuthEventKind
	Principal *Principal
}
