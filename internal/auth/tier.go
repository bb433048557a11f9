// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Arenvest Labs

package auth

import (
	"context"

	"github.com/arenvest/crm/internal/logger"
	"github.com/arenvest/crm/models"
)

// ResolveTier derives the caller's subscription tier for a single store
// operation. It is the only place tier is computed; the result is never
// cached, so a mid-session upgrade takes effect on the next call.
//
// Rules:
//   - no signed-in principal resolves to the free tier;
//   - a failed claims refresh resolves to the free tier (fail closed) and
//     is logged, never surfaced to the caller;
//   - otherwise the tier is paid iff one of the recognized flags on
//     [models.Claims] indicates an active subscription.
func ResolveTier(ctx context.Context, provider Provider, log *logger.Logger) models.Tier {
	if provider.CurrentPrincipal() == nil {
		return models.TierFree
	}

	claims, err := provider.RefreshClaims(ctx)
	if err != nil {
		log.Warn().Err(err).
			Str("func", "auth.ResolveTier").
			Msg("claims refresh failed, treating session as free tier")
		return models.TierFree
	}

	if isPaid(claims) {
		return models.TierPaid
	}
	return models.TierFree
}

func isPaid(claims models.Claims) bool {
	if claims.PaidUser {
		return true
	}
	switch claims.StripeRole {
	case "pro", "premium":
		return true
	}
	return claims.SubscriptionStatus == "active"
}
