package auth

import (
	"context"

	"github.com/arenvest/crm/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/auth_mock.go -package=mock

// Provider is the client-side surface of the hosted authentication
// collaborator: the current principal (nullable), a way to force-refresh the
// claims token, the raw ID token for authorizing store calls, and a
// subscription to principal state transitions.
type Provider interface {
	// SignIn exchanges credentials for a session and publishes a signed-in
	// event to subscribers.
	SignIn(ctx context.Context, email, password string) (*models.Principal, error)

	// SignOut drops the session and publishes a signed-out event.
	SignOut()

	// CurrentPrincipal returns the signed-in account, or nil when no one is
	// signed in.
	CurrentPrincipal() *models.Principal

	// IDToken returns the current raw ID token, or the empty string when no
	// session exists.
	IDToken() string

	// RefreshClaims forces a fresh claims token from the provider and
	// returns its parsed subscription flags.
	RefreshClaims(ctx context.Context) (models.Claims, error)

	// Subscribe registers for auth state transitions. The returned stop
	// function releases the subscription.
	Subscribe() (<-chan models.AuthEvent, func())
}
