// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Arenvest Labs

// Package auth is the client of the hosted authentication provider. It keeps
// the current session, exposes forced claims refresh for tier resolution,
// and fans out principal state transitions to subscribers.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/arenvest/crm/internal/config"
	"github.com/arenvest/crm/internal/logger"
	"github.com/arenvest/crm/models"
)

var (
	// ErrNotSignedIn is returned by claims refresh when no session exists.
	ErrNotSignedIn = errors.New("no principal is signed in")

	// ErrAuthRejected is returned when the provider declines a credential
	// or refresh request.
	ErrAuthRejected = errors.New("auth provider rejected request")
)

// eventBuffer bounds each subscriber's channel; a slow subscriber drops
// events instead of blocking store operations.
const eventBuffer = 8

// HTTPProvider is the REST implementation of [Provider].
type HTTPProvider struct {
	client *resty.Client
	apiKey string
	logger *logger.Logger

	mu           sync.RWMutex
	principal    *models.Principal
	idToken      string
	refreshToken string

	subMu   sync.Mutex
	subs    map[int]chan models.AuthEvent
	nextSub int
}

// NewHTTPProvider returns a [Provider] speaking to the hosted auth service
// over its REST token endpoints.
func NewHTTPProvider(cfg config.Auth, log *logger.Logger) *HTTPProvider {
	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))

	return &HTTPProvider{
		client: cli,
		apiKey: cfg.APIKey,
		logger: log,
		subs:   make(map[int]chan models.AuthEvent),
	}
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
}

type refreshRequest struct {
	GrantType    string `json:"grant_type"`
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
}

// SignIn exchanges credentials for a session and publishes a signed-in
// event.
func (p *HTTPProvider) SignIn(ctx context.Context, email, password string) (*models.Principal, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("key", p.apiKey).
		SetBody(signInRequest{Email: email, Password: password, ReturnSecureToken: true}).
		Post("/v1/accounts:signInWithPassword")
	if err != nil {
		return nil, fmt.Errorf("sign in request: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: status %d", ErrAuthRejected, resp.StatusCode())
	}

	var body signInResponse
	if err = json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("decode sign in response: %w", err)
	}

	principal := &models.Principal{UID: body.LocalID, Email: body.Email}

	p.mu.Lock()
	p.principal = principal
	p.idToken = body.IDToken
	p.refreshToken = body.RefreshToken
	p.mu.Unlock()

	p.publish(models.AuthEvent{Kind: models.AuthSignedIn, Principal: principal})
	return principal, nil
}

// SignOut drops the session and publishes a signed-out event.
func (p *HTTPProvider) SignOut() {
	p.mu.Lock()
	p.principal = nil
	p.idToken = ""
	p.refreshToken = ""
	p.mu.Unlock()

	p.publish(models.AuthEvent{Kind: models.AuthSignedOut})
}

func (p *HTTPProvider) CurrentPrincipal() *models.Principal {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.principal
}

func (p *HTTPProvider) IDToken() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.idToken
}

// RefreshClaims forces a fresh ID token from the provider and returns the
// subscription flags parsed from it. The token's signature was already
// verified at the provider's edge; parsing here is claim extraction, not
// trust establishment.
func (p *HTTPProvider) RefreshClaims(ctx context.Context) (models.Claims, error) {
	p.mu.RLock()
	principal := p.principal
	refreshToken := p.refreshToken
	p.mu.RUnlock()

	if principal == nil || refreshToken == "" {
		return models.Claims{}, ErrNotSignedIn
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("key", p.apiKey).
		SetBody(refreshRequest{GrantType: "refresh_token", RefreshToken: refreshToken}).
		Post("/v1/token")
	if err != nil {
		return models.Claims{}, fmt.Errorf("claims refresh request: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return models.Claims{}, fmt.Errorf("%w: status %d", ErrAuthRejected, resp.StatusCode())
	}

	var body refreshResponse
	if err = json.Unmarshal(resp.Body(), &body); err != nil {
		return models.Claims{}, fmt.Errorf("decode claims refresh response: %w", err)
	}

	claims, err := ParseClaims(body.IDToken)
	if err != nil {
		return models.Claims{}, err
	}

	p.mu.Lock()
	p.idToken = body.IDToken
	if body.RefreshToken != "" {
		p.refreshToken = body.RefreshToken
	}
	p.mu.Unlock()

	// no event here: a forced claims fetch is claim extraction for the
	// caller, not a principal state transition. Tier resolution calls this
	// on every store operation, and subscribers react to events by
	// refreshing, which resolves tier again; publishing from here would
	// close that loop.
	return claims, nil
}

func (p *HTTPProvider) Subscribe() (<-chan models.AuthEvent, func()) {
	p.subMu.Lock()
	defer p.subMu.Unlock()

	id := p.nextSub
	p.nextSub++
	ch := make(chan models.AuthEvent, eventBuffer)
	p.subs[id] = ch

	stop := func() {
		p.subMu.Lock()
		defer p.subMu.Unlock()
		if sub, ok := p.subs[id]; ok {
			delete(p.subs, id)
			close(sub)
		}
	}
	return ch, stop
}

func (p *HTTPProvider) publish(event models.AuthEvent) {
	p.subMu.Lock()
	defer p.subMu.Unlock()

	for _, ch := range p.subs {
		select {
		case ch <- event:
		default:
			p.logger.Warn().
				Str("event", event.Kind.String()).
				Msg("auth event dropped for slow subscriber")
		}
	}
}

// ParseClaims extracts the recognized subscription flags from a raw ID
// token without re-verifying its signature.
func ParseClaims(idToken string) (models.Claims, error) {
	var claims models.Claims
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, &claims); err != nil {
		return models.Claims{}, fmt.Errorf("parse claims token: %w", err)
	}
	return claims, nil
}
