// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Arenvest Labs

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/arenvest/crm/internal/logger"
	"github.com/arenvest/crm/models"
)

// TokenSource supplies the current bearer token for remote store calls. The
// auth provider client is the usual implementation; tests plug in a literal.
type TokenSource func() string

// RemoteConfig configures the HTTP client for the hosted document database.
type RemoteConfig struct {
	BaseURL string

	// WriteTimeout races every create/update/delete against a fixed
	// deadline. Expiry classifies the failure as [ErrWriteTimeout]; the
	// in-flight write itself is not cancelled.
	WriteTimeout time.Duration
}

type remoteRecordRepository struct {
	client       *resty.Client
	writeTimeout time.Duration
	tokens       TokenSource
	logger       *logger.Logger
}

// NewRemoteRecordRepository returns the REST implementation of
// [RemoteRecordRepository] over the hosted document database.
func NewRemoteRecordRepository(cfg RemoteConfig, tokens TokenSource, log *logger.Logger) RemoteRecordRepository {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8090"
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))

	return &remoteRecordRepository{
		client:       cli,
		writeTimeout: cfg.WriteTimeout,
		tokens:       tokens,
		logger:       log,
	}
}

type listResponse struct {
	Records []models.Record `json:"records"`
}

type batchCreateRequest struct {
	Records []models.Record `json:"records"`
}

func (r *remoteRecordRepository) List(ctx context.Context, collection string) ([]models.Record, error) {
	resp, err := r.request(ctx).Get(r.collectionPath(collection))
	if err != nil {
		return nil, fmt.Errorf("list collection %q: %w", collection, err)
	}
	if err = mapRemoteError(resp); err != nil {
		return nil, err
	}

	var out listResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode list response for %q: %w", collection, err)
	}
	if out.Records == nil {
		out.Records = []models.Record{}
	}
	return out.Records, nil
}

func (r *remoteRecordRepository) Get(ctx context.Context, collection, id string) (models.Record, error) {
	resp, err := r.request(ctx).Get(r.recordPath(collection, id))
	if err != nil {
		return nil, fmt.Errorf("get record %s from %q: %w", id, collection, err)
	}
	if err = mapRemoteError(resp); err != nil {
		return nil, err
	}

	return decodeRecord(resp.Body())
}

func (r *remoteRecordRepository) Create(ctx context.Context, collection string, rec models.Record) (models.Record, error) {
	writeCtx, cancel := context.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	resp, err := r.request(writeCtx).
		SetBody(rec).
		Post(r.collectionPath(collection))
	if err != nil {
		return nil, r.classifyWriteError(writeCtx, fmt.Errorf("create record in %q: %w", collection, err))
	}
	if err = mapRemoteError(resp); err != nil {
		return nil, err
	}

	return decodeRecord(resp.Body())
}

func (r *remoteRecordRepository) Update(ctx context.Context, collection, id string, partial models.Record) (models.Record, error) {
	writeCtx, cancel := context.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	resp, err := r.request(writeCtx).
		SetBody(partial).
		Patch(r.recordPath(collection, id))
	if err != nil {
		return nil, r.classifyWriteError(writeCtx, fmt.Errorf("update record %s in %q: %w", id, collection, err))
	}
	if err = mapRemoteError(resp); err != nil {
		return nil, err
	}

	return decodeRecord(resp.Body())
}

func (r *remoteRecordRepository) Delete(ctx context.Context, collection, id string) error {
	writeCtx, cancel := context.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	resp, err := r.request(writeCtx).Delete(r.recordPath(collection, id))
	if err != nil {
		return r.classifyWriteError(writeCtx, fmt.Errorf("delete record %s from %q: %w", id, collection, err))
	}
	return mapRemoteError(resp)
}

func (r *remoteRecordRepository) Query(ctx context.Context, collection, field string, value any) ([]models.Record, error) {
	resp, err := r.request(ctx).
		SetQueryParam("field", field).
		SetQueryParam("value", fmt.Sprint(value)).
		Get(r.collectionPath(collection))
	if err != nil {
		return nil, fmt.Errorf("query collection %q by %s: %w", collection, field, err)
	}
	if err = mapRemoteError(resp); err != nil {
		return nil, err
	}

	var out listResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode query response for %q: %w", collection, err)
	}
	if out.Records == nil {
		out.Records = []models.Record{}
	}
	return out.Records, nil
}

func (r *remoteRecordRepository) BatchCreate(ctx context.Context, collection string, records []models.Record) error {
	writeCtx, cancel := context.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	resp, err := r.request(writeCtx).
		SetBody(batchCreateRequest{Records: records}).
		Post(r.collectionPath(collection) + ":batchCreate")
	if err != nil {
		return r.classifyWriteError(writeCtx, fmt.Errorf("batch create in %q: %w", collection, err))
	}
	return mapRemoteError(resp)
}

func (r *remoteRecordRepository) request(ctx context.Context) *resty.Request {
	req := r.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json")
	if token := r.tokens(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}

func (r *remoteRecordRepository) collectionPath(collection string) string {
	return fmt.Sprintf("/v1/collections/%s/records", collection)
}

func (r *remoteRecordRepository) recordPath(collection, id string) string {
	return fmt.Sprintf("/v1/collections/%s/records/%s", collection, id)
}

func (r *remoteRecordRepository) classifyWriteError(writeCtx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(writeCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrWriteTimeout, err)
	}
	return err
}

func decodeRecord(body []byte) (models.Record, error) {
	var rec models.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("decode record response: %w", err)
	}
	return rec, nil
}

func mapRemoteError(resp *resty.Response) error {
	switch {
	case resp.StatusCode() < http.StatusBadRequest:
		return nil
	case resp.StatusCode() == http.StatusNotFound:
		return ErrRecordNotFound
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden:
		return ErrPermissionDenied
	default:
		return fmt.Errorf("remote store responded %d: %s", resp.StatusCode(), strings.TrimSpace(string(resp.Body())))
	}
}
