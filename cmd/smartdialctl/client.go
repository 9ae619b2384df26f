package main

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/feral-file/ff-smartdial/internal/adapter"
	"github.com/feral-file/ff-smartdial/internal/api/shared/dto"
)

// apiClient calls the smart-dial REST API
type apiClient struct {
	httpClient adapter.HTTPClient
	baseURL    string
	apiKey     string
}

func newClient(httpClient adapter.HTTPClient, baseURL, apiKey string) *apiClient {
	return &apiClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

func (c *apiClient) headers() map[string]string {
	if c.apiKey == "" {
		return nil
	}
	return map[string]string{"Authorization": "ApiKey " + c.apiKey}
}

// Lookup runs a smart-dial query
func (c *apiClient) Lookup(ctx context.Context, q string, limit int) (*dto.LookupResponse, error) {
	params := url.Values{}
	params.Set("q", q)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var resp dto.LookupResponse
	if err := c.httpClient.Get(ctx, c.baseURL+"/api/v1/lookup?"+params.Encode(), c.headers(), &resp); err != nil {
		return nil, fmt.Errorf("failed to lookup %q: %w", q, err)
	}
	return &resp, nil
}

// TriggerSync asks the service to start a sync pass
func (c *apiClient) TriggerSync(ctx context.Context) (*dto.TriggerSyncResponse, error) {
	var resp dto.TriggerSyncResponse
	if err := c.httpClient.Post(ctx, c.baseURL+"/api/v1/sync", c.headers(), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to trigger sync: %w", err)
	}
	return &resp, nil
}

// SyncStatus reports the sync state and the most recent passes
func (c *apiClient) SyncStatus(ctx context.Context, runsLimit int) (*dto.SyncStatusResponse, error) {
	params := url.Values{}
	if runsLimit > 0 {
		params.Set("runs.limit", strconv.Itoa(runsLimit))
	}

	endpoint := c.baseURL + "/api/v1/sync/status"
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var resp dto.SyncStatusResponse
	if err := c.httpClient.Get(ctx, endpoint, c.headers(), &resp); err != nil {
		return nil, fmt.Errorf("failed to get sync status: %w", err)
	}
	return &resp, nil
}
