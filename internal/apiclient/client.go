// Package apiclient talks to the remote coupon/order REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Lixing-Zhang/coupon-portal/internal/models"
)

// Client is a thin JSON client for the API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a client for baseURL. A zero timeout leaves calls bounded
// only by their context.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Login exchanges credentials for a token. A rejected login comes back as
// an *APIError carrying the server's errorMessage.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UserCoupons fetches one page of the user's coupons.
func (c *Client) UserCoupons(ctx context.Context, token, userID string, page, size int) (*models.UserCouponsPage, error) {
	path := "/coupons/user/" + url.PathEscape(userID) + pageQuery(page, size)

	var resp models.UserCouponsPage
	if err := c.do(ctx, http.MethodGet, path, token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ProcessOrder submits an order. Any 2xx response is a processed order.
func (c *Client) ProcessOrder(ctx context.Context, token string, req models.OrderRequest) (*models.OrderResult, error) {
	var resp models.OrderResult
	if err := c.do(ctx, http.MethodPost, "/orders/process", token, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListCoupons(ctx context.Context, token string, page, size int) (*models.ListCouponsResponse, error) {
	var resp models.ListCouponsResponse
	if err := c.do(ctx, http.MethodGet, "/coupons"+pageQuery(page, size), token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateCoupon(ctx context.Context, token string, id int64, req models.UpdateCouponRequest) error {
	return c.do(ctx, http.MethodPut, "/coupons/"+strconv.FormatInt(id, 10), token, req, nil)
}

func (c *Client) ListRules(ctx context.Context, token string, page, size int) (*models.ListRulesResponse, error) {
	var resp models.ListRulesResponse
	if err := c.do(ctx, http.MethodGet, "/rules"+pageQuery(page, size), token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateRule(ctx context.Context, token string, id int64, req models.ModifyRuleRequest) error {
	return c.do(ctx, http.MethodPut, "/rules/"+strconv.FormatInt(id, 10), token, req, nil)
}

// ListCollections accepts the wrapped {success,data:{...}} shape, the bare
// object and a plain array.
func (c *Client) ListCollections(ctx context.Context, token string, page, size int) (*models.ListCollectionsResponse, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/rules/collections"+pageQuery(page, size), token, nil, &raw); err != nil {
		return nil, err
	}

	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		var items []models.Collection
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		return &models.ListCollectionsResponse{Collections: items, TotalCount: int64(len(items))}, nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	body := raw
	if len(envelope.Data) > 0 && !bytes.Equal(envelope.Data, []byte("null")) {
		body = envelope.Data
	}

	var list struct {
		models.ListCollectionsResponse
		TotalElements *int64 `json:"totalElements"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	resp := list.ListCollectionsResponse
	if resp.TotalCount == 0 && list.TotalElements != nil {
		resp.TotalCount = *list.TotalElements
	}
	return &resp, nil
}

func (c *Client) UpdateCollection(ctx context.Context, token string, req models.ModifyCollectionRequest) error {
	return c.do(ctx, http.MethodPut, "/rules/collections", token, req, nil)
}

// do sends one request. Non-2xx statuses become *APIError; network failures
// wrap ErrTransport. A nil out discards the response body.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("api request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading body: %w", ErrTransport, err)
	}

	c.logger.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

func pageQuery(page, size int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return "?" + q.Encode()
}
