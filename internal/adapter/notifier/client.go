package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"
)

// Client exposes the downstream calls fired after order mutations. All
// of them are best-effort: callers log failures and move on.
type Client interface {
	AdjustStock(ctx context.Context, token string, bookID, sellerID, delta int64) error
	IncrementSellerOrders(ctx context.Context, token string, sellerID int64) error
	SendOrderEmail(ctx context.Context, token string, userID, orderID int64) error
}

// HTTPClient implements Client against the inventory, seller and email
// services.
type HTTPClient struct {
	inventoryURL *url.URL
	sellerURL    *url.URL
	emailURL     *url.URL
	httpClient   *http.Client
	logger       *slog.Logger
}

type stockRequest struct {
	BookID   int64 `json:"bookId"`
	SellerID int64 `json:"sellerId"`
	Delta    int64 `json:"delta"`
}

type emailRequest struct {
	UserID   int64  `json:"userId"`
	OrderID  int64  `json:"orderId"`
	Template string `json:"template"`
}

// NewHTTPClient creates the notifier client with the given per-call timeout.
func NewHTTPClient(inventoryAddr, sellerAddr, emailAddr string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	inventoryURL, err := parseBaseURL("inventory", inventoryAddr)
	if err != nil {
		return nil, err
	}
	sellerURL, err := parseBaseURL("seller", sellerAddr)
	if err != nil {
		return nil, err
	}
	emailURL, err := parseBaseURL("email", emailAddr)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPClient{
		inventoryURL: inventoryURL,
		sellerURL:    sellerURL,
		emailURL:     emailURL,
		logger:       logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func parseBaseURL(name, addr string) (*url.URL, error) {
	parsed, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("parse %s url: %w", name, err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("%s url must be absolute", name)
	}
	return parsed, nil
}

// AdjustStock changes inventory for one book: negative delta decrements
// after a sale, positive delta restores after a cancellation.
func (c *HTTPClient) AdjustStock(ctx context.Context, token string, bookID, sellerID, delta int64) error {
	endpoint := join(c.inventoryURL, "/stock")
	return c.post(ctx, token, endpoint, stockRequest{BookID: bookID, SellerID: sellerID, Delta: delta})
}

// IncrementSellerOrders bumps the delivered-order counter of a seller.
func (c *HTTPClient) IncrementSellerOrders(ctx context.Context, token string, sellerID int64) error {
	endpoint := join(c.sellerURL, "/sellers/"+strconv.FormatInt(sellerID, 10)+"/orders/increment")
	return c.post(ctx, token, endpoint, nil)
}

// SendOrderEmail asks the email service to confirm the order to the buyer.
func (c *HTTPClient) SendOrderEmail(ctx context.Context, token string, userID, orderID int64) error {
	endpoint := join(c.emailURL, "/email")
	return c.post(ctx, token, endpoint, emailRequest{UserID: userID, OrderID: orderID, Template: "order-confirmation"})
}

func join(base *url.URL, suffix string) string {
	endpoint := *base
	endpoint.Path = path.Join(endpoint.Path, suffix)
	return endpoint.String()
}

func (c *HTTPClient) post(ctx context.Context, token, endpoint string, payload any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(resp.Body)
		c.logger.Warn("downstream call failed",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(detail)),
		)
		return fmt.Errorf("downstream error: %s", resp.Status)
	}
	return nil
}
