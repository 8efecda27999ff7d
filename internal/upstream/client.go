package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/coozgan/acad-sub-staff-loaner-form/config"
	"github.com/coozgan/acad-sub-staff-loaner-form/internal/model"
)

// transaction is the write-endpoint payload. Field casing is dictated by
// the upstream backend. A return is signaled by sending empty identity
// fields alongside the asset ID, which the backend interprets as "clear
// ownership"; this convention must be preserved exactly.
type transaction struct {
	AssetID    string `json:"AssetID"`
	DeviceType string `json:"DeviceType"`
	Email      string `json:"Email"`
	Name       string `json:"Name"`
	Reason     string `json:"Reason"`
}

// Client talks to the external device-tracking backend. It performs no
// retries on its own; callers decide whether and when to retry.
type Client struct {
	readURL  string
	writeURL string
	headers  map[string]string
	client   *http.Client
}

// NewClient creates a client for the configured upstream endpoints.
func NewClient(cfg *config.UpstreamConfig) *Client {
	writeURL := cfg.WriteURL
	if writeURL == "" {
		writeURL = cfg.ReadURL
	}
	return &Client{
		readURL:  cfg.ReadURL,
		writeURL: writeURL,
		headers:  cfg.Headers,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// FetchDevices retrieves the full device directory from the read endpoint.
func (c *Client) FetchDevices(ctx context.Context) ([]model.Device, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.readURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: c.readURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: c.readURL, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Message: extractMessage(resp.StatusCode, body)}
	}

	var devices []model.Device
	if err := json.Unmarshal(body, &devices); err != nil {
		return nil, fmt.Errorf("failed to unmarshal device list: %w", err)
	}

	return devices, nil
}

// Borrow records a single checkout transaction for one device.
func (c *Client) Borrow(ctx context.Context, device model.Device, name, email string) error {
	return c.postTransaction(ctx, transaction{
		AssetID:    device.AssetID,
		DeviceType: device.DeviceType,
		Email:      email,
		Name:       name,
		Reason:     "",
	})
}

// Return records a single return transaction. Identity fields are sent
// empty on purpose; see the transaction type.
func (c *Client) Return(ctx context.Context, assetID string) error {
	return c.postTransaction(ctx, transaction{AssetID: assetID})
}

func (c *Client) postTransaction(ctx context.Context, tx transaction) error {
	jsonBody, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.writeURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &NetworkError{URL: c.writeURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &HTTPError{StatusCode: resp.StatusCode, Message: extractMessage(resp.StatusCode, body)}
	}

	// Drain so the connection can be reused.
	io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
}

// extractMessage pulls a human-readable error out of an upstream error
// response: a JSON body's "message" or "error" field if present, the raw
// body text otherwise, and a generic status-coded string as a last resort.
func extractMessage(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return fmt.Sprintf("request failed with status %d", status)
}
