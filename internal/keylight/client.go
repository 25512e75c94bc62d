package keylight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// LightsPath is the device API endpoint for light state
	LightsPath = "elgato/lights"

	// DefaultTimeout is the default HTTP request timeout. The device is on
	// the local network, so responses are fast or not coming at all.
	DefaultTimeout = 5 * time.Second
)

// Client represents an HTTP client for communicating with a Key Light device
type Client struct {
	// BaseURL is the base URL for the device, typically a discovered
	// Device.URL (e.g., "http://192.168.0.92:9123/")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client
}

// NewClient creates a client for the device at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// lightsURL joins the base URL with the lights endpoint path
func (c *Client) lightsURL() string {
	return strings.TrimSuffix(c.BaseURL, "/") + "/" + LightsPath
}

// Status retrieves the current light state from the device.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.lightsURL(), nil)
	if err != nil {
		return nil, NewNetworkError("failed to create GET request", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, NewNetworkError("GET request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, NewHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewNetworkError("failed to read response body", err)
	}

	var status Status
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, NewParseError("failed to parse JSON response", err)
	}

	return &status, nil
}

// SetStatus sends the full light state document to the device.
func (c *Client) SetStatus(ctx context.Context, status *Status) error {
	body, err := json.Marshal(status)
	if err != nil {
		return NewParseError("failed to encode status", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.lightsURL(), bytes.NewReader(body))
	if err != nil {
		return NewNetworkError("failed to create PUT request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return NewNetworkError("PUT request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		respBody, _ := io.ReadAll(resp.Body)
		return NewHTTPError(resp.StatusCode, fmt.Sprintf("update failed with status %d: %s", resp.StatusCode, string(respBody)))
	}

	return nil
}

// SetPower turns every light on the device on or off.
func (c *Client) SetPower(ctx context.Context, state PowerState) error {
	status, err := c.Status(ctx)
	if err != nil {
		return err
	}
	status.SetPowerAll(state)
	return c.SetStatus(ctx, status)
}

// Toggle flips the power state of the first light and returns the new state.
func (c *Client) Toggle(ctx context.Context) (PowerState, error) {
	status, err := c.Status(ctx)
	if err != nil {
		return PowerOff, err
	}
	if err := status.TogglePower(0); err != nil {
		return PowerOff, err
	}
	if err := c.SetStatus(ctx, status); err != nil {
		return PowerOff, err
	}
	return status.Lights[0].On, nil
}

// SetBrightness sets the first light's brightness.
func (c *Client) SetBrightness(ctx context.Context, brightness Brightness) error {
	status, err := c.Status(ctx)
	if err != nil {
		return err
	}
	light, err := status.First()
	if err != nil {
		return err
	}
	light.Brightness = brightness
	return c.SetStatus(ctx, status)
}

// SetTemperature sets the first light's color temperature.
func (c *Client) SetTemperature(ctx context.Context, temperature Temperature) error {
	status, err := c.Status(ctx)
	if err != nil {
		return err
	}
	light, err := status.First()
	if err != nil {
		return err
	}
	light.Temperature = temperature
	return c.SetStatus(ctx, status)
}

// AdjustBrightness shifts the first light's brightness by delta, saturating
// at the range bounds, and returns the new value.
func (c *Client) AdjustBrightness(ctx context.Context, delta int) (Brightness, error) {
	status, err := c.Status(ctx)
	if err != nil {
		return 0, err
	}
	light, err := status.First()
	if err != nil {
		return 0, err
	}
	light.Brightness = light.Brightness.Add(delta)
	if err := c.SetStatus(ctx, status); err != nil {
		return 0, err
	}
	return light.Brightness, nil
}

// AdjustTemperature shifts the first light's color temperature by delta,
// saturating at the range bounds, and returns the new value.
func (c *Client) AdjustTemperature(ctx context.Context, delta int) (Temperature, error) {
	status, err := c.Status(ctx)
	if err != nil {
		return 0, err
	}
	light, err := status.First()
	if err != nil {
		return 0, err
	}
	light.Temperature = light.Temperature.Add(delta)
	if err := c.SetStatus(ctx, status); err != nil {
		return 0, err
	}
	return light.Temperature, nil
}
