package ml_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"smsguard/internal/models"
)

// Client is a client for the model service API. The model itself lives in a
// separate process; this client only speaks its HTTP surface.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClassifyRequest represents a single message classification request
type ClassifyRequest struct {
	Text string `json:"text"`
}

// ClassifyResponse represents the classification result
type ClassifyResponse struct {
	Text             string  `json:"text"`
	Label            string  `json:"label"`
	Confidence       float64 `json:"confidence,omitempty"`
	ProcessingTimeMs float64 `json:"processing_time_ms,omitempty"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	Message     string `json:"message"`
}

// NewClient creates a new model service client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Classify classifies a single message.
func (c *Client) Classify(ctx context.Context, text string) (models.Label, error) {
	reqBody := ClassifyRequest{
		Text: text,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/v1/classify", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("model service returned status %d: %s", resp.StatusCode, string(body))
	}

	var result ClassifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	label := models.Label(result.Label)
	if !label.Valid() {
		return "", fmt.Errorf("model service returned unknown label %q", result.Label)
	}

	return label, nil
}

// Ready reports whether the model service has its model loaded.
func (c *Client) Ready(ctx context.Context) bool {
	health, err := c.healthCheck(ctx)
	if err != nil {
		return false
	}
	return health.ModelLoaded
}

func (c *Client) healthCheck(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/v1/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("model service returned status %d: %s", resp.StatusCode, string(body))
	}

	var result HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}
