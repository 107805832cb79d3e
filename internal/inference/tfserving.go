package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/leafcheck/internal/config"
)

// ErrModelUnavailable is returned when the model server has no available version of the model.
var ErrModelUnavailable = errors.New("model unavailable")

var _ Predictor = (*TFServingClient)(nil)

// TFServingClient calls the TensorFlow Serving REST API.
type TFServingClient struct {
	baseURL    string
	model      string
	httpClient *http.Client

	mu    sync.Mutex
	ready bool
}

// NewTFServingClient creates a new model server client.
func NewTFServingClient(cfg *config.ModelConfig) *TFServingClient {
	return &TFServingClient{
		baseURL:    cfg.URL,
		model:      cfg.Name,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type modelStatusResponse struct {
	ModelVersionStatus []struct {
		Version string `json:"version"`
		State   string `json:"state"`
	} `json:"model_version_status"`
}

type predictRequest struct {
	Instances []Tensor `json:"instances"`
}

type predictResponse struct {
	Predictions [][]float32 `json:"predictions"`
	Error       string      `json:"error"`
}

// doRequest performs an HTTP request to the model server.
func (c *TFServingClient) doRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error performing request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close() //nolint:errcheck
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("model server request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	return resp, nil
}

// Ready checks once that the model is served. A successful check is remembered for the
// lifetime of the client, a failed one is retried on the next call.
func (c *TFServingClient) Ready(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ready {
		return nil
	}

	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/models/"+c.model, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	var status modelStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return fmt.Errorf("error decoding model status: %w", err)
	}

	for _, v := range status.ModelVersionStatus {
		if v.State == "AVAILABLE" {
			log.Info("Model is available", "model", c.model, "version", v.Version)
			c.ready = true
			return nil
		}
	}
	return fmt.Errorf("%w: no available version of %s", ErrModelUnavailable, c.model)
}

// Predict returns the class scores for one image.
func (c *TFServingClient) Predict(ctx context.Context, t Tensor) ([]float32, error) {
	if err := c.Ready(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(predictRequest{Instances: []Tensor{t}})
	if err != nil {
		return nil, fmt.Errorf("error encoding predict request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/models/"+c.model+":predict", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("error decoding predict response: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("model server error: %s", out.Error)
	}
	if len(out.Predictions) != 1 {
		return nil, fmt.Errorf("%w: expected 1 prediction, got %d", ErrUnexpectedOutput, len(out.Predictions))
	}
	return out.Predictions[0], nil
}
