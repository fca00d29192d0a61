package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

const defaultModelURL = "http://localhost:8000"

// Client talks to the model server that hosts the detection and embedding
// networks. It implements both Detector and Embedder.
type Client struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewClient creates a new model server client.
func NewClient(baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = defaultModelURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		client:  &http.Client{},
	}
}

// Model returns the model name being used.
func (c *Client) Model() string {
	return c.model
}

// healthResponse describes the model server's /health payload.
type healthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
	Dim    int    `json:"dim"`
}

// detection mirrors one entry of the model server's /detect response.
type detection struct {
	BBox     []float64 `json:"bbox"` // [x1, y1, x2, y2]
	DetScore float64   `json:"det_score"`
}

// detectResponse represents the response from the detection endpoint.
type detectResponse struct {
	FacesCount int         `json:"faces_count"`
	Faces      []detection `json:"faces"`
}

// embedRequest carries a standardized face crop to the embedding endpoint.
type embedRequest struct {
	Pixels []float32 `json:"pixels"`
	Model  string    `json:"model,omitempty"`
}

// embedResponse represents the response from the embedding endpoint.
type embedResponse struct {
	Dim       int       `json:"dim"`
	Embedding []float32 `json:"embedding"`
	Model     string    `json:"model"`
}

// Ping verifies the model server is reachable and serves the expected
// embedding dimension. Startup fails hard on any mismatch; a broken model
// must not begin serving requests.
func (c *Client) Ping(ctx context.Context, wantDim int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("model server unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model server error (status %d): %s", resp.StatusCode, string(body))
	}

	var health healthResponse
	if err := json.Unmarshal(body, &health); err != nil {
		return fmt.Errorf("failed to parse health response: %w", err)
	}
	if health.Dim != 0 && health.Dim != wantDim {
		return fmt.Errorf("model server serves dim %d, configured dim is %d", health.Dim, wantDim)
	}
	return nil
}

// Detect posts the image to the detection endpoint and returns the face
// bounding boxes found. An empty result means no face, not an error.
func (c *Client) Detect(ctx context.Context, img image.Image) ([]Box, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "image.jpg")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if err := jpeg.Encode(part, img, &jpeg.Options{Quality: 95}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var detResp detectResponse
	if err := json.Unmarshal(body, &detResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	boxes := make([]Box, 0, len(detResp.Faces))
	for _, f := range detResp.Faces {
		if len(f.BBox) != 4 {
			continue
		}
		boxes = append(boxes, Box{
			X1: f.BBox[0], Y1: f.BBox[1],
			X2: f.BBox[2], Y2: f.BBox[3],
			Score: f.DetScore,
		})
	}
	return boxes, nil
}

// Embed posts a standardized face crop to the embedding endpoint.
func (c *Client) Embed(ctx context.Context, pixels []float32) ([]float32, error) {
	reqBody, err := json.Marshal(embedRequest{Pixels: pixels, Model: c.model})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embed", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var embResp embedResponse
	if err := json.Unmarshal(body, &embResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(embResp.Embedding) == 0 {
		return nil, errors.New("empty embedding returned")
	}
	return embResp.Embedding, nil
}
