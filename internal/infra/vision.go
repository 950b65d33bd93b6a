package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// VisionClient is an HTTP client for the vision sidecar, which wraps the
// hosted AI model behind three endpoints: category suggestion, product
// recognition from a photo, and product image generation.
// The sidecar isolates AI provider churn (prompts, auth, model versions)
// from the core Go backend. All calls are best-effort: callers must tolerate
// failure without affecting checkout.
type VisionClient struct {
	sidecarURL string
	httpClient *http.Client
}

func NewVisionClient(sidecarURL string) *VisionClient {
	return &VisionClient{
		sidecarURL: sidecarURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SuggestCategoryResult is returned by the sidecar's /suggest-category endpoint.
type SuggestCategoryResult struct {
	Category string `json:"category"`
}

// RecognizeResult is the structured product identification from a photo.
type RecognizeResult struct {
	ProductName string `json:"product_name"`
	Brand       string `json:"brand"`
	Category    string `json:"category"`
}

// GenerateImageResult carries the hosted URL of a generated product image.
type GenerateImageResult struct {
	ImageURL string `json:"image_url"`
}

// SuggestCategory asks for a single free-text category label for a product name.
func (c *VisionClient) SuggestCategory(ctx context.Context, productName string) (*SuggestCategoryResult, error) {
	var out SuggestCategoryResult
	err := c.post(ctx, "/suggest-category", map[string]string{"product_name": productName}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Recognize identifies name/brand/category from a base64 photo data URI.
func (c *VisionClient) Recognize(ctx context.Context, photoDataURI string) (*RecognizeResult, error) {
	var out RecognizeResult
	err := c.post(ctx, "/recognize", map[string]string{"photo_data_uri": photoDataURI}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateImage produces a product image from name/brand/description.
func (c *VisionClient) GenerateImage(ctx context.Context, productName, brand, description string) (*GenerateImageResult, error) {
	var out GenerateImageResult
	err := c.post(ctx, "/generate-image", map[string]string{
		"product_name": productName,
		"brand":        brand,
		"description":  description,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *VisionClient) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("vision: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sidecarURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("vision: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("vision: sidecar unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("vision: sidecar returned %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("vision: decode response: %w", err)
	}
	return nil
}
