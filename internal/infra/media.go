package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// MediaClient uploads product images to an ImageKit-compatible REST endpoint.
// Authentication is HTTP basic with the private key as username.
type MediaClient struct {
	uploadURL  string
	privateKey string
	folder     string
	httpClient *http.Client
}

func NewMediaClient(uploadURL, privateKey, folder string) *MediaClient {
	return &MediaClient{
		uploadURL:  uploadURL,
		privateKey: privateKey,
		folder:     folder,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Upload sends the file content and returns the hosted URL.
func (c *MediaClient) Upload(ctx context.Context, fileName string, content io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return "", fmt.Errorf("media: create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("media: copy content: %w", err)
	}
	_ = mw.WriteField("fileName", fileName)
	_ = mw.WriteField("folder", c.folder)
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("media: close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &buf)
	if err != nil {
		return "", fmt.Errorf("media: create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.SetBasicAuth(c.privateKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("media: upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("media: upload service returned %d", resp.StatusCode)
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("media: decode response: %w", err)
	}
	return result.URL, nil
}
