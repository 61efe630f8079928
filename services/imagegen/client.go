// Package imagegen fetches generated illustrations for chat topics. Failures
// are non-fatal: the chat turn simply goes without a picture.
package imagegen

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

const endpoint = "https://image.pollinations.ai/prompt/"

// Client fetches raw image bytes for a text prompt.
type Client struct {
	http *http.Client
}

// New creates an image client with a bounded request timeout.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Generate returns image bytes and their content type for the prompt. A fresh
// uuid seed busts the provider's cache so repeated prompts yield new images.
func (c *Client) Generate(ctx context.Context, prompt string) ([]byte, string, error) {
	if prompt == "" {
		return nil, "", fmt.Errorf("prompt cannot be empty")
	}

	u := endpoint + url.PathEscape(prompt) + "?seed=" + uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("image endpoint returned %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return body, contentType, nil
}
