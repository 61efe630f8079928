// Package tts fetches spoken audio for short chat replies. Failures are
// non-fatal for callers: no audio is an acceptable outcome.
package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	endpoint = "https://translate.google.com/translate_tts"
	// maxTextLen caps the spoken text; the TTS endpoint rejects long inputs.
	maxTextLen = 500
)

var markdownChars = regexp.MustCompile("[*_#`~>|]")

// Client fetches MP3 audio for plain text.
type Client struct {
	http *http.Client
}

// New creates a TTS client with a bounded request timeout.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Speak converts text to MP3 bytes in the given language. Markdown control
// characters are stripped and the text is length-capped first.
func (c *Client) Speak(ctx context.Context, text, lang string) ([]byte, error) {
	text = CleanText(text)
	if text == "" {
		return nil, fmt.Errorf("nothing to speak")
	}
	if lang == "" {
		lang = "uz"
	}

	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", lang)
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts endpoint returned %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// CleanText strips markdown control characters, collapses whitespace and caps
// the length so the result reads naturally when spoken.
func CleanText(text string) string {
	text = markdownChars.ReplaceAllString(text, "")
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) > maxTextLen {
		runes = runes[:maxTextLen]
	}
	return strings.TrimSpace(string(runes))
}
