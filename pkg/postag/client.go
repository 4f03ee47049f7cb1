// Package postag talks to an external part-of-speech tagging service and
// exposes it as a speaker-label verb gate.
package postag

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// ErrUnavailable is returned when no tagger URL is configured.
var ErrUnavailable = errors.New("part-of-speech tagger not configured")

// Token is one tagged token. POS uses Universal Dependencies tags
// (VERB, AUX, PROPN, NOUN, ...).
type Token struct {
	Text string `json:"text"`
	POS  string `json:"pos"`
}

type tagRequest struct {
	Text string `json:"text"`
}

type tagResponse struct {
	Tokens []Token `json:"tokens"`
}

// Client calls POST {baseURL}/tag.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a tagger client with the given request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Tag returns the tokens of text with their part-of-speech tags.
func (c *Client) Tag(ctx context.Context, text string) ([]Token, error) {
	if c == nil || c.baseURL == "" {
		return nil, ErrUnavailable
	}
	startTime := time.Now()

	body, err := json.Marshal(tagRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed marshal tag payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tag", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed create tag request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tag request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tag request non-OK status: %s. Body: %s", resp.Status, string(respBody))
	}

	var out tagResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed decode tag response: %w", err)
	}

	log.Debugf("Tagged %q into %d tokens in %v", text, len(out.Tokens), time.Since(startTime))
	return out.Tokens, nil
}
