// Package tts calls the external text-to-speech function used for
// announcement audio.
package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"
)

// DefaultVoice is used when a request names no voice.
const DefaultVoice = "alloy"

// Voices the upstream function accepts.
var Voices = []string{"alloy", "echo", "fable", "onyx", "nova", "shimmer"} //nolint:gochecknoglobals // fixed set

// ContentType of the synthesised audio.
const ContentType = "audio/mpeg"

const maxResponseBytes = 20 << 20

type request struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

type response struct {
	AudioContent string `json:"audioContent"`
	Error        string `json:"error,omitempty"`
}

// Client posts text to the synthesis endpoint and returns mp3 bytes.
type Client struct {
	url          string
	token        string
	defaultVoice string
	httpClient   *http.Client
}

// Option configures Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithTimeout bounds each synthesis request.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.httpClient.Timeout = d
		}
	}
}

// WithToken sends a bearer token with every request.
func WithToken(token string) Option {
	return func(cl *Client) { cl.token = token }
}

// WithDefaultVoice sets the voice used when none is requested.
func WithDefaultVoice(voice string) Option {
	return func(cl *Client) {
		if slices.Contains(Voices, voice) {
			cl.defaultVoice = voice
		}
	}
}

// New creates a client for url. An empty url yields a client whose calls
// fail with ErrDisabled.
func New(url string, opts ...Option) *Client {
	c := &Client{
		url:          strings.TrimSpace(url),
		defaultVoice: DefaultVoice,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether an endpoint is configured.
func (c *Client) Enabled() bool { return c != nil && c.url != "" }

// Synthesize converts text to speech with voice, or the default voice when
// voice is empty.
func (c *Client) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if voice == "" {
		voice = c.defaultVoice
	}
	if !slices.Contains(Voices, voice) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVoice, voice)
	}

	body, err := json.Marshal(request{Text: text, Voice: voice})
	if err != nil {
		return nil, fmt.Errorf("encode tts request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build tts request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrUpstream, err)
	}
	var out response
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: status %d: decode body: %w", ErrUpstream, resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, out.Error)
	}
	audio, err := base64.StdEncoding.DecodeString(out.AudioContent)
	if err != nil || len(audio) == 0 {
		return nil, fmt.Errorf("%w: missing or invalid audio content", ErrUpstream)
	}
	return audio, nil
}
