// Package llm is a small client for OpenAI-compatible chat completion APIs.
// It serves both OpenAI and OpenRouter, which share the request format.
package llm

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

	"github.com/BillChill/billchill-backend/logger"
	"go.uber.org/zap"
)

var (
	// ErrMissingAPIKey is returned before any request is made when the
	// client was built without a key.
	ErrMissingAPIKey = errors.New("missing api key")
	// ErrMalformedResponse means the provider answered 2xx without a usable
	// first choice.
	ErrMalformedResponse = errors.New("malformed response from model")
)

// RequestError wraps a transport failure (DNS, connect, timeout).
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// StatusError is returned for responses with status >= 400. Body is already
// truncated to the client's configured length.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Body)
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the request body. Temperature is always sent, so zero means
// deterministic sampling rather than the provider default.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	WebSearch   bool      `json:"web_search,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Config configures a Client.
type Config struct {
	Name    string
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// Headers are added to every request (OpenRouter attribution headers).
	Headers map[string]string
	// ErrorBodyMaxLength bounds the upstream body kept in a StatusError.
	ErrorBodyMaxLength int
}

// Client calls POST {BaseURL}/chat/completions.
type Client struct {
	name       string
	endpoint   string
	apiKey     string
	headers    map[string]string
	maxErrBody int
	httpClient *http.Client
	log        *zap.SugaredLogger
}

func NewClient(cfg Config) *Client {
	return &Client{
		name:       cfg.Name,
		endpoint:   strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions",
		apiKey:     cfg.APIKey,
		headers:    cfg.Headers,
		maxErrBody: cfg.ErrorBodyMaxLength,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.GetLogger().Named("llm").With("provider", cfg.Name),
	}
}

// Name returns the provider label used in logs and metrics.
func (c *Client) Name() string {
	return c.name
}

// HasAPIKey reports whether requests can be attempted at all.
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// ChatCompletion sends one request and returns the content of the first
// choice. It does not retry.
func (c *Client) ChatCompletion(ctx context.Context, req ChatRequest) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &RequestError{Err: err}
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Warnw("Chat completion request failed", "model", req.Model, "error", err)
		return "", &RequestError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &RequestError{Err: err}
	}

	c.log.Debugw("Chat completion finished",
		"model", req.Model,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"bytes", len(raw),
	)

	if resp.StatusCode >= 400 {
		return "", &StatusError{
			StatusCode: resp.StatusCode,
			Body:       logger.Truncate(string(raw), c.maxErrBody),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message == nil || parsed.Choices[0].Message.Content == nil {
		return "", ErrMalformedResponse
	}
	return *parsed.Choices[0].Message.Content, nil
}
