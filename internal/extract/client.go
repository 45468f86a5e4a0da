// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract sends page images to an OpenAI-compatible multimodal
// endpoint and returns cleaned Markdown. One synchronous request per
// page; a failed request fails only that page, and retrying is the
// operator's business, not this client's.
package extract

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/datasheet-parser/pkg/types"
)

// pageTemperature keeps decoding near-deterministic; extraction wants
// transcription, not creativity.
const pageTemperature = 0.1

const defaultTimeout = 5 * time.Minute

// UpstreamError reports a non-success status from the inference endpoint.
// Local to the affected page.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("inference endpoint returned %d: %s", e.Status, e.Body)
}

// MalformedResponseError reports a success status whose body does not
// carry the expected completion shape. Local to the affected page.
type MalformedResponseError struct {
	Raw string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("unexpected response shape from inference endpoint: %s", e.Raw)
}

// overrides holds decoding parameters a model family needs on top of the
// defaults. Resolved once at client construction; nil pointers mean
// "leave unset".
type overrides struct {
	TopP            *float64
	PresencePenalty *float64

	// ScratchBlock asks the model to reason inside a <thinking> block,
	// which the client strips from the answer.
	ScratchBlock bool
}

// familyOverrides maps a model-family tag to its decoding overrides. A
// family matches when its tag is a substring of the lowercased model
// identifier.
var familyOverrides = map[string]overrides{
	"qwen":     {TopP: floatPtr(0.8), PresencePenalty: floatPtr(1.5)},
	"deepseek": {ScratchBlock: true},
}

func floatPtr(v float64) *float64 { return &v }

// resolveOverrides picks the override set for a model identifier.
// Tags are tried in sorted order so resolution is deterministic.
func resolveOverrides(model string) overrides {
	lower := strings.ToLower(model)
	tags := make([]string, 0, len(familyOverrides))
	for tag := range familyOverrides {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		if strings.Contains(lower, tag) {
			return familyOverrides[tag]
		}
	}
	return overrides{}
}

// Client talks to one OpenAI-compatible chat-completions endpoint.
type Client struct {
	cfg        types.ClientConfig
	httpClient *http.Client
	overrides  overrides
}

// NewClient builds a client for the configured endpoint. A nil
// httpClient gets a default with the configured timeout.
func NewClient(cfg types.ClientConfig, httpClient *http.Client) *Client {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		overrides:  resolveOverrides(cfg.Model),
	}
}

// chatRequest is the request body for the chat-completions endpoint.
type chatRequest struct {
	Model           string        `json:"model"`
	Messages        []chatMessage `json:"messages"`
	MaxTokens       int           `json:"max_tokens"`
	Temperature     float64       `json:"temperature"`
	TopP            *float64      `json:"top_p,omitempty"`
	PresencePenalty *float64      `json:"presence_penalty,omitempty"`
}

// chatMessage is one conversation message. Content is a plain string for
// the system role and a []contentPart for the user role.
type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

// chatResponse is the subset of the response body the client reads.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ProcessPage sends one page image with its instruction, system prompt,
// and optional context from previous pages, and returns the cleaned
// Markdown. An empty prior omits the context block entirely.
func (c *Client) ProcessPage(ctx context.Context, imagePath, instruction, system, prior string) (string, error) {
	dataURI, err := encodeImage(imagePath)
	if err != nil {
		return "", err
	}

	if c.overrides.ScratchBlock {
		system += "\n\nReason about the page layout inside a single <thinking></thinking> block first, then give only the final Markdown after it."
	}

	var parts []contentPart
	if prior != "" {
		parts = append(parts, contentPart{
			Type: "text",
			Text: "Here is context from previous datasheet pages:\n\n" + prior,
		})
	}
	parts = append(parts,
		contentPart{Type: "text", Text: instruction},
		contentPart{Type: "image_url", ImageURL: &imageURL{URL: dataURI}},
	)

	reqBody := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: parts},
		},
		MaxTokens:       c.cfg.MaxTokens,
		Temperature:     pageTemperature,
		TopP:            c.overrides.TopP,
		PresencePenalty: c.overrides.PresencePenalty,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling inference endpoint: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &MalformedResponseError{Raw: string(respBody)}
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", &MalformedResponseError{Raw: string(respBody)}
	}

	return CleanResponse(parsed.Choices[0].Message.Content), nil
}

// encodeImage reads the image file and returns it as a base64 data URI.
func encodeImage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading image %s: %w", path, err)
	}
	mime := "image/jpeg"
	if strings.EqualFold(filepath.Ext(path), ".png") {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
