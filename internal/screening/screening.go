// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package screening checks new comments against a hosted moderation API
// before they enter the moderation queue. Flagged comments are filed as
// spam; everything else keeps the configured default status.
package screening

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

// Result is the outcome of screening one text.
type Result struct {
	Safe       bool
	Categories []string // flagged category names, empty when safe
}

// Screener classifies comment text.
type Screener interface {
	CheckSafety(ctx context.Context, text string) (*Result, error)
}

// Provider names accepted by New.
const (
	ProviderOpenAI  = "openai"
	ProviderMistral = "mistral"
)

const requestTimeout = 15 * time.Second

// New returns the screener for provider, or nil when apiKey is empty.
// An empty baseURL selects the provider's public endpoint.
func New(provider, apiKey, baseURL string) (Screener, error) {
	if apiKey == "" {
		return nil, nil
	}
	switch provider {
	case ProviderOpenAI:
		return newOpenAI(apiKey, baseURL), nil
	case ProviderMistral:
		return newMistral(apiKey, baseURL), nil
	default:
		return nil, fmt.Errorf("unknown screening provider %q", provider)
	}
}

// openAIScreener uses the OpenAI Moderation API (POST /v1/moderations),
// which is free for all OpenAI API key holders.
type openAIScreener struct {
	apiKey string
	url    string
	client *http.Client
}

func newOpenAI(apiKey, baseURL string) *openAIScreener {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &openAIScreener{
		apiKey: apiKey,
		url:    strings.TrimRight(baseURL, "/") + "/moderations",
		client: &http.Client{Timeout: requestTimeout},
	}
}

func (s *openAIScreener) CheckSafety(ctx context.Context, text string) (*Result, error) {
	var resp moderationResponse
	req := moderationRequest{Model: "omni-moderation-latest", Input: text}
	if err := post(ctx, s.client, s.url, s.apiKey, req, &resp); err != nil {
		return nil, fmt.Errorf("openai screening: %w", err)
	}
	if len(resp.Results) == 0 || !resp.Results[0].Flagged {
		return &Result{Safe: true}, nil
	}
	return &Result{Safe: false, Categories: flaggedNames(resp.Results[0].Categories)}, nil
}

// mistralScreener uses the Mistral Moderation API (POST /v1/moderations).
type mistralScreener struct {
	apiKey string
	url    string
	client *http.Client
}

func newMistral(apiKey, baseURL string) *mistralScreener {
	if baseURL == "" {
		baseURL = "https://api.mistral.ai"
	}
	return &mistralScreener{
		apiKey: apiKey,
		url:    strings.TrimRight(baseURL, "/") + "/v1/moderations",
		client: &http.Client{Timeout: requestTimeout},
	}
}

func (s *mistralScreener) CheckSafety(ctx context.Context, text string) (*Result, error) {
	var resp moderationResponse
	req := moderationRequest{Model: "mistral-moderation-latest", Input: text}
	if err := post(ctx, s.client, s.url, s.apiKey, req, &resp); err != nil {
		return nil, fmt.Errorf("mistral screening: %w", err)
	}
	if len(resp.Results) == 0 {
		return &Result{Safe: true}, nil
	}
	// Mistral has no top-level "flagged", only per-category flags.
	flagged := flaggedNames(resp.Results[0].Categories)
	return &Result{Safe: len(flagged) == 0, Categories: flagged}, nil
}

// post sends body as JSON and decodes a 200 response into out.
func post(ctx context.Context, client *http.Client, url, apiKey string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return nil
}

// flaggedNames returns the flagged categories in readable form, sorted.
// "hate/threatening" becomes "hate (threatening)".
func flaggedNames(categories map[string]bool) []string {
	var names []string
	for cat, isFlagged := range categories {
		if !isFlagged {
			continue
		}
		display := cat
		if strings.Contains(cat, "/") {
			display = strings.ReplaceAll(cat, "/", " (") + ")"
		}
		names = append(names, strings.ReplaceAll(display, "_", " "))
	}
	sort.Strings(names)
	return names
}

type moderationRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type moderationResponse struct {
	Results []moderationResult `json:"results"`
}

type moderationResult struct {
	Flagged    bool            `json:"flagged"`
	Categories map[string]bool `json:"categories"`
}
