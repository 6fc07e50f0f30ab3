package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"

type GeminiClient struct {
	APIKey string
	Model  string

	httpClient *http.Client
}

func New(apiKey, model string) *GeminiClient {
	return &GeminiClient{
		APIKey: apiKey,
		Model:  model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Generate sends one prompt and returns the model's text. Any
// non-success comes back as an error; callers surface the reason and
// never try to parse it as a plan.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("AI unavailable: GEMINI_API_KEY not set")
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": prompt},
				},
			},
		},
	}
	reqJSON, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST",
		fmt.Sprintf(geminiEndpoint, c.Model),
		bytes.NewBuffer(reqJSON),
	)
	if err != nil {
		return "", err
	}
	req.Header.Set("x-goog-api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned %d: %s", res.StatusCode, string(body))
	}

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", err
	}

	for _, cand := range out.Candidates {
		if len(cand.Content.Parts) > 0 && cand.Content.Parts[0].Text != "" {
			return cand.Content.Parts[0].Text, nil
		}
	}

	return "", fmt.Errorf("model did not return text")
}
