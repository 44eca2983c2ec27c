package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Gemini struct {
	apiKey  string
	client  *http.Client
	model   string
	baseURL string
}

func NewGemini(apiKey string) *Gemini {
	return NewGeminiWithModel(apiKey, "gemini-2.5-flash")
}

func NewGeminiWithModel(apiKey, model string) *Gemini {
	return &Gemini{
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 60 * time.Second},
		model:   model,
		baseURL: "https://generativelanguage.googleapis.com/v1beta",
	}
}

func (g *Gemini) Chat(ctx context.Context, prompt string) (string, error) {
	body := map[string]interface{}{
		"contents": []map[string]interface{}{{
			"parts": []map[string]string{{"text": prompt}},
		}},
		// Deterministic decoding so the same corpus yields near-identical
		// groupings across runs.
		"generationConfig": map[string]interface{}{
			"temperature": 0,
			"topP":        1,
			"topK":        1,
		},
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Gemini API error (status %d)", resp.StatusCode)
	}

	// Minimal struct to pull out the candidate text.
	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBytes, &geminiResp); err != nil {
		return "", err
	}
	if geminiResp.Error.Message != "" {
		return "", fmt.Errorf("Gemini API error: %s", geminiResp.Error.Message)
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}
