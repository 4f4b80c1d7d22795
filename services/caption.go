package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// CaptionGenerator produces a caption for a base64-encoded image.
type CaptionGenerator interface {
	Caption(ctx context.Context, base64Image string) (string, error)
}

const captionPrompt = "Write a short, engaging caption for this image. " +
	"Reply with the caption text only, no quotes or hashtags."

// GeminiCaptioner calls the Gemini generateContent endpoint.
// One attempt per request; a failed call fails the caller.
type GeminiCaptioner struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewGeminiCaptioner(apiKey string) *GeminiCaptioner {
	return &GeminiCaptioner{
		apiKey:  apiKey,
		baseURL: "https://generativelanguage.googleapis.com",
		model:   "gemini-2.0-flash",
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type geminiBlob struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *geminiBlob `json:"inline_data,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiCaptioner) Caption(ctx context.Context, base64Image string) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{
				{InlineData: &geminiBlob{MIMEType: "image/jpeg", Data: base64Image}},
				{Text: captionPrompt},
			},
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("caption request failed with status %d", resp.StatusCode)
	}

	var result geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("caption response contained no candidates")
	}

	return strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text), nil
}
