package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"expense-advisor/pkg/config"

	"go.uber.org/zap"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com"
	geminiModel   = "gemini-2.5-flash-lite"
)

// Gemini posts to the hosted generative-content endpoint and extracts the
// first candidate's text. A 2xx answer with zero candidates is a distinct
// failure from an unreachable backend and is reported as such.
type Gemini struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewGemini(cfg *config.LLMConfig, logger *zap.Logger) *Gemini {
	return &Gemini{
		baseURL:    geminiBaseURL,
		apiKey:     cfg.GeminiAPIKey,
		httpClient: &http.Client{Timeout: cfg.GeminiTimeout},
		logger:     logger,
	}
}

func (g *Gemini) Name() string { return ProviderGemini }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

func (g *Gemini) Generate(ctx context.Context, prompt string) Response {
	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	reqBody.GenerationConfig.Temperature = 0.1
	reqBody.GenerationConfig.MaxOutputTokens = 500

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return malformed(fmt.Sprintf("marshal request: %v", err))
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.baseURL, geminiModel, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return malformed(fmt.Sprintf("create request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Error("Gemini request failed", zap.Error(err))
		return connectionIssue(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		g.logger.Error("Gemini returned non-OK status",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(bodyBytes)),
		)
		return unavailable(fmt.Sprintf("status %d", resp.StatusCode))
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []geminiPart `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		g.logger.Error("Gemini response decode failed", zap.Error(err))
		return malformed(fmt.Sprintf("decode response: %v", err))
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		g.logger.Warn("Gemini returned no candidates")
		return Response{Text: MessageNoResponse, Status: StatusError, Detail: "no response generated"}
	}

	return Response{Text: strings.TrimSpace(geminiResp.Candidates[0].Content.Parts[0].Text), Status: StatusOK}
}
