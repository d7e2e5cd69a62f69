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

const openAIEndpoint = "https://api.openai.com/v1/chat/completions"

// OpenAI posts to the hosted chat-completions endpoint and extracts the first
// completion's text.
type OpenAI struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewOpenAI(cfg *config.LLMConfig, logger *zap.Logger) *OpenAI {
	return &OpenAI{
		endpoint:   openAIEndpoint,
		apiKey:     cfg.OpenAIAPIKey,
		httpClient: &http.Client{Timeout: cfg.OpenAITimeout},
		logger:     logger,
	}
}

func (o *OpenAI) Name() string { return ProviderOpenAI }

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
}

func (o *OpenAI) Generate(ctx context.Context, prompt string) Response {
	reqBody := openAIRequest{
		Model:       "gpt-3.5-turbo",
		Messages:    []openAIMessage{{Role: "user", Content: prompt}},
		MaxTokens:   500,
		Temperature: 0.1,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return malformed(fmt.Sprintf("marshal request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return malformed(fmt.Sprintf("create request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		o.logger.Error("OpenAI request failed", zap.Error(err))
		return connectionIssue(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		o.logger.Error("OpenAI returned non-OK status",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(bodyBytes)),
		)
		return unavailable(fmt.Sprintf("status %d", resp.StatusCode))
	}

	var openAIResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&openAIResp); err != nil {
		o.logger.Error("OpenAI response decode failed", zap.Error(err))
		return malformed(fmt.Sprintf("decode response: %v", err))
	}

	if len(openAIResp.Choices) == 0 {
		return Response{Text: MessageNoResponse, Status: StatusError, Detail: "no choices in response"}
	}

	return Response{Text: strings.TrimSpace(openAIResp.Choices[0].Message.Content), Status: StatusOK}
}
