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

// Ollama talks to a locally hosted inference server. Generation is pinned
// deterministic: temperature zero, bounded output, and stop sequences so the
// model cannot continue past its answer into a fabricated next user turn.
type Ollama struct {
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewOllama(cfg *config.LLMConfig, logger *zap.Logger) *Ollama {
	return &Ollama{
		baseURL:    strings.TrimRight(cfg.OllamaBaseURL, "/"),
		model:      cfg.OllamaModel,
		httpClient: &http.Client{Timeout: cfg.OllamaTimeout},
		logger:     logger,
	}
}

func (o *Ollama) Name() string { return ProviderOllama }

type ollamaOptions struct {
	Temperature   float64  `json:"temperature"`
	NumCtx        int      `json:"num_ctx"`
	NumPredict    int      `json:"num_predict"`
	RepeatPenalty float64  `json:"repeat_penalty"`
	Stop          []string `json:"stop"`
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

func (o *Ollama) Generate(ctx context.Context, prompt string) Response {
	reqBody := ollamaRequest{
		Model:  o.model,
		Prompt: prompt,
		Stream: false,
		Options: ollamaOptions{
			Temperature:   0.0,
			NumCtx:        8192,
			NumPredict:    600,
			RepeatPenalty: 1.2,
			Stop:          []string{"\nUser question:", "\nUser:"},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return malformed(fmt.Sprintf("marshal request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewBuffer(jsonData))
	if err != nil {
		return malformed(fmt.Sprintf("create request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		o.logger.Error("Ollama request failed", zap.Error(err))
		return connectionIssue(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		o.logger.Error("Ollama returned non-OK status",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(bodyBytes)),
		)
		return unavailable(fmt.Sprintf("status %d", resp.StatusCode))
	}

	var ollamaResp struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		o.logger.Error("Ollama response decode failed", zap.Error(err))
		return malformed(fmt.Sprintf("decode response: %v", err))
	}

	return Response{Text: strings.TrimSpace(ollamaResp.Response), Status: StatusOK}
}
