package dto

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Response string `json:"response"`
	ChartURL *string `json:"chart_url,omitempty"`
}
