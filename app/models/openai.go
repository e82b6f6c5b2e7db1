package models

// Request/response shapes for the OpenAI Responses API. Only the fields we
// read are modeled; unknown fields are ignored on decode.

type OpenAIRequest struct {
	Model        string `json:"model"`
	Instructions string `json:"instructions"`
	Input        string `json:"input"`
}

// Model received from api.openai.com
type OpenAIResponse struct {
	ID     string             `json:"id"`
	Status string             `json:"status"`
	Output []OpenAIOutputItem `json:"output"`
	Error  *OpenAIError       `json:"error"`
}

// OpenAIOutputItem is one output segment. A response may interleave
// reasoning items with message items; only message content carries text.
type OpenAIOutputItem struct {
	Type    string              `json:"type"` // "message", "reasoning", ...
	Role    string              `json:"role"`
	Content []OpenAIContentPart `json:"content"`
}

type OpenAIContentPart struct {
	Type string `json:"type"` // "output_text", "refusal", ...
	Text string `json:"text"`
}

type OpenAIError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
