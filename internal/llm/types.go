package llm

// Запрос chat completions в формате OpenAI
type chatRequest struct {
	Model          string          `json:"model"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Messages       []chatMessage   `json:"messages"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Ответ chat completions; интересует только текст первого choice
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// CompletionParams — параметры одного запроса к модели.
type CompletionParams struct {
	System    string // системная инструкция
	User      string // пользовательский промпт
	MaxTokens int    // потолок токенов вывода
}
