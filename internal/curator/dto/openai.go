package dto

// Message is a single chat message in an OpenAI-style request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OpenAPIReq is the request payload for the chat completions endpoint.
type OpenAPIReq struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// OpenAPIRes is the response from the chat completions endpoint.
type OpenAPIRes struct {
	Choices []Choice `json:"choices"`
}

// Choice is one completion candidate.
type Choice struct {
	Message Message `json:"message"`
}
