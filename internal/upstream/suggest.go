package upstream

import (
	"context"
	"fmt"
	"strings"
)

// Chat-completion wire types for the suggestion provider.

type chatRequest struct {
	Model    string        `json:"model"`
	User     string        `json:"user,omitempty"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// SuggestClient asks the suggestion provider for restaurant recommendations.
// The first choice's text is returned verbatim; parsing happens in the
// suggestion service.
type SuggestClient struct {
	exec  *Executor
	model string
}

func NewSuggestClient(exec *Executor, model string) *SuggestClient {
	return &SuggestClient{exec: exec, model: model}
}

const suggestSystemPrompt = "You are a restaurant recommendation assistant. " +
	"Suggest 3-5 restaurants matching the user's preferences. " +
	"Format each suggestion as a numbered list item: N. **Name**: one-sentence description."

// Complete sends the rendered preference prompt and returns the first
// choice's text as an opaque suggestion blob.
func (c *SuggestClient) Complete(ctx context.Context, userID, prompt string) (string, error) {
	req := chatRequest{
		Model: c.model,
		User:  userID,
		Messages: []chatMessage{
			{Role: "system", Content: suggestSystemPrompt},
			{Role: "user", Content: prompt},
		},
	}

	var resp chatResponse
	if err := c.exec.Post(ctx, "/chat/completions", req, &resp, RequestOptions{RequiresAuth: true}); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("suggestion provider returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
