package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/civicconnect-api/internal/models"
)

var ErrTriageNotConfigured = errors.New("triage service is not configured")

// TriageSuggestion is the model's proposed classification of a complaint
type TriageSuggestion struct {
	Category models.ComplaintCategory `json:"category"`
	Priority models.Priority          `json:"priority"`
	Reason   string                   `json:"reason"`
}

type TriageService struct {
	client *openai.Client
	model  string
}

// NewTriageService returns nil when apiKey is empty, which callers treat as disabled.
func NewTriageService(apiKey string) *TriageService {
	if apiKey == "" {
		return nil
	}
	return NewTriageServiceWithConfig(openai.DefaultConfig(apiKey))
}

func NewTriageServiceWithConfig(cfg openai.ClientConfig) *TriageService {
	return &TriageService{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.GPT4o,
	}
}

// Suggest asks the model for a category and priority. Answers outside the
// known values fall back to "other" and "medium".
func (s *TriageService) Suggest(ctx context.Context, title, description string) (*TriageSuggestion, error) {
	if s == nil || s.client == nil {
		return nil, ErrTriageNotConfigured
	}

	categories := make([]string, len(models.ComplaintCategories))
	for i, c := range models.ComplaintCategories {
		categories[i] = string(c)
	}

	prompt := fmt.Sprintf(`You classify civic issue reports for a city council.

Title: %s
Description: %s

Reply with a JSON object only:
{"category": one of [%s], "priority": one of ["low", "medium", "high"], "reason": "one short sentence"}

Use "high" only for hazards to safety or health.`, title, description, strings.Join(categories, ", "))

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Temperature: 0.2,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var suggestion TriageSuggestion
	if err := json.Unmarshal([]byte(content), &suggestion); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	if !suggestion.Category.Valid() {
		suggestion.Category = models.CategoryOther
	}
	if !suggestion.Priority.Valid() {
		suggestion.Priority = models.PriorityMedium
	}
	suggestion.Reason = strings.TrimSpace(suggestion.Reason)

	return &suggestion, nil
}
