package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	domai "github.com/healtrack/healtrack-api/internal/domain/ai"
	"github.com/healtrack/healtrack-api/internal/domain/analysis"
	"github.com/healtrack/healtrack-api/internal/infra/ai/prompt"
)

const (
	defaultModel        = "gpt-4-turbo-preview"
	defaultVisionModel  = "gpt-4-vision-preview"
	defaultInsightModel = "gpt-3.5-turbo"

	analysisMaxTokens   = 2000
	extractionMaxTokens = 1500
	insightMaxTokens    = 150
)

// Client implements domain/ai.Client on the OpenAI chat completion API.
// A missing API key degrades every call to ErrAnalysisUnavailable instead of
// crashing the service.
type Client struct {
	api          *openai.Client
	Model        string
	VisionModel  string
	InsightModel string
}

func NewClient(apiKey, model, visionModel, insightModel string) *Client {
	c := &Client{Model: model, VisionModel: visionModel, InsightModel: insightModel}
	if apiKey != "" {
		c.api = openai.NewClient(apiKey)
	}
	return c
}

// completionErr classifies a failed chat completion. Rate-limit responses
// surface as ErrQuotaExceeded so callers can log and meter them apart from
// ordinary outages; everything else collapses to ErrAnalysisUnavailable.
func completionErr(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", domai.ErrQuotaExceeded, err)
	}
	return fmt.Errorf("%w: %v", domai.ErrAnalysisUnavailable, err)
}

// AnalyzeDocument sends the fixed instruction template plus the document text
// and sanitizes the JSON response. Single attempt, no retries; retry policy
// belongs to the caller.
func (c *Client) AnalyzeDocument(ctx context.Context, documentText, documentType string) (*analysis.Result, error) {
	if c.api == nil {
		return nil, fmt.Errorf("%w: api key not configured", domai.ErrAnalysisUnavailable)
	}
	model := c.Model
	if model == "" {
		model = defaultModel
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: 0.3,
		MaxTokens:   analysisMaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.GetUserPrompt(documentType, documentText)},
		},
	})
	if err != nil {
		return nil, completionErr(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("%w: no analysis content received", domai.ErrAnalysisUnavailable)
	}
	content := resp.Choices[0].Message.Content

	var raw map[string]any
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("%w: parsing response: %v", domai.ErrAnalysisUnavailable, err)
	}

	// Schema check is advisory: the sanitizer defaults whatever is off-shape.
	if err := analysis.ValidateResponse([]byte(content)); err != nil {
		log.Printf("ai response failed schema validation: %v", err)
	}

	return analysis.Sanitize(raw, analysis.SourceAI, time.Now().UTC()), nil
}

// ExtractText performs best-effort OCR through the vision model.
func (c *Client) ExtractText(ctx context.Context, imageDataURL string) (string, error) {
	if c.api == nil {
		return "", fmt.Errorf("%w: api key not configured", domai.ErrAnalysisUnavailable)
	}
	model := c.VisionModel
	if model == "" {
		model = defaultVisionModel
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: 0.1,
		MaxTokens:   extractionMaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt.GetExtractionPrompt()},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: imageDataURL}},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to extract text from image: %w", completionErr(err))
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no extraction content received")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateInsight asks for a short, encouraging tip based on recent findings.
func (c *Client) GenerateInsight(ctx context.Context, findingsJSON string) (string, error) {
	if c.api == nil {
		return "", fmt.Errorf("%w: api key not configured", domai.ErrAnalysisUnavailable)
	}
	model := c.InsightModel
	if model == "" {
		model = defaultInsightModel
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: 0.7,
		MaxTokens:   insightMaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetInsightSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.GetInsightUserPrompt(findingsJSON)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate insight: %w", completionErr(err))
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no insight content received")
	}
	return resp.Choices[0].Message.Content, nil
}
