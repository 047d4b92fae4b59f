// Package gemini generates companion replies with Google's Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/zenify/companion/internal/config"
	"github.com/zenify/companion/internal/model"
)

// ErrBlocked is returned when Gemini refuses a prompt or a reply.
var ErrBlocked = errors.New("gemini response blocked")

// contentGenerator is the part of genai.Models the client calls.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client turns a conversation into the next assistant reply.
type Client struct {
	models        contentGenerator
	log           *slog.Logger
	contentConfig *genai.GenerateContentConfig
	modelName     string
	maxRetries    int
	retryDelay    time.Duration
}

// NewClient creates a Gemini client from cfg.
func NewClient(ctx context.Context, cfg config.GeminiConfig, log *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	c := newClient(gi.Models, cfg, log)
	c.log.Info("Gemini client initialized", "model", cfg.ModelName)
	return c, nil
}

func newClient(models contentGenerator, cfg config.GeminiConfig, log *slog.Logger) *Client {
	temperature := cfg.Temperature
	contentConfig := &genai.GenerateContentConfig{
		Temperature:       &temperature,
		MaxOutputTokens:   cfg.MaxOutputTokens,
		SystemInstruction: genai.NewContentFromText(ReplyStyleInstruction, genai.RoleUser),
		// Self-harm content must reach the companion so it can respond with care.
		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
			{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
			{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
		},
	}

	return &Client{
		models:        models,
		log:           log.With("component", "gemini_client"),
		contentConfig: contentConfig,
		modelName:     cfg.ModelName,
		maxRetries:    cfg.MaxRetries,
		retryDelay:    cfg.RetryDelay(),
	}
}

// GenerateReply asks Gemini for the assistant turn that follows messages.
// An empty string with a nil error means the model finished without text.
func (c *Client) GenerateReply(ctx context.Context, messages []model.ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("no messages to reply to")
	}
	c.log.DebugContext(ctx, "Generating reply", "message_count", len(messages))

	resp, err := c.generateContentWithRetries(ctx, Contents(messages))
	if err != nil {
		return "", err
	}
	return c.extractText(ctx, resp)
}

// Contents maps a conversation onto Gemini turns. Gemini has no system role in
// the turn list, so system messages are sent as user turns.
func Contents(messages []model.ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		var role genai.Role = genai.RoleUser
		if m.Role == model.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	return contents
}

func (c *Client) generateContentWithRetries(ctx context.Context, contents []*genai.Content) (*genai.GenerateContentResponse, error) {
	for attempt := 0; ; attempt++ {
		resp, err := c.models.GenerateContent(ctx, c.modelName, contents, c.contentConfig)
		if err == nil {
			return resp, nil
		}

		code, retriable := retriableCode(err)
		if !retriable {
			c.log.ErrorContext(ctx, "Gemini API call failed with non-retriable error", "error", err)
			return nil, fmt.Errorf("gemini API call failed: %w", err)
		}
		if attempt >= c.maxRetries {
			c.log.ErrorContext(ctx, "Gemini API call failed after max retries", "error", err, "code", code)
			return nil, fmt.Errorf("gemini API call failed after %d retries (code %d): %w", c.maxRetries, code, err)
		}

		c.log.WarnContext(ctx, "Retrying Gemini API call", "attempt", attempt+1, "max_retries", c.maxRetries, "code", code, "delay", c.retryDelay)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("gemini retry interrupted: %w", ctx.Err())
		case <-time.After(c.retryDelay):
		}
	}
}

// retriableCode reports the HTTP code of a genai API error that is worth retrying.
func retriableCode(err error) (int, bool) {
	var code int
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	case errors.As(err, &apiErr):
		code = apiErr.Code
	default:
		return 0, false
	}
	return code, code == http.StatusInternalServerError || code == http.StatusServiceUnavailable
}

func (c *Client) extractText(ctx context.Context, resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("gemini returned no response")
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		reason := string(resp.PromptFeedback.BlockReason)
		if resp.PromptFeedback.BlockReasonMessage != "" {
			reason = resp.PromptFeedback.BlockReasonMessage
		}
		c.log.WarnContext(ctx, "Gemini prompt blocked", "reason", reason)
		return "", fmt.Errorf("%w: %s", ErrBlocked, reason)
	}

	if len(resp.Candidates) == 0 {
		c.log.WarnContext(ctx, "Gemini response has no candidates")
		return "", errors.New("gemini returned no candidates")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		switch candidate.FinishReason {
		case genai.FinishReasonStop, genai.FinishReasonUnspecified:
			c.log.WarnContext(ctx, "Gemini response finished without content")
			return "", nil
		case genai.FinishReasonSafety, genai.FinishReasonProhibitedContent, genai.FinishReasonBlocklist:
			c.log.WarnContext(ctx, "Gemini reply blocked", "finish_reason", candidate.FinishReason)
			return "", fmt.Errorf("%w: finish reason %s", ErrBlocked, candidate.FinishReason)
		default:
			c.log.WarnContext(ctx, "Gemini response missing content", "finish_reason", candidate.FinishReason)
			return "", fmt.Errorf("gemini returned no content, finish reason: %s", candidate.FinishReason)
		}
	}

	text := resp.Text()
	c.log.DebugContext(ctx, "Reply generated", "chars", len(text), "finish_reason", candidate.FinishReason)
	return text, nil
}
