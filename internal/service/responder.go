package service

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"comment-sync-api/internal/domain"
)

const (
	// SourceKeyword marks suggestions produced by the rule table
	SourceKeyword = "keyword"
	// SourceModel marks suggestions produced by the language model
	SourceModel = "model"

	defaultReplyModel = "gpt-4o-mini"
	defaultSystemRole = "You are a friendly social media manager replying to customer comments on behalf of a business page. Keep replies short, warm and specific to the comment. Never promise anything the business has not stated."
	defaultReplyText  = "Thank you for your comment! We appreciate you reaching out and will get back to you shortly."
)

// ReplyGenerator produces a reply text for a comment
type ReplyGenerator interface {
	Generate(ctx context.Context, comment *domain.Comment, cfg *domain.AutomationConfig) (text string, source string, err error)
}

// keywordRule maps trigger substrings to a canned response
type keywordRule struct {
	triggers []string
	response string
}

var keywordRules = []keywordRule{
	{
		triggers: []string{"price", "cost", "how much"},
		response: "Thanks for asking! Please check our latest pricing on our page, or send us a direct message and we'll share the details.",
	},
	{
		triggers: []string{"hours", "open", "close", "when"},
		response: "Our current opening hours are listed on our page. Feel free to message us if you need anything specific!",
	},
	{
		triggers: []string{"ship", "delivery", "deliver"},
		response: "We do deliver! Send us a direct message with your location and we'll confirm the options for you.",
	},
	{
		triggers: []string{"thank", "love", "great", "awesome", "amazing"},
		response: "Thank you so much for the kind words! It really means a lot to us.",
	},
	{
		triggers: []string{"problem", "issue", "wrong", "bad", "disappointed"},
		response: "We're sorry to hear that. Please send us a direct message with the details so we can make it right.",
	},
}

// keywordReplyGenerator matches the comment text against a fixed rule
// table. It never fails and serves as the fallback when no model is
// configured or the model call errors.
type keywordReplyGenerator struct{}

// NewKeywordReplyGenerator creates a rule-based reply generator
func NewKeywordReplyGenerator() ReplyGenerator {
	return &keywordReplyGenerator{}
}

func (g *keywordReplyGenerator) Generate(_ context.Context, comment *domain.Comment, _ *domain.AutomationConfig) (string, string, error) {
	text := strings.ToLower(comment.CommentText)
	for _, rule := range keywordRules {
		for _, trigger := range rule.triggers {
			if strings.Contains(text, trigger) {
				return rule.response, SourceKeyword, nil
			}
		}
	}
	return defaultReplyText, SourceKeyword, nil
}

// openAIReplyGenerator asks a chat completion model for a reply, using
// the configured personality prompt as the system message. Model errors
// fall through to the keyword generator so scheduled replies still go out.
type openAIReplyGenerator struct {
	client   *openai.Client
	fallback ReplyGenerator
	logger   *zap.Logger
}

// NewOpenAIReplyGenerator creates a model-backed reply generator
func NewOpenAIReplyGenerator(apiKey string, logger *zap.Logger) ReplyGenerator {
	config := openai.DefaultConfig(apiKey)
	return &openAIReplyGenerator{
		client:   openai.NewClientWithConfig(config),
		fallback: NewKeywordReplyGenerator(),
		logger:   logger,
	}
}

func (g *openAIReplyGenerator) Generate(ctx context.Context, comment *domain.Comment, cfg *domain.AutomationConfig) (string, string, error) {
	model := defaultReplyModel
	systemPrompt := defaultSystemRole
	if cfg != nil {
		if cfg.Model != "" {
			model = cfg.Model
		}
		if cfg.PersonalityPrompt != "" {
			systemPrompt = cfg.PersonalityPrompt
		}
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: comment.CommentText,
			},
		},
		Temperature: 0.7,
		MaxTokens:   200,
	})
	if err != nil {
		g.logger.Warn("Model reply generation failed, falling back to keyword rules",
			zap.String("comment_id", comment.ID.String()),
			zap.Error(err),
		)
		return g.fallback.Generate(ctx, comment, cfg)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return g.fallback.Generate(ctx, comment, cfg)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), SourceModel, nil
}

// NewReplyGenerator selects the model-backed generator when an API key
// is configured and the keyword generator otherwise
func NewReplyGenerator(apiKey string, logger *zap.Logger) ReplyGenerator {
	if apiKey != "" {
		return NewOpenAIReplyGenerator(apiKey, logger)
	}
	return NewKeywordReplyGenerator()
}
