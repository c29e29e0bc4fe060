package ai

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	gemini "github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"
)

// Sentinel errors the retry layer branches on. Everything else from the
// backend counts as a transport failure.
var (
	ErrQuotaExhausted = errors.New("ai: quota exhausted")
	ErrEmptyResponse  = errors.New("ai: empty response")
)

// Config holds the Gemini connection settings.
type Config struct {
	APIKey string
	Model  string
}

// TokenUsage reports token counts for one generation.
type TokenUsage struct {
	InputTokens  int32 `json:"input_tokens"`
	OutputTokens int32 `json:"output_tokens"`
	TotalTokens  int32 `json:"total_tokens"`
}

// Service is the AI backend: an Eino chat model over Gemini, plus the raw
// genai client for accurate token accounting.
type Service struct {
	config       Config
	chatModel    model.BaseChatModel
	geminiClient *genai.Client
}

// NewService builds the Gemini-backed service. Fails fast on a bad key or
// model so configuration errors surface before any batch starts.
func NewService(cfg Config) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	chatModel, err := gemini.NewChatModel(context.Background(), &gemini.Config{
		Client: client,
		Model:  cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini chat model: %w", err)
	}

	return &Service{
		config:       cfg,
		chatModel:    chatModel,
		geminiClient: client,
	}, nil
}

// NewServiceWithModel wires a pre-built chat model. Token accounting falls
// back to estimation without a genai client.
func NewServiceWithModel(cfg Config, chatModel model.BaseChatModel) *Service {
	return &Service{config: cfg, chatModel: chatModel}
}

// Model returns the configured model name.
func (s *Service) Model() string { return s.config.Model }

// GenerateMessages runs one generation over formatted chat messages and
// returns the raw response text.
func (s *Service) GenerateMessages(ctx context.Context, messages []*schema.Message) (string, error) {
	if s.chatModel == nil {
		return "", fmt.Errorf("chat model not initialized")
	}
	response, err := s.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", classifyError(err)
	}
	if response == nil || strings.TrimSpace(response.Content) == "" {
		return "", ErrEmptyResponse
	}
	return response.Content, nil
}

// GenerateWithUsage calls the Gemini API directly so UsageMetadata carries
// real token counts instead of estimates.
func (s *Service) GenerateWithUsage(ctx context.Context, messages []*schema.Message) (string, *TokenUsage, error) {
	if s.geminiClient == nil {
		return "", nil, fmt.Errorf("gemini client not initialized")
	}

	var contents []*genai.Content
	for _, msg := range messages {
		contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
	}

	response, err := s.geminiClient.Models.GenerateContent(ctx, s.config.Model, contents, nil)
	if err != nil {
		return "", nil, classifyError(err)
	}

	usage := &TokenUsage{}
	if response.UsageMetadata != nil {
		usage.InputTokens = response.UsageMetadata.PromptTokenCount
		usage.OutputTokens = response.UsageMetadata.CandidatesTokenCount
		usage.TotalTokens = response.UsageMetadata.TotalTokenCount
	}

	text := ""
	if len(response.Candidates) > 0 && response.Candidates[0].Content != nil && len(response.Candidates[0].Content.Parts) > 0 {
		text = response.Candidates[0].Content.Parts[0].Text
	}
	if strings.TrimSpace(text) == "" {
		return "", usage, ErrEmptyResponse
	}

	if usage.TotalTokens == 0 {
		usage.InputTokens = estimateTokens(messagesToText(messages))
		usage.OutputTokens = estimateTokens(text)
		usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	}
	return text, usage, nil
}

// CountTokensInText estimates tokens at the documented ~4 chars/token ratio.
func (s *Service) CountTokensInText(text string) int32 {
	return estimateTokens(text)
}

func estimateTokens(text string) int32 {
	return int32(len(text) / 4)
}

func messagesToText(messages []*schema.Message) string {
	var text strings.Builder
	for _, msg := range messages {
		text.WriteString(msg.Content)
		text.WriteString("\n")
	}
	return text.String()
}

// classifyError maps provider failures onto the sentinel taxonomy. The
// Gemini SDK does not export stable error types, so this matches on the
// message the same way retryable scrape errors are detected.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	quotaMarkers := []string{
		"429",
		"resource_exhausted",
		"resource exhausted",
		"quota",
		"rate limit",
		"too many requests",
	}
	for _, marker := range quotaMarkers {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %v", ErrQuotaExhausted, err)
		}
	}
	return err
}

var retryAfterPattern = regexp.MustCompile(`retry in ([0-9.]+)\s*s`)

// RetryAfterHint extracts the provider-suggested retry delay from a quota
// error message ("Please retry in 26.37s"). Zero when no hint is present.
func RetryAfterHint(err error) time.Duration {
	if err == nil {
		return 0
	}
	m := retryAfterPattern.FindStringSubmatch(strings.ToLower(err.Error()))
	if len(m) != 2 {
		return 0
	}
	secs, perr := strconv.ParseFloat(m[1], 64)
	if perr != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}
