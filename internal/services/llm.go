package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ollama/ollama/api"
	"github.com/sashabaranov/go-openai"
	"github.com/yorumdesk/backend/internal/config"
	"github.com/yorumdesk/backend/internal/models"
	"github.com/yorumdesk/backend/pkg/logger"
	"google.golang.org/genai"
	"gorm.io/gorm"
)

// LLMService sends completion requests to the configured model provider.
// Configurations come from the llm_configs table; the default row is tried
// first, then the remaining active rows in id order, then the
// environment-level Anthropic fallback.
type LLMService struct {
	db     *gorm.DB
	config *config.AnthropicConfig
}

func NewLLMService(db *gorm.DB, cfg *config.AnthropicConfig) *LLMService {
	return &LLMService{db: db, config: cfg}
}

// Complete sends the system and user prompts to each candidate provider in
// order and returns the first successful reply.
func (s *LLMService) Complete(ctx context.Context, system, user string) (string, error) {
	configs := s.orderedConfigs()
	if len(configs) == 0 {
		return "", fmt.Errorf("no LLM configuration available")
	}

	var lastErr error
	for i, llmConfig := range configs {
		logger.Infof("[LLM] Attempting provider %d/%d: %s (model: %s)", i+1, len(configs), llmConfig.Name, llmConfig.Model)

		reply, err := s.call(ctx, &llmConfig, system, user)
		if err == nil {
			return reply, nil
		}

		lastErr = err
		logger.Infof("[LLM] Provider %s failed: %v, trying next...", llmConfig.Name, err)
	}

	return "", fmt.Errorf("all LLM providers failed, last error: %w", lastErr)
}

func (s *LLMService) orderedConfigs() []models.LLMConfig {
	var configs []models.LLMConfig

	var defaultConfig models.LLMConfig
	if err := s.db.Where("is_default = ? AND is_active = ?", true, true).First(&defaultConfig).Error; err == nil {
		configs = append(configs, defaultConfig)
	}

	var backupConfigs []models.LLMConfig
	existingIDs := make(map[uint]bool)
	for _, c := range configs {
		existingIDs[c.ID] = true
	}
	s.db.Where("is_active = ?", true).Order("id ASC").Find(&backupConfigs)
	for _, c := range backupConfigs {
		if !existingIDs[c.ID] {
			configs = append(configs, c)
		}
	}

	if len(configs) == 0 && s.config != nil && s.config.APIKey != "" {
		configs = append(configs, models.LLMConfig{
			Name:        "fallback",
			Provider:    "anthropic",
			APIKey:      s.config.APIKey,
			Model:       s.config.Model,
			MaxTokens:   s.config.MaxTokens,
			Temperature: s.config.Temperature,
		})
	}

	return configs
}

// call dispatches to the provider-specific function based on the Provider field.
func (s *LLMService) call(ctx context.Context, llmConfig *models.LLMConfig, system, user string) (string, error) {
	switch llmConfig.Provider {
	case "anthropic":
		return s.callAnthropic(ctx, llmConfig, system, user)
	case "ollama":
		return s.callOllama(ctx, llmConfig, system, user)
	case "gemini":
		return s.callGemini(ctx, llmConfig, system, user)
	case "azure":
		return s.callAzure(ctx, llmConfig, system, user)
	default:
		// openai and OpenAI-compatible services
		return s.callOpenAI(ctx, llmConfig, system, user)
	}
}

func (s *LLMService) callAnthropic(ctx context.Context, llmConfig *models.LLMConfig, system, user string) (string, error) {
	client := anthropic.NewClient(
		option.WithAPIKey(llmConfig.APIKey),
	)

	maxTokens := int64(llmConfig.MaxTokens)
	if maxTokens == 0 {
		maxTokens = 1000
	}

	model := llmConfig.Model
	if model == "" {
		model = "claude-3-5-sonnet-20241022"
	}

	resp, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	return content, nil
}

func (s *LLMService) callOpenAI(ctx context.Context, llmConfig *models.LLMConfig, system, user string) (string, error) {
	clientConfig := openai.DefaultConfig(llmConfig.APIKey)
	if llmConfig.BaseURL != "" {
		clientConfig.BaseURL = llmConfig.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: llmConfig.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: temperatureOrDefault(llmConfig),
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}

// callAzure handles Azure OpenAI. BaseURL is the resource endpoint and the
// Model field carries the deployment name.
func (s *LLMService) callAzure(ctx context.Context, llmConfig *models.LLMConfig, system, user string) (string, error) {
	azureConfig := openai.DefaultAzureConfig(llmConfig.APIKey, llmConfig.BaseURL)
	client := openai.NewClientWithConfig(azureConfig)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: llmConfig.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: temperatureOrDefault(llmConfig),
	})
	if err != nil {
		return "", fmt.Errorf("Azure OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from Azure OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}

func (s *LLMService) callOllama(ctx context.Context, llmConfig *models.LLMConfig, system, user string) (string, error) {
	baseURL := llmConfig.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid Ollama base URL: %w", err)
	}
	client := api.NewClient(u, http.DefaultClient)

	model := llmConfig.Model
	if model == "" {
		model = "llama3"
	}

	var content strings.Builder
	err = client.Chat(ctx, &api.ChatRequest{
		Model: model,
		Messages: []api.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Options: map[string]interface{}{
			"temperature": llmConfig.Temperature,
		},
	}, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("Ollama API error: %w", err)
	}

	return content.String(), nil
}

func (s *LLMService) callGemini(ctx context.Context, llmConfig *models.LLMConfig, system, user string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: llmConfig.APIKey,
	})
	if err != nil {
		return "", fmt.Errorf("Gemini client error: %w", err)
	}

	model := llmConfig.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(user), &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	return resp.Text(), nil
}

func temperatureOrDefault(llmConfig *models.LLMConfig) float32 {
	if llmConfig.Temperature > 0 {
		return float32(llmConfig.Temperature)
	}
	return 0.7
}
