package textgen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/webclient"
)

const (
	secondsPerMinute          = 60.0
	tooManyRequestsStatusText = "429"
	tooManyRequestsPhrase     = "too many requests"
	emptyResponseMessage      = "no text generated"
	completionErrorTemplate   = "chat completion failed: %w"
	retryLogMessage           = "Text generation rate limited; retrying"
	attemptFieldConstant      = "attempt"
	delayFieldConstant        = "delay"
)

var errEmptyResponse = errors.New(emptyResponseMessage)

// reasoningModelPrefixes use max_completion_tokens and a fixed temperature.
var reasoningModelPrefixes = []string{"o1", "o3", "o4", "gpt-5"}

// ChatCompleter is the subset of the OpenAI client used here.
type ChatCompleter interface {
	CreateChatCompletion(executionContext context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// PageFetcher retrieves the page whose text is reviewed.
type PageFetcher interface {
	Fetch(executionContext context.Context, targetURL string, timeout time.Duration) (webclient.Page, error)
}

// Client issues rate-limited chat completions.
type Client struct {
	completer     ChatCompleter
	fetcher       PageFetcher
	limiter       *rate.Limiter
	configuration Configuration
	logger        *zap.Logger
}

// NewClient validates credentials and builds an OpenAI-compatible client.
func NewClient(configuration Configuration, fetcher PageFetcher, logger *zap.Logger) (*Client, error) {
	sanitized := configuration.Sanitize()
	if validationError := sanitized.Validate(); validationError != nil {
		return nil, validationError
	}

	clientConfiguration := openai.DefaultConfig(sanitized.APIKey)
	if len(sanitized.BaseURL) > 0 {
		clientConfiguration.BaseURL = sanitized.BaseURL
	}
	clientConfiguration.HTTPClient = &http.Client{Timeout: sanitized.RequestTimeout}

	return NewClientWithCompleter(openai.NewClientWithConfig(clientConfiguration), sanitized, fetcher, logger), nil
}

// NewClientWithCompleter builds a Client around an existing completer.
func NewClientWithCompleter(completer ChatCompleter, configuration Configuration, fetcher PageFetcher, logger *zap.Logger) *Client {
	sanitized := configuration.Sanitize()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		completer:     completer,
		fetcher:       fetcher,
		limiter:       rate.NewLimiter(rate.Limit(sanitized.RequestsPerMinute/secondsPerMinute), sanitized.Burst),
		configuration: sanitized,
		logger:        logger,
	}
}

type completionRequest struct {
	systemPrompt string
	userPrompt   string
	maxTokens    int
	jsonOutput   bool
}

// complete sends one prompt, retrying on 429 with delays of base, 2×base, 4×base.
func (client *Client) complete(executionContext context.Context, request completionRequest) (string, error) {
	chatRequest := client.buildRequest(request)

	var lastError error
	for attempt := 0; attempt <= client.configuration.MaxRetries; attempt++ {
		if waitError := client.limiter.Wait(executionContext); waitError != nil {
			return "", waitError
		}

		response, completionError := client.completer.CreateChatCompletion(executionContext, chatRequest)
		if completionError != nil {
			lastError = fmt.Errorf(completionErrorTemplate, completionError)
			if isRateLimited(completionError) && attempt < client.configuration.MaxRetries {
				delay := client.configuration.RetryBaseDelay * time.Duration(1<<attempt)
				client.logger.Warn(retryLogMessage, zap.Int(attemptFieldConstant, attempt+1), zap.Duration(delayFieldConstant, delay))
				if sleepError := sleepWithContext(executionContext, delay); sleepError != nil {
					return "", sleepError
				}
				continue
			}
			return "", lastError
		}

		if len(response.Choices) == 0 {
			return "", errEmptyResponse
		}
		content := strings.TrimSpace(response.Choices[0].Message.Content)
		if len(content) == 0 {
			return "", errEmptyResponse
		}
		return content, nil
	}
	return "", lastError
}

func (client *Client) buildRequest(request completionRequest) openai.ChatCompletionRequest {
	model := client.configuration.Model
	chatRequest := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: request.systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: request.userPrompt},
		},
	}
	if request.jsonOutput {
		chatRequest.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}
	if isReasoningModel(model) {
		chatRequest.MaxCompletionTokens = request.maxTokens
	} else {
		chatRequest.MaxTokens = request.maxTokens
		chatRequest.Temperature = client.configuration.Temperature
	}
	return chatRequest
}

func isReasoningModel(model string) bool {
	for _, prefix := range reasoningModelPrefixes {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}

func isRateLimited(err error) bool {
	var apiError *openai.APIError
	if errors.As(err, &apiError) && apiError.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	var requestError *openai.RequestError
	if errors.As(err, &requestError) && requestError.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	message := err.Error()
	return strings.Contains(message, tooManyRequestsStatusText) || strings.Contains(strings.ToLower(message), tooManyRequestsPhrase)
}

func sleepWithContext(executionContext context.Context, duration time.Duration) error {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-executionContext.Done():
		return executionContext.Err()
	case <-timer.C:
		return nil
	}
}
