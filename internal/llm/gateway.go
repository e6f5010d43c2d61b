package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultModel is used when no model id is configured.
	DefaultModel = "gpt-3.5-turbo"
	// DefaultTemperature is applied by every backend that honors sampling.
	DefaultTemperature = 0.7
	// DefaultChatMaxTokens is the budget for free-form chat prompts.
	DefaultChatMaxTokens = 2000
)

// Gateway sends a prompt to a text-completion backend.
//
// Generate blocks until the backend answers. Failures are returned as *Error
// so callers can branch on the FailureKind; the gateway never retries.
type Gateway interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Config controls gateway construction.
type Config struct {
	Mode        string
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

func NewGateway(cfg Config) (Gateway, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.APIKey) == "" {
			return NewMockGateway(), nil
		}
		return NewOpenAIGateway(cfg), nil
	case "openai":
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, errors.New("openai api key is required for openai mode")
		}
		return NewOpenAIGateway(cfg), nil
	case "mock":
		return NewMockGateway(), nil
	default:
		return nil, fmt.Errorf("unsupported llm gateway mode %q", cfg.Mode)
	}
}

// Name reports a short backend label for logs and health output.
func Name(g Gateway) string {
	switch g.(type) {
	case *OpenAIGateway:
		return "openai"
	case *MockGateway:
		return "mock"
	default:
		return "custom"
	}
}
