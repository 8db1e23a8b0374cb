// Package classifier implements the language-model classification engine.
// It sends the tenant's emergency prompt and a normalized resident request
// to a chat-completion model and returns the raw label. Provider rate limits
// are retried with a fixed wait up to a bounded number of attempts; any other
// provider failure propagates immediately.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// Engine classifies a normalized resident request against a tenant prompt.
type Engine interface {
	Classify(ctx context.Context, prompt, client, query string) (string, error)
}

type completionFunc func(ctx context.Context, prompt, query string) (string, error)

type engine struct {
	cfg      *Config
	complete completionFunc
	logger   *slog.Logger
}

// New creates a chat-completion backed Engine.
func New(cfg *Config, logger *slog.Logger) Engine {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	api := openai.NewClient(opts...)

	return newEngine(cfg, func(ctx context.Context, prompt, query string) (string, error) {
		params := openai.ChatCompletionNewParams{
			Model: openai.ChatModel(cfg.Model),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(prompt),
				openai.UserMessage(query),
			},
		}
		if cfg.Temperature != 0 {
			params.Temperature = openai.Float(cfg.Temperature)
		}

		resp, err := api.Chat.Completions.New(ctx, params)
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("empty completion response")
		}
		return resp.Choices[0].Message.Content, nil
	}, logger)
}

func newEngine(cfg *Config, complete completionFunc, logger *slog.Logger) Engine {
	return &engine{
		cfg:      cfg,
		complete: complete,
		logger:   logger.With("system", "classifier"),
	}
}

func (e *engine) Classify(ctx context.Context, prompt, client, query string) (string, error) {
	wait := e.cfg.RetryWaitDuration()

	for attempt := 1; ; attempt++ {
		label, err := e.complete(ctx, prompt, query)
		if err == nil {
			return strings.TrimSpace(label), nil
		}

		if !isRateLimited(err) {
			return "", fmt.Errorf("classify request: %w", err)
		}
		if attempt >= e.cfg.MaxAttempts {
			return "", fmt.Errorf("rate limit retries exhausted after %d attempts: %w", attempt, err)
		}

		e.logger.Info(
			"provider rate limited, waiting before retry",
			"client", client,
			"attempt", attempt,
			"wait", wait,
		)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(wait):
		}
	}
}

func isRateLimited(err error) bool {
	var apierr *openai.Error
	return errors.As(err, &apierr) && apierr.StatusCode == http.StatusTooManyRequests
}
