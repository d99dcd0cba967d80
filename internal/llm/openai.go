// Package llm adapts a chat completion provider to a stream of reply fragments.
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"

	"weather-chat/internal/models"
	"weather-chat/internal/stream"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// ErrMissingCredential is returned when no API key was supplied.
var ErrMissingCredential = errors.New("llm: missing credential")

// DefaultModel is used when no model is configured.
const DefaultModel = openai.GPT3Dot5Turbo

// Options configures the OpenAI compatible endpoint.
type Options struct {
	BaseURL string
	Model   string
}

// Client streams chat completions for one caller-supplied credential.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient creates a client for apiKey. The key is passed through untouched.
func NewClient(apiKey string, opts Options) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingCredential
	}
	cfg := openai.DefaultConfig(apiKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{api: openai.NewClientWithConfig(cfg), model: model}, nil
}

// Stream submits the whole transcript in order and returns the reply as a lazy
// sequence of text fragments. There is no timeout beyond ctx.
func (c *Client) Stream(ctx context.Context, transcript []models.ChatMessage) (*stream.Stream[string], error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(transcript))
	for _, m := range transcript {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	ctx, cancel := context.WithCancel(ctx)
	resp, err := c.api.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("llm: failed to open completion stream: %w", err)
	}

	fragmentC := make(chan string)
	errC := make(chan error, 1)

	go func() {
		defer close(fragmentC)
		defer close(errC)
		defer resp.Close()

		for {
			chunk, err := resp.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				log.Debug().Err(err).Str("model", c.model).Msg("completion stream failed")
				errC <- fmt.Errorf("llm: completion stream: %w", err)
				return
			}
			if len(chunk.Choices) == 0 {
				continue
			}
			fragment := chunk.Choices[0].Delta.Content
			if fragment == "" {
				continue
			}
			select {
			case fragmentC <- fragment:
			case <-ctx.Done():
				// cancellation ends the stream with an error, never a clean close
				errC <- fmt.Errorf("llm: completion stream: %w", ctx.Err())
				return
			}
		}
	}()

	return stream.New(fragmentC, errC).WithStop(cancel), nil
}
