// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ai is the message-generation collaborator: it prompts an LLM with
// a staged diff and file list and parses the structured commit suggestion
// the model returns.
package ai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/petar-djukic/commitloom/internal/analyzer"
	"github.com/petar-djukic/commitloom/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultMaxTokens = 1000
	maxRetryAttempts = 3
	baseRetryDelay   = 1 * time.Second
)

// ErrAIFailure indicates the LLM call failed (network, auth, rate limit).
var ErrAIFailure = errors.New("AI failure")

// ClientConfig configures the Bedrock client.
type ClientConfig struct {
	ModelID   string        // Bedrock model ID (required)
	Region    string        // AWS region (required)
	Profile   string        // AWS credential profile (optional)
	Timeout   time.Duration // Request timeout (default 60s)
	MaxTokens int           // Max tokens for the response (default 1000)
	CostModel string        // Pricing model name for usage accounting
}

// BedrockAPI abstracts the Bedrock ConverseStream call for testing.
type BedrockAPI interface {
	ConverseStream(ctx context.Context, params *bedrockruntime.ConverseStreamInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseStreamOutput, error)
}

// Client generates commit suggestions through AWS Bedrock.
type Client struct {
	api       BedrockAPI
	modelID   string
	timeout   time.Duration
	maxTokens int
	costModel string
	usage     types.TokenUsage // Cumulative usage across calls
}

// NewClient creates a Bedrock client from the given configuration using the
// standard AWS credential chain.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	if cfg.ModelID == "" {
		return nil, fmt.Errorf("%w: model ID is required", ErrAIFailure)
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("%w: region is required", ErrAIFailure)
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: loading AWS config: %v", ErrAIFailure, err)
	}

	return newClient(bedrockruntime.NewFromConfig(awsCfg), cfg), nil
}

// NewClientWithAPI creates a client with a pre-configured API
// implementation. Used for testing with mock clients.
func NewClientWithAPI(api BedrockAPI, cfg ClientConfig) *Client {
	return newClient(api, cfg)
}

func newClient(api BedrockAPI, cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	costModel := cfg.CostModel
	if costModel == "" {
		costModel = analyzer.DefaultModel
	}
	return &Client{
		api:       api,
		modelID:   cfg.ModelID,
		timeout:   timeout,
		maxTokens: maxTokens,
		costModel: costModel,
	}
}

// GenerateSuggestion prompts the model with the diff and file list and
// returns the parsed commit suggestion plus token usage for the call.
func (c *Client) GenerateSuggestion(ctx context.Context, diff string, files []types.GitFile) (*types.CommitSuggestion, types.TokenUsage, error) {
	prompt, err := RenderPrompt(diff, files)
	if err != nil {
		return nil, types.TokenUsage{}, fmt.Errorf("%w: rendering prompt: %v", ErrAIFailure, err)
	}

	result, err := c.sendWithRetry(ctx, prompt)
	if err != nil {
		return nil, types.TokenUsage{}, err
	}

	return c.finishGeneration(result)
}

// finishGeneration prices and records the call's usage, then parses the
// streamed text. Usage counts even when parsing fails; the tokens were
// consumed either way.
func (c *Client) finishGeneration(result *streamResult) (*types.CommitSuggestion, types.TokenUsage, error) {
	usage := result.usage(c.costModel)
	c.usage.Add(usage)

	suggestion, err := ParseSuggestion(result.text)
	if err != nil {
		return nil, usage, err
	}
	return suggestion, usage, nil
}

// CumulativeUsage returns the total token usage across all calls.
func (c *Client) CumulativeUsage() types.TokenUsage {
	return c.usage
}

// sendWithRetry calls ConverseStream with exponential backoff on throttling.
func (c *Client) sendWithRetry(ctx context.Context, prompt string) (*streamResult, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetryAttempts; attempt++ {
		if attempt > 0 {
			delay := baseRetryDelay * time.Duration(math.Pow(2, float64(attempt-1)))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: context cancelled during retry: %v", ErrAIFailure, ctx.Err())
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)

		input := &bedrockruntime.ConverseStreamInput{
			ModelId: aws.String(c.modelID),
			Messages: []brtypes.Message{{
				Role: brtypes.ConversationRoleUser,
				Content: []brtypes.ContentBlock{
					&brtypes.ContentBlockMemberText{Value: prompt},
				},
			}},
			InferenceConfig: &brtypes.InferenceConfiguration{
				MaxTokens: aws.Int32(int32(c.maxTokens)),
			},
		}

		output, err := c.api.ConverseStream(callCtx, input)
		if err != nil {
			cancel()

			var throttle *brtypes.ThrottlingException
			if errors.As(err, &throttle) {
				lastErr = err
				continue
			}

			return nil, c.classifyError(err)
		}

		result := consumeStream(callCtx, output.GetStream())
		cancel()
		return result, nil
	}

	return nil, fmt.Errorf("%w: rate limited after %d retries: %v", ErrAIFailure, maxRetryAttempts, lastErr)
}

// classifyError wraps Bedrock errors into ErrAIFailure with descriptive
// messages.
func (c *Client) classifyError(err error) error {
	var accessDenied *brtypes.AccessDeniedException
	if errors.As(err, &accessDenied) {
		return fmt.Errorf("%w: credential or permission issue: %v", ErrAIFailure, err)
	}

	var notFound *brtypes.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: model not found: %s", ErrAIFailure, c.modelID)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: request timed out after %s", ErrAIFailure, c.timeout)
	}

	return fmt.Errorf("%w: %v", ErrAIFailure, err)
}
