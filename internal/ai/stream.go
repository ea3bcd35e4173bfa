// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package ai

import (
	"context"
	"strings"

	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/petar-djukic/commitloom/internal/analyzer"
	"github.com/petar-djukic/commitloom/pkg/types"
)

// EventStream abstracts the Bedrock ConverseStream event stream for testing.
type EventStream interface {
	Events() <-chan brtypes.ConverseStreamOutput
	Close() error
	Err() error
}

// streamResult accumulates one streamed response.
type streamResult struct {
	text         string
	inputTokens  int
	outputTokens int
}

// usage converts the raw token counts into a priced TokenUsage.
func (r *streamResult) usage(costModel string) types.TokenUsage {
	price := analyzer.PriceFor(costModel)
	return types.TokenUsage{
		InputTokens:  r.inputTokens,
		OutputTokens: r.outputTokens,
		InputCost:    float64(r.inputTokens) / 1_000_000 * price.Input,
		OutputCost:   float64(r.outputTokens) / 1_000_000 * price.Output,
	}
}

// consumeStream drains a Bedrock ConverseStream, accumulating the response
// text and the token usage reported in the trailing metadata event.
func consumeStream(ctx context.Context, stream EventStream) *streamResult {
	var text strings.Builder
	result := &streamResult{}

	events := stream.Events()
	for {
		select {
		case <-ctx.Done():
			// Context cancelled; return what we have so far.
			stream.Close()
			result.text = text.String()
			return result

		case event, ok := <-events:
			if !ok {
				result.text = text.String()
				return result
			}

			switch v := event.(type) {
			case *brtypes.ConverseStreamOutputMemberContentBlockDelta:
				if delta, ok := v.Value.Delta.(*brtypes.ContentBlockDeltaMemberText); ok {
					text.WriteString(delta.Value)
				}

			case *brtypes.ConverseStreamOutputMemberMetadata:
				if v.Value.Usage != nil {
					if v.Value.Usage.InputTokens != nil {
						result.inputTokens = int(*v.Value.Usage.InputTokens)
					}
					if v.Value.Usage.OutputTokens != nil {
						result.outputTokens = int(*v.Value.Usage.OutputTokens)
					}
				}
			}
		}
	}
}
