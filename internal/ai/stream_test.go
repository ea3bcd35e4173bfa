// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package ai

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
)

// mockEventStream implements EventStream for testing.
type mockEventStream struct {
	ch  chan brtypes.ConverseStreamOutput
	err error
}

func (m *mockEventStream) Events() <-chan brtypes.ConverseStreamOutput {
	return m.ch
}

func (m *mockEventStream) Close() error {
	return nil
}

func (m *mockEventStream) Err() error {
	return m.err
}

func deltaEvent(text string) brtypes.ConverseStreamOutput {
	return &brtypes.ConverseStreamOutputMemberContentBlockDelta{
		Value: brtypes.ContentBlockDeltaEvent{
			ContentBlockIndex: aws.Int32(0),
			Delta:             &brtypes.ContentBlockDeltaMemberText{Value: text},
		},
	}
}

func metadataEvent(inputTokens, outputTokens int32) brtypes.ConverseStreamOutput {
	return &brtypes.ConverseStreamOutputMemberMetadata{
		Value: brtypes.ConverseStreamMetadataEvent{
			Usage: &brtypes.TokenUsage{
				InputTokens:  aws.Int32(inputTokens),
				OutputTokens: aws.Int32(outputTokens),
				TotalTokens:  aws.Int32(inputTokens + outputTokens),
			},
		},
	}
}

func TestConsumeStream_AccumulatesText(t *testing.T) {
	tokens := []string{"{\"title\"", ": ", "\"✨ feat: add\"", "}"}
	ch := make(chan brtypes.ConverseStreamOutput, len(tokens))
	for _, token := range tokens {
		ch <- deltaEvent(token)
	}
	close(ch)

	result := consumeStream(context.Background(), &mockEventStream{ch: ch})

	assert.Equal(t, "{\"title\": \"✨ feat: add\"}", result.text)
}

func TestConsumeStream_TokenUsageFromMetadata(t *testing.T) {
	ch := make(chan brtypes.ConverseStreamOutput, 2)
	ch <- deltaEvent("hello")
	ch <- metadataEvent(150, 42)
	close(ch)

	result := consumeStream(context.Background(), &mockEventStream{ch: ch})

	assert.Equal(t, 150, result.inputTokens)
	assert.Equal(t, 42, result.outputTokens)
}

func TestConsumeStream_ContextCancellation(t *testing.T) {
	ch := make(chan brtypes.ConverseStreamOutput, 2)
	ch <- deltaEvent("partial")
	// Channel stays open; cancellation ends the drain.

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan *streamResult, 1)
	go func() {
		done <- consumeStream(ctx, &mockEventStream{ch: ch})
	}()

	cancel()
	result := <-done

	assert.NotNil(t, result)
}

func TestStreamResult_Usage_PricesTokens(t *testing.T) {
	result := &streamResult{inputTokens: 1_000_000, outputTokens: 1_000_000}

	usage := result.usage("gpt-4o-mini")

	assert.InDelta(t, 0.15, usage.InputCost, 1e-9)
	assert.InDelta(t, 0.60, usage.OutputCost, 1e-9)
	assert.Equal(t, 2_000_000, usage.TotalTokens())
}
