package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
)

const (
	// GenerationModel is the chat model behind answer generation.
	GenerationModel = openai.ChatModelGPT4oMini

	// answerTemperature keeps sampling enabled but nearly deterministic.
	answerTemperature = 0.1

	// maxAnswerTokens bounds the generated answer length.
	maxAnswerTokens = 200
)

// promptTemplate frames the model as a grounded analyst assistant. The
// refusal instruction is the only hallucination guard; compliance is
// best-effort, so callers matching refusals must accept paraphrases.
const promptTemplate = `You are a financial analyst assistant for CrediTrust. Use the following context to answer the question.
If the context does not contain the answer, say "I don't have enough information." and do not make up facts.

Context:
%s

Question: %s

Answer:`

// Generator produces answers with a single blocking chat completion per
// request. No retries, no streaming.
type Generator struct {
	client *openai.Client
}

// NewGenerator creates a Generator using the given OpenAI client.
func NewGenerator(client *openai.Client) *Generator {
	return &Generator{client: client}
}

// Generate fills the instruction template with the context block and
// question, invokes the model, and returns the whitespace-trimmed output.
func (g *Generator) Generate(ctx context.Context, contextBlock, question string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(buildPrompt(contextBlock, question)),
		},
		Model:               GenerationModel,
		Temperature:         openai.Float(answerTemperature),
		MaxCompletionTokens: openai.Int(maxAnswerTokens),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func buildPrompt(contextBlock, question string) string {
	return fmt.Sprintf(promptTemplate, contextBlock, question)
}
