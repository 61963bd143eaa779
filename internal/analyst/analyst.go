package analyst

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"wallet-sentry/internal/domain"
	"wallet-sentry/internal/risk"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// LLMClient abstracts the OpenAI chat completions API for testability.
type LLMClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

const maxListEntries = 3

const defaultLLMTimeout = 90 * time.Second

// Analyzer runs the full analysis pipeline: deterministic risk evaluation,
// one LLM attempt for narrative text, and a deterministic fallback when that
// attempt fails in any way. The caller never sees an LLM or parse error.
type Analyzer struct {
	tracer     trace.Tracer
	engine     *risk.Engine
	llm        LLMClient
	model      string
	promptMode PromptMode
	llmTimeout time.Duration
}

func NewAnalyzer(
	tracer trace.Tracer,
	engine *risk.Engine,
	llm LLMClient,
	model string,
	promptMode PromptMode,
	llmTimeout time.Duration,
) *Analyzer {
	if promptMode != PromptModeActivity {
		promptMode = PromptModeRisk
	}
	if llmTimeout <= 0 {
		llmTimeout = defaultLLMTimeout
	}
	return &Analyzer{
		tracer:     tracer,
		engine:     engine,
		llm:        llm,
		model:      model,
		promptMode: promptMode,
		llmTimeout: llmTimeout,
	}
}

// Analyze produces the final analysis for a wallet snapshot. The risk score
// in the result is always the engine's score; the model only ever supplies
// the summary and recommendation text.
func (a *Analyzer) Analyze(ctx context.Context, wallet domain.WalletSnapshot) domain.AnalysisResult {
	ctx, span := a.tracer.Start(ctx, "analyst.analyze")
	defer span.End()
	span.SetAttributes(attribute.String("wallet.address", wallet.WalletAddress))

	analysis := a.engine.Evaluate(wallet)
	span.SetAttributes(attribute.Int("risk.score", analysis.TotalScore))

	summary, recommendations := a.generateContent(ctx, wallet, analysis)

	warnings := analysis.Warnings
	if len(warnings) > maxListEntries {
		warnings = warnings[:maxListEntries]
	}
	if warnings == nil {
		warnings = []string{}
	}
	if recommendations == nil {
		recommendations = []string{}
	}

	return domain.AnalysisResult{
		Summary:         summary,
		RiskScore:       domain.ClampScore(analysis.TotalScore),
		Warnings:        warnings,
		Recommendations: recommendations,
	}
}

// modelContent is the shape the model is instructed to return. RiskScore is
// only populated in activity mode and is never treated as authoritative.
type modelContent struct {
	Summary         string   `json:"summary"`
	RiskScore       int      `json:"riskScore"`
	Recommendations []string `json:"recommendations"`
}

func (a *Analyzer) generateContent(
	ctx context.Context,
	wallet domain.WalletSnapshot,
	analysis domain.RiskAnalysis,
) (string, []string) {
	if a.llm == nil {
		return FallbackSummary(wallet, analysis), FallbackRecommendations(analysis)
	}

	content, ok := a.callModel(ctx, wallet, analysis)
	if !ok {
		return FallbackSummary(wallet, analysis), FallbackRecommendations(analysis)
	}

	summary := strings.TrimSpace(content.Summary)
	if summary == "" {
		summary = FallbackSummary(wallet, analysis)
	}

	recommendations := content.Recommendations
	if len(recommendations) == 0 {
		recommendations = FallbackRecommendations(analysis)
	}
	if len(recommendations) > maxListEntries {
		recommendations = recommendations[:maxListEntries]
	}

	return summary, recommendations
}

// callModel makes the single LLM attempt. A false return means any failure
// along the way (call, empty reply, parse); no retries are made.
func (a *Analyzer) callModel(
	ctx context.Context,
	wallet domain.WalletSnapshot,
	analysis domain.RiskAnalysis,
) (modelContent, bool) {
	ctx, span := a.tracer.Start(ctx, "analyst.llm-call")
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", a.model))

	ctx, cancel := context.WithTimeout(ctx, a.llmTimeout)
	defer cancel()

	var prompt string
	if a.promptMode == PromptModeActivity {
		prompt = BuildTransactionStatsPrompt(wallet)
	} else {
		prompt = BuildPrompt(wallet, analysis)
	}

	completion, err := a.llm.CreateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemInstruction),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		span.RecordError(err)
		log.Printf("llm call failed for %s, using fallback: %v", wallet.WalletAddress, err)
		return modelContent{}, false
	}
	if len(completion.Choices) == 0 {
		log.Printf("llm returned no choices for %s, using fallback", wallet.WalletAddress)
		return modelContent{}, false
	}

	raw := completion.Choices[0].Message.Content
	if strings.TrimSpace(raw) == "" {
		log.Printf("llm returned empty content for %s, using fallback", wallet.WalletAddress)
		return modelContent{}, false
	}

	cleaned, err := CleanJSONResponse(raw)
	if err != nil {
		span.RecordError(err)
		log.Printf("llm reply not recoverable for %s, using fallback: %v", wallet.WalletAddress, err)
		return modelContent{}, false
	}

	var content modelContent
	if err := json.Unmarshal([]byte(cleaned), &content); err != nil {
		span.RecordError(err)
		log.Printf("llm reply failed to decode for %s, using fallback: %v", wallet.WalletAddress, err)
		return modelContent{}, false
	}

	// The model's score is clamped for the span but never used in the result.
	span.SetAttributes(attribute.Int("llm.proposed_score", domain.ClampScore(content.RiskScore)))

	return content, true
}

// openaiClient wraps the official SDK's chat completions service.
type openaiClient struct {
	client openai.Client
}

// NewOpenAIClient returns nil when no API key is configured, which disables
// the LLM path and leaves every analysis on the deterministic fallback.
func NewOpenAIClient(apiKey string) LLMClient {
	if strings.TrimSpace(apiKey) == "" {
		return nil
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &openaiClient{client: client}
}

func (c *openaiClient) CreateChatCompletion(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
