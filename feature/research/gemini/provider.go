package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"offer-reconciler/core/reconcile"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// generator is the subset of genai.Models used by the provider.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Provider researches casino offers with a Gemini model.
type Provider struct {
	models  generator
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

var _ reconcile.Researcher = (*Provider)(nil)

// New creates a provider backed by the Gemini API.
func New(ctx context.Context, apiKey, model string, timeout time.Duration, logger *zap.Logger) (*Provider, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is not configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return newProvider(client.Models, model, timeout, logger), nil
}

func newProvider(models generator, model string, timeout time.Duration, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{models: models, model: model, timeout: timeout, logger: logger}
}

// Research implements reconcile.Researcher with a single model call per batch.
func (p *Provider) Research(ctx context.Context, targets []reconcile.ResearchTarget) (*reconcile.ResearchResponse, error) {
	if len(targets) == 0 {
		return &reconcile.ResearchResponse{Results: []reconcile.ResearchResult{}}, nil
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	prompt, err := buildPrompt(targets)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	resp, err := p.models.GenerateContent(ctx, p.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr[float32](0.2),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, errors.New("gemini returned an empty response")
	}

	results, dropped, err := parseResults(text)
	if err != nil {
		return nil, err
	}
	for _, d := range dropped {
		p.logger.Warn("Dropped invalid offer", zap.String("casino_name", d.casino), zap.String("offer_name", d.offer), zap.Any("fields", d.fields))
	}

	usage := usageOf(resp)
	fields := []zap.Field{
		zap.String("model", p.model),
		zap.Int("targets", len(targets)),
		zap.Int("results", len(results)),
		zap.Int("dropped", len(dropped)),
		zap.Duration("duration", time.Since(started)),
	}
	if usage != nil {
		fields = append(fields, zap.Int("total_tokens", usage.TotalTokens))
	}
	p.logger.Info("Gemini research completed", fields...)

	return &reconcile.ResearchResponse{Results: results, Usage: usage}, nil
}

func usageOf(resp *genai.GenerateContentResponse) *reconcile.Usage {
	if resp.UsageMetadata == nil {
		return nil
	}
	return &reconcile.Usage{
		PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
		CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
	}
}
