package reconcile

import (
	"context"

	"offer-reconciler/core/models"
)

// ResearchTarget is what the research provider is told about a casino.
type ResearchTarget struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Website string `json:"website,omitempty"`
}

// ResearchResult carries the offers found for one casino. The provider may
// identify the casino by ID, by name, or both.
type ResearchResult struct {
	CasinoID   string               `json:"casino_id,omitempty"`
	CasinoName string               `json:"casino_name"`
	Offers     []models.OfferFields `json:"offers"`
}

// Usage is token metering reported by the provider. It is forwarded untouched.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ResearchResponse is the whole-batch answer of a provider.
type ResearchResponse struct {
	Results []ResearchResult `json:"results"`
	Usage   *Usage           `json:"usage,omitempty"`
}

// Researcher is the external research provider. It is called once per batch;
// a returned error fails the whole batch.
type Researcher interface {
	Research(ctx context.Context, targets []ResearchTarget) (*ResearchResponse, error)
}

// ResearchFunc adapts a plain function to the Researcher interface.
type ResearchFunc func(ctx context.Context, targets []ResearchTarget) (*ResearchResponse, error)

// Research calls f(ctx, targets).
func (f ResearchFunc) Research(ctx context.Context, targets []ResearchTarget) (*ResearchResponse, error) {
	return f(ctx, targets)
}

// AuditSink receives the outcome of every research and discovery run.
type AuditSink interface {
	RecordResearch(ctx context.Context, record ResearchRecord)
	RecordDiscovery(ctx context.Context, record DiscoveryRecord)
}

// NopAuditSink discards every record.
type NopAuditSink struct{}

// RecordResearch does nothing.
func (NopAuditSink) RecordResearch(context.Context, ResearchRecord) {}

// RecordDiscovery does nothing.
func (NopAuditSink) RecordDiscovery(context.Context, DiscoveryRecord) {}
