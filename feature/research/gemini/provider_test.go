package gemini

import (
	"context"
	"strings"
	"testing"
	"time"

	"offer-reconciler/core/reconcile"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	answer string
	usage  *genai.GenerateContentResponseUsageMetadata
	err    error

	calls    int
	model    string
	prompt   string
	config   *genai.GenerateContentConfig
	deadline bool
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = model
	f.config = config
	_, f.deadline = ctx.Deadline()
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates:    []*genai.Candidate{{Content: genai.NewContentFromText(f.answer, genai.RoleModel)}},
		UsageMetadata: f.usage,
	}, nil
}

var targets = []reconcile.ResearchTarget{
	{ID: "c1", Name: "BetMGM", Website: "https://casino.betmgm.com"},
	{ID: "c2", Name: "Golden Nugget"},
}

func TestResearch(t *testing.T) {
	ctx := context.Background()

	t.Run("Parses Answer", func(t *testing.T) {
		gen := &fakeGenerator{
			answer: `{"casinos":[
				{"casino_id":"c1","casino_name":"BetMGM","offers":[
					{"offer_name":"Welcome Bonus","offer_type":"Deposit_Match","expected_deposit":1000,"expected_bonus":"$1,000","valid_until":"2024-12-31T23:59:59Z","min_deposit":"10"},
					{"offer_name":"","offer_type":"free_spins"}
				]},
				{"casino_name":"Golden Nugget","offers":[]}
			]}`,
			usage: &genai.GenerateContentResponseUsageMetadata{PromptTokenCount: 120, CandidatesTokenCount: 80, TotalTokenCount: 200},
		}
		core, logs := observer.New(zapcore.WarnLevel)
		p := newProvider(gen, "gemini-2.5-flash", time.Minute, zap.New(core))

		resp, err := p.Research(ctx, targets)
		require.NoError(t, err)

		assert.Equal(t, 1, gen.calls)
		assert.Equal(t, "gemini-2.5-flash", gen.model)
		assert.True(t, gen.deadline)
		assert.Equal(t, "application/json", gen.config.ResponseMIMEType)
		assert.Contains(t, gen.prompt, `"id": "c1"`)
		assert.Contains(t, gen.prompt, "Golden Nugget")

		require.Len(t, resp.Results, 2)
		first := resp.Results[0]
		assert.Equal(t, "c1", first.CasinoID)
		require.Len(t, first.Offers, 1)
		offer := first.Offers[0]
		assert.Equal(t, "deposit_match", offer.OfferType)
		assert.True(t, offer.ExpectedBonus.Decimal.Equal(decimal.NewFromInt(1000)))
		assert.True(t, offer.ExpectedDeposit.Decimal.Equal(decimal.NewFromInt(1000)))
		assert.True(t, offer.MinDeposit.Decimal.Equal(decimal.NewFromInt(10)))
		assert.False(t, offer.MaxBonus.Valid)
		assert.Equal(t, "2024-12-31", offer.ValidUntil)

		assert.Equal(t, "Golden Nugget", resp.Results[1].CasinoName)
		assert.Empty(t, resp.Results[1].Offers)

		require.NotNil(t, resp.Usage)
		assert.Equal(t, reconcile.Usage{PromptTokens: 120, CompletionTokens: 80, TotalTokens: 200}, *resp.Usage)

		require.Equal(t, 1, logs.FilterMessage("Dropped invalid offer").Len())
	})

	t.Run("No Targets", func(t *testing.T) {
		gen := &fakeGenerator{}
		resp, err := newProvider(gen, "m", 0, nil).Research(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, resp.Results)
		assert.Zero(t, gen.calls)
	})

	t.Run("Request Failure", func(t *testing.T) {
		gen := &fakeGenerator{err: assert.AnError}
		_, err := newProvider(gen, "m", 0, nil).Research(ctx, targets)
		assert.ErrorIs(t, err, assert.AnError)
		assert.False(t, gen.deadline)
	})

	t.Run("Empty Answer", func(t *testing.T) {
		_, err := newProvider(&fakeGenerator{}, "m", 0, nil).Research(ctx, targets)
		assert.ErrorContains(t, err, "empty response")
	})

	t.Run("Malformed Answer", func(t *testing.T) {
		_, err := newProvider(&fakeGenerator{answer: "I could not find anything."}, "m", 0, nil).Research(ctx, targets)
		assert.ErrorContains(t, err, "failed to decode")
	})

	t.Run("No Usage", func(t *testing.T) {
		resp, err := newProvider(&fakeGenerator{answer: `{"casinos":[]}`}, "m", 0, nil).Research(ctx, targets)
		require.NoError(t, err)
		assert.Nil(t, resp.Usage)
	})
}

func TestNew(t *testing.T) {
	_, err := New(context.Background(), "", "m", 0, nil)
	assert.ErrorContains(t, err, "api key")
}

func TestParseResults(t *testing.T) {
	t.Run("Fenced Array", func(t *testing.T) {
		text := "```json\n[{\"casino_name\":\"BetMGM\",\"offers\":[{\"offer_name\":\"Refer A Friend\",\"expected_bonus\":\"up to $50\"}]}]\n```"
		results, dropped, err := parseResults(text)
		require.NoError(t, err)
		assert.Empty(t, dropped)
		require.Len(t, results, 1)
		assert.True(t, results[0].Offers[0].ExpectedBonus.Decimal.Equal(decimal.NewFromInt(50)))
	})

	t.Run("Skips Anonymous Casinos", func(t *testing.T) {
		results, _, err := parseResults(`{"casinos":[{"offers":[{"offer_name":"x"}]}]}`)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("Numeric Casino ID", func(t *testing.T) {
		results, _, err := parseResults(`{"casinos":[{"casino_id":42,"offers":[]}]}`)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "42", results[0].CasinoID)
	})

	t.Run("Long Name Dropped", func(t *testing.T) {
		name := strings.Repeat("a", 300)
		results, dropped, err := parseResults(`{"casinos":[{"casino_name":"X","offers":[{"offer_name":"` + name + `"}]}]}`)
		require.NoError(t, err)
		assert.Empty(t, results[0].Offers)
		require.Len(t, dropped, 1)
		assert.Equal(t, "max", dropped[0].fields["offer_name"])
	})
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n[]\n```\n", `[]`},
		{"unterminated", "```", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripFences(tt.in))
		})
	}
}

func TestValidUntil(t *testing.T) {
	assert.Equal(t, "2025-01-31", validUntil("2025-01-31"))
	assert.Equal(t, "2025-01-31", validUntil("2025-01-31T00:00:00Z"))
	assert.Equal(t, "", validUntil("ongoing"))
	assert.Equal(t, "", validUntil("2025-13-45"))
	assert.Equal(t, "", validUntil(nil))
}
