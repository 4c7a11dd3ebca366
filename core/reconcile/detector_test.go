package reconcile

import (
	"strings"
	"testing"

	"offer-reconciler/core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindDuplicateCasino(t *testing.T) {
	d := NewDetector(nil, nil)

	t.Run("Contains After Stop Words", func(t *testing.T) {
		existing := []models.Casino{{ID: "c1", Name: "BetMGM", StateID: "nj"}}
		m := d.FindDuplicateCasino(models.Casino{Name: "BetMGM Casino", StateID: "nj"}, existing)

		require.NotNil(t, m.Match)
		assert.Equal(t, "c1", m.Match.ID)
		assert.Equal(t, ReasonContains, m.Reason)
		assert.Nil(t, m.Score)
	})

	t.Run("Exact Ignores Case And Punctuation", func(t *testing.T) {
		existing := []models.Casino{{ID: "c1", Name: "Caesars Palace", StateID: "nj"}}
		m := d.FindDuplicateCasino(models.Casino{Name: "caesars  palace!", StateID: "nj"}, existing)

		require.NotNil(t, m.Match)
		assert.Equal(t, ReasonExact, m.Reason)
	})

	t.Run("Fuzzy Carries Score", func(t *testing.T) {
		existing := []models.Casino{{ID: "c1", Name: "Golden Nugget", StateID: "nj"}}
		m := d.FindDuplicateCasino(models.Casino{Name: "Golden Nuget", StateID: "nj"}, existing)

		require.NotNil(t, m.Match)
		assert.Equal(t, ReasonFuzzy, m.Reason)
		require.NotNil(t, m.Score)
		assert.GreaterOrEqual(t, *m.Score, CasinoFuzzyThreshold)
	})

	t.Run("Other States Ignored", func(t *testing.T) {
		existing := []models.Casino{{ID: "c1", Name: "BetMGM", StateID: "pa"}}
		m := d.FindDuplicateCasino(models.Casino{Name: "BetMGM", StateID: "nj"}, existing)

		assert.Nil(t, m.Match)
		assert.Equal(t, ReasonNoMatch, m.Reason)
	})

	t.Run("First Match Wins", func(t *testing.T) {
		existing := []models.Casino{
			{ID: "c1", Name: "Golden Nuget", StateID: "nj"},
			{ID: "c2", Name: "Golden Nugget", StateID: "nj"},
		}
		m := d.FindDuplicateCasino(models.Casino{Name: "Golden Nugget", StateID: "nj"}, existing)

		require.NotNil(t, m.Match)
		assert.Equal(t, "c1", m.Match.ID)
		assert.Equal(t, ReasonFuzzy, m.Reason)
	})

	t.Run("No Match", func(t *testing.T) {
		existing := []models.Casino{
			{ID: "c1", Name: "DraftKings", StateID: "nj"},
			{ID: "c2", Name: "Borgata", StateID: "nj"},
		}
		m := d.FindDuplicateCasino(models.Casino{Name: "FanDuel", StateID: "nj"}, existing)

		assert.Nil(t, m.Match)
		assert.Equal(t, ReasonNoMatch, m.Reason)
	})

	t.Run("Injected Scorer", func(t *testing.T) {
		always := NewDetector(nil, ScorerFunc(func(a, b string) float64 { return 1 }))
		existing := []models.Casino{{ID: "c1", Name: "DraftKings", StateID: "nj"}}
		m := always.FindDuplicateCasino(models.Casino{Name: "FanDuel", StateID: "nj"}, existing)

		require.NotNil(t, m.Match)
		assert.Equal(t, ReasonFuzzy, m.Reason)
	})

	t.Run("Injected Normalizer Drives Exact Rule", func(t *testing.T) {
		compact := NormalizerFunc(func(name string) string {
			return strings.ReplaceAll(Fold(name), " ", "")
		})
		existing := []models.Casino{{ID: "c1", Name: "MoheganSun", StateID: "nj"}}
		candidate := models.Casino{Name: "Mohegan Sun", StateID: "nj"}

		m := NewDetector(compact, nil).FindDuplicateCasino(candidate, existing)
		require.NotNil(t, m.Match)
		assert.Equal(t, ReasonExact, m.Reason)

		m = d.FindDuplicateCasino(candidate, existing)
		assert.NotEqual(t, ReasonExact, m.Reason)
	})

	t.Run("Injected Folder", func(t *testing.T) {
		compact := NormalizerFunc(func(name string) string {
			return strings.ReplaceAll(Fold(name), " ", "")
		})
		existing := []models.Casino{{ID: "c1", Name: "M G M Grand", StateID: "nj"}}

		m := NewDetector(nil, nil, WithFolder(compact)).FindDuplicateCasino(models.Casino{Name: "MGM Grand", StateID: "nj"}, existing)
		require.NotNil(t, m.Match)
		assert.Equal(t, ReasonExact, m.Reason)
	})
}

func TestMatchOffer(t *testing.T) {
	d := NewDetector(nil, nil)

	existing := []models.Offer{
		{ID: "o1", Source: models.SourceAIResearch, OfferFields: models.OfferFields{OfferName: "Welcome Bonus", OfferType: "deposit_match", ExpectedBonus: money(1000)}},
		{ID: "o2", Source: models.SourceAIResearch, OfferFields: models.OfferFields{OfferName: "Lossback Credits", OfferType: "lossback", ExpectedBonus: money(500)}},
		{ID: "o3", Source: models.SourceAIResearch, OfferFields: models.OfferFields{OfferName: "Spring Reload Bonus", OfferType: "reload", ExpectedBonus: money(250)}},
		{ID: "o4", Source: models.SourceExternalFeed, OfferFields: models.OfferFields{OfferName: "Refer A Friend", OfferType: "referral"}},
	}

	t.Run("Normalized Name", func(t *testing.T) {
		m := d.MatchOffer(models.OfferFields{OfferName: "WELCOME bonus!!", OfferType: "free_spins"}, existing, models.SourceAIResearch, true)
		require.NotNil(t, m)
		assert.Equal(t, "o1", m.ID)
	})

	t.Run("Similar Name Same Type", func(t *testing.T) {
		m := d.MatchOffer(models.OfferFields{OfferName: "Lossback Credit", OfferType: "lossback"}, existing, models.SourceAIResearch, true)
		require.NotNil(t, m)
		assert.Equal(t, "o2", m.ID)
	})

	t.Run("Similar Name Other Type", func(t *testing.T) {
		m := d.MatchOffer(models.OfferFields{OfferName: "Lossback Credit", OfferType: "cashback"}, existing, models.SourceAIResearch, true)
		assert.Nil(t, m)
	})

	t.Run("Renamed With Same Bonus", func(t *testing.T) {
		m := d.MatchOffer(models.OfferFields{OfferName: "Summer Reload Bonus", OfferType: "reload", ExpectedBonus: money(250)}, existing, models.SourceAIResearch, true)
		require.NotNil(t, m)
		assert.Equal(t, "o3", m.ID)
	})

	t.Run("Renamed With Other Bonus", func(t *testing.T) {
		m := d.MatchOffer(models.OfferFields{OfferName: "Summer Reload Bonus", OfferType: "reload", ExpectedBonus: money(300)}, existing, models.SourceAIResearch, true)
		assert.Nil(t, m)
	})

	t.Run("Same Source Only", func(t *testing.T) {
		in := models.OfferFields{OfferName: "Refer a Friend", OfferType: "referral"}

		assert.Nil(t, d.MatchOffer(in, existing, models.SourceAIResearch, true))

		m := d.MatchOffer(in, existing, models.SourceAIResearch, false)
		require.NotNil(t, m)
		assert.Equal(t, "o4", m.ID)
	})

	t.Run("Returns Element Of Input", func(t *testing.T) {
		m := d.MatchOffer(models.OfferFields{OfferName: "Welcome Bonus"}, existing, models.SourceAIResearch, true)
		require.NotNil(t, m)
		assert.Same(t, &existing[0], m)
	})
}
