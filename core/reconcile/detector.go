package reconcile

import (
	"strings"

	"offer-reconciler/core/models"
)

const (
	// CasinoFuzzyThreshold is the minimum similarity for a fuzzy casino match.
	CasinoFuzzyThreshold = 0.75

	// OfferNameThreshold is the similarity above which same-type offers match.
	OfferNameThreshold = 0.8

	// OfferRenameThreshold is the similarity above which same-type offers with
	// an identical bonus match.
	OfferRenameThreshold = 0.6
)

// Detector finds duplicate casinos and matching offers.
// It holds no state besides its comparison strategies and is safe for concurrent use.
type Detector struct {
	normalizer Normalizer
	folder     Normalizer
	scorer     Scorer
}

// DetectorOption customizes a Detector.
type DetectorOption func(*Detector)

// WithFolder sets the canonical form compared by the exact casino rule.
func WithFolder(folder Normalizer) DetectorOption {
	return func(d *Detector) { d.folder = folder }
}

// NewDetector creates a detector. Nil arguments select the defaults.
// Without WithFolder, the exact rule folds with DefaultFolder when the
// normalizer is the default one, and with the injected normalizer otherwise.
func NewDetector(normalizer Normalizer, scorer Scorer, opts ...DetectorOption) *Detector {
	d := &Detector{normalizer: normalizer, scorer: scorer}
	for _, opt := range opts {
		opt(d)
	}
	if d.folder == nil {
		if d.normalizer == nil {
			d.folder = DefaultFolder
		} else {
			d.folder = d.normalizer
		}
	}
	if d.normalizer == nil {
		d.normalizer = DefaultNormalizer
	}
	if d.scorer == nil {
		d.scorer = DefaultScorer
	}
	return d
}

// Normalize applies the detector's normalizer.
func (d *Detector) Normalize(name string) string {
	return d.normalizer.Normalize(name)
}

// Similarity scores two raw names after normalizing both.
func (d *Detector) Similarity(a, b string) float64 {
	return d.scorer.Similarity(d.normalizer.Normalize(a), d.normalizer.Normalize(b))
}

// FindDuplicateCasino scans existing in order and returns the first casino of
// the candidate's state that matches. Per casino the strategies are:
//  1. exact: equal folded names (by default case, punctuation and accents ignored);
//  2. contains: one normalized name contains the other ("BetMGM Casino" vs "BetMGM");
//  3. fuzzy: normalized similarity of at least CasinoFuzzyThreshold.
//
// Casinos of other states are ignored.
func (d *Detector) FindDuplicateCasino(candidate models.Casino, existing []models.Casino) CasinoMatch {
	folded := d.folder.Normalize(candidate.Name)
	name := d.normalizer.Normalize(candidate.Name)

	for i := range existing {
		other := &existing[i]
		if other.StateID != candidate.StateID {
			continue
		}

		if d.folder.Normalize(other.Name) == folded {
			return CasinoMatch{Match: other, Reason: ReasonExact}
		}

		otherName := d.normalizer.Normalize(other.Name)

		if name != "" && otherName != "" &&
			(strings.Contains(otherName, name) || strings.Contains(name, otherName)) {
			return CasinoMatch{Match: other, Reason: ReasonContains}
		}

		if score := d.scorer.Similarity(otherName, name); score >= CasinoFuzzyThreshold {
			return CasinoMatch{Match: other, Reason: ReasonFuzzy, Score: &score}
		}
	}

	return CasinoMatch{Reason: ReasonNoMatch}
}

// MatchOffer returns the existing offer that candidate should be merged into,
// or nil. Rules are tried in order, each over all offers in input order:
//  1. equal normalized names;
//  2. same offer type and name similarity above OfferNameThreshold;
//  3. same offer type, both bonuses set and within 0.01, and name similarity
//     above OfferRenameThreshold.
//
// With sameSourceOnly, offers whose Source differs from source are ignored.
func (d *Detector) MatchOffer(candidate models.OfferFields, existing []models.Offer, source string, sameSourceOnly bool) *models.Offer {
	name := d.normalizer.Normalize(candidate.OfferName)

	pool := make([]*models.Offer, 0, len(existing))
	names := make([]string, 0, len(existing))
	for i := range existing {
		if sameSourceOnly && existing[i].Source != source {
			continue
		}
		pool = append(pool, &existing[i])
		names = append(names, d.normalizer.Normalize(existing[i].OfferName))
	}

	for i, offer := range pool {
		if names[i] == name {
			return offer
		}
	}

	for i, offer := range pool {
		if offer.OfferType == candidate.OfferType && d.scorer.Similarity(names[i], name) > OfferNameThreshold {
			return offer
		}
	}

	if !candidate.ExpectedBonus.Valid {
		return nil
	}
	for i, offer := range pool {
		if offer.OfferType != candidate.OfferType || !offer.ExpectedBonus.Valid {
			continue
		}
		delta := offer.ExpectedBonus.Decimal.Sub(candidate.ExpectedBonus.Decimal).Abs()
		if delta.LessThan(bonusEpsilon) && d.scorer.Similarity(names[i], name) > OfferRenameThreshold {
			return offer
		}
	}

	return nil
}
