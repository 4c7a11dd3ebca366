package gemini

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"offer-reconciler/core/models"
	"offer-reconciler/core/reconcile"
	"offer-reconciler/core/utils"
)

type payload struct {
	Casinos []casinoPayload `json:"casinos"`
}

type casinoPayload struct {
	CasinoID   any            `json:"casino_id"`
	CasinoName any            `json:"casino_name"`
	Offers     []offerPayload `json:"offers"`
}

// offerPayload mirrors models.OfferFields with loose types, since models
// answer amounts as numbers, strings or null interchangeably.
type offerPayload struct {
	OfferName           any `json:"offer_name"`
	OfferType           any `json:"offer_type"`
	ExpectedDeposit     any `json:"expected_deposit"`
	ExpectedBonus       any `json:"expected_bonus"`
	Description         any `json:"description"`
	Terms               any `json:"terms"`
	ValidUntil          any `json:"valid_until"`
	WageringRequirement any `json:"wagering_requirement"`
	MinDeposit          any `json:"min_deposit"`
	MaxBonus            any `json:"max_bonus"`
}

type droppedOffer struct {
	casino string
	offer  string
	fields map[string]string
}

// stripFences removes a markdown code fence around the answer, if any.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	} else {
		text = ""
	}
	text = strings.TrimSpace(text)
	return strings.TrimSpace(strings.TrimSuffix(text, "```"))
}

func decode(data string, v any) error {
	dec := json.NewDecoder(strings.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

// parseResults decodes a model answer. Both {"casinos":[...]} and a bare
// array are accepted. Offers failing validation are dropped and reported.
func parseResults(text string) ([]reconcile.ResearchResult, []droppedOffer, error) {
	body := stripFences(text)

	var p payload
	if strings.HasPrefix(body, "[") {
		if err := decode(body, &p.Casinos); err != nil {
			return nil, nil, fmt.Errorf("failed to decode gemini response: %w", err)
		}
	} else if err := decode(body, &p); err != nil {
		return nil, nil, fmt.Errorf("failed to decode gemini response: %w", err)
	}

	results := make([]reconcile.ResearchResult, 0, len(p.Casinos))
	var dropped []droppedOffer
	for _, c := range p.Casinos {
		res := reconcile.ResearchResult{
			CasinoID:   utils.ToString(c.CasinoID),
			CasinoName: utils.ToString(c.CasinoName),
			Offers:     make([]models.OfferFields, 0, len(c.Offers)),
		}
		if res.CasinoID == "" && res.CasinoName == "" {
			continue
		}
		for _, o := range c.Offers {
			fields := o.toFields()
			if err := utils.Validate.Struct(fields); err != nil {
				dropped = append(dropped, droppedOffer{casino: res.CasinoName, offer: fields.OfferName, fields: utils.ValidationErrors(err)})
				continue
			}
			res.Offers = append(res.Offers, fields)
		}
		results = append(results, res)
	}
	return results, dropped, nil
}

func (o offerPayload) toFields() models.OfferFields {
	return models.OfferFields{
		OfferName:           utils.ToString(o.OfferName),
		OfferType:           strings.ToLower(utils.ToString(o.OfferType)),
		ExpectedDeposit:     utils.ToNullDecimal(o.ExpectedDeposit),
		ExpectedBonus:       utils.ToNullDecimal(o.ExpectedBonus),
		Description:         utils.ToString(o.Description),
		Terms:               utils.ToString(o.Terms),
		ValidUntil:          validUntil(o.ValidUntil),
		WageringRequirement: utils.ToString(o.WageringRequirement),
		MinDeposit:          utils.ToNullDecimal(o.MinDeposit),
		MaxBonus:            utils.ToNullDecimal(o.MaxBonus),
	}
}

// validUntil keeps the date part of an expiry. Anything that is not a date,
// such as "ongoing", means the offer has no known expiry.
func validUntil(v any) string {
	s := utils.ToString(v)
	if len(s) < len(time.DateOnly) {
		return ""
	}
	s = s[:len(time.DateOnly)]
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return ""
	}
	return s
}
