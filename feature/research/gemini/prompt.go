package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"offer-reconciler/core/reconcile"
)

const systemInstruction = `You research promotional offers of licensed US online casinos.
Report only offers that are currently advertised by the operator.
Answer with JSON only.`

const responseFormat = `Respond with a JSON object of this shape:
{
  "casinos": [
    {
      "casino_id": "<id from the list>",
      "casino_name": "<name from the list>",
      "offers": [
        {
          "offer_name": "string",
          "offer_type": "deposit_match | no_deposit | free_spins | lossback | reload | referral | other",
          "expected_deposit": number or null,
          "expected_bonus": number or null,
          "description": "string",
          "terms": "string",
          "valid_until": "YYYY-MM-DD" or null,
          "wagering_requirement": "string",
          "min_deposit": number or null,
          "max_bonus": number or null
        }
      ]
    }
  ]
}
Include every listed casino once, with an empty offers array when nothing is advertised.`

func buildPrompt(targets []reconcile.ResearchTarget) (string, error) {
	list, err := json.MarshalIndent(targets, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode research targets: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Find the current promotional offers of these %d casinos:\n", len(targets))
	b.Write(list)
	b.WriteString("\n\n")
	b.WriteString(responseFormat)
	return b.String(), nil
}
