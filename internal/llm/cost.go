package llm

import (
	"strings"
	"unicode/utf8"
)

// price is USD per million tokens.
type price struct {
	input, output float64
}

// prices is keyed by model family. Dated snapshots such as
// "gpt-5-2025-08-07" resolve to their longest matching family.
var prices = map[string]price{
	"gpt-4o-mini": {0.15, 0.60},
	"gpt-4o":      {2.50, 10.00},
	"gpt-5-mini":  {0.25, 2.00},
	"gpt-5":       {1.25, 10.00},

	"claude-haiku-4-5":  {0.80, 4.00},
	"claude-sonnet-4-5": {3.00, 15.00},
}

func lookupPrice(model string) (price, bool) {
	best, found := "", false
	for family := range prices {
		if (model == family || strings.HasPrefix(model, family+"-")) && len(family) > len(best) {
			best, found = family, true
		}
	}
	return prices[best], found
}

// EstimateCost returns the USD cost of one generation, or 0 for models
// without a known price.
func EstimateCost(model string, promptTokens, completionTokens int) float64 {
	p, ok := lookupPrice(model)
	if !ok {
		return 0
	}
	return (float64(promptTokens)*p.input + float64(completionTokens)*p.output) / 1_000_000
}

// EstimateTokens approximates the token count of text at four characters per
// token. Characters are runes, so accented Portuguese is not over-counted.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	return max(n/4, 1)
}
