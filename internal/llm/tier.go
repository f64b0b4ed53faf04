package llm

import (
	"fmt"
	"strings"
)

// Tier selects between the cheaper default model and the higher-quality one.
type Tier string

const (
	TierStandard Tier = "standard"
	TierGPT5     Tier = "gpt5"
)

// Tiers lists every recognized tier in display order.
var Tiers = []Tier{TierStandard, TierGPT5}

// ParseTier converts a caller-supplied flag into a Tier. An empty string is
// the standard tier; anything else unrecognized is an error.
func ParseTier(s string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case "", TierStandard:
		return TierStandard, nil
	case TierGPT5:
		return TierGPT5, nil
	default:
		return "", fmt.Errorf("%w: %q (expected one of standard, gpt5)", ErrUnknownTier, s)
	}
}

// TierModels is the single lookup table from tier to model identifier.
type TierModels map[Tier]string

// Model returns the model for a tier.
func (m TierModels) Model(t Tier) (string, error) {
	model, ok := m[t]
	if !ok || model == "" {
		return "", fmt.Errorf("%w: no model configured for tier %q", ErrConfiguration, t)
	}
	return model, nil
}
