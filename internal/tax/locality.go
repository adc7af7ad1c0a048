package tax

import "strings"

// LocalityResolver decides whether a supply to placeOfSupply stays inside homeState.
type LocalityResolver interface {
	IsIntraState(placeOfSupply, homeState string) bool
}

// SubstringLocality treats a supply as intra-state when the place of supply is blank or
// contains the home state name, compared trimmed and lower-cased. A state whose name is
// a substring of another state's name will be misclassified; swap in a state-code
// resolver once source records carry codes.
type SubstringLocality struct{}

// IsIntraState implements LocalityResolver.
func (SubstringLocality) IsIntraState(placeOfSupply, homeState string) bool {
	pos := strings.ToLower(strings.TrimSpace(placeOfSupply))
	if pos == "" {
		return true
	}
	home := strings.ToLower(strings.TrimSpace(homeState))
	return strings.Contains(pos, home)
}
