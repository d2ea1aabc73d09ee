package classifier

import (
	"strings"

	"mailsift/internal/denylist"
	"mailsift/internal/domain"
)

// Rules is the layered rule set a record is checked against.
type Rules struct {
	Denylist denylist.Set
	Curated  denylist.Set
	Portals  denylist.Set
}

// DefaultRules pairs a built denylist with the curated and portal sets.
func DefaultRules(built denylist.Set) Rules {
	return Rules{
		Denylist: built,
		Curated:  denylist.Curated(),
		Portals:  denylist.Portals(),
	}
}

// ExtractDomain returns the lowercased, trimmed text after the last '@'.
// Addresses without an '@' have no domain.
func ExtractDomain(address string) string {
	idx := strings.LastIndex(address, "@")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(address[idx+1:]))
}

// Classify derives the domain of address and assigns its category.
// Anonymous providers take precedence over public portals.
func Classify(address string, rules Rules) (string, domain.Category) {
	d := ExtractDomain(address)

	category := domain.CategoryCompany
	switch {
	case rules.Denylist.Contains(d) || rules.Curated.Contains(d):
		category = domain.CategoryAnonymous
	case rules.Portals.Contains(d):
		category = domain.CategoryPortal
	}
	return d, category
}
