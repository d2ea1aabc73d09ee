package threatdb

import (
	"strings"

	"mailsift/internal/domain"
)

// NormalizeTag folds a free-form source label into vpn, tor, proxy or "".
// Checks run in that order, so "tor proxy vpn" becomes vpn.
func NormalizeTag(raw string) string {
	tag := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(tag, "vpn"):
		return domain.TagVPN
	case strings.Contains(tag, "tor"):
		return domain.TagTor
	case strings.Contains(tag, "proxy"):
		return domain.TagProxy
	default:
		return domain.TagNone
	}
}
