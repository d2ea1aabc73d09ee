package domain

import "time"

// Normalized threat tags. An empty tag means the source label was not one of
// the recognised anonymiser categories.
const (
	TagNone  = ""
	TagVPN   = "vpn"
	TagTor   = "tor"
	TagProxy = "proxy"
)

// ThreatEntry is the per-address record produced by the threat table merge.
type ThreatEntry struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"`

	// Address holds the trimmed address string exactly as it appeared in the source.
	Address string `gorm:"size:64;uniqueIndex;not null"`
	Country string `gorm:"size:64;not null;default:''"`
	Tag     string `gorm:"size:16;not null;default:''"`

	// Source records the last table that wrote this address.
	Source string `gorm:"size:512;not null;default:''"`

	FirstSeenAt time.Time `gorm:"autoCreateTime"`
	LastSeenAt  time.Time `gorm:"autoUpdateTime"`
}
