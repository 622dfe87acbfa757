package model

import (
	"time"
)

// Subscription is a fetched subscription document and the account counters
// its provider reported alongside it.
type Subscription struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex"` // Collector name from config
	Source    string // URL or path it was fetched from
	Payload   []byte // Raw Clash/mihomo document
	FetchedAt time.Time

	Userinfo SubscriptionUserinfo `gorm:"embedded;embeddedPrefix:usage_"`
}
