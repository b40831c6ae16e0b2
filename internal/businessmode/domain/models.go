package domain

import (
	"strings"
	"time"
)

// Mode is the billing/feature regime the platform operates under for an
// actor. ModeNone means the actor has not chosen yet.
type Mode string

const (
	ModeRetail       Mode = "retail"
	ModeSubscription Mode = "subscription"
	ModeFreemium     Mode = "freemium"
	ModeMulti        Mode = "multi"
	ModeNone         Mode = "none"
)

// ParseMode normalizes a raw mode value. Unknown values map to ModeNone.
func ParseMode(raw string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeRetail:
		return ModeRetail
	case ModeSubscription:
		return ModeSubscription
	case ModeFreemium:
		return ModeFreemium
	case ModeMulti:
		return ModeMulti
	default:
		return ModeNone
	}
}

// Selected reports whether m is a concrete, chosen mode.
func (m Mode) Selected() bool {
	switch m {
	case ModeRetail, ModeSubscription, ModeFreemium, ModeMulti:
		return true
	default:
		return false
	}
}

// LegacyRecordKey is the unkeyed slot used before records were scoped per
// actor. It is read as a one-time migration source and deleted on clear.
const LegacyRecordKey = "businessMode"

// RecordKeyForActor returns the persisted key for an actor-scoped record.
func RecordKeyForActor(actorKey string) string {
	return LegacyRecordKey + "_" + actorKey
}

// ModeRecord is the persisted binding between a record key and a mode.
type ModeRecord struct {
	RecordKey string    `gorm:"column:record_key;primaryKey" json:"record_key"`
	Mode      string    `gorm:"column:mode" json:"mode"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (ModeRecord) TableName() string {
	return "mode_records"
}
