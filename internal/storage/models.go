package storage

import (
	"fmt"
	"math"
	"time"
)

// Rank is a membership tier.
type Rank string

const (
	RankMedia     Rank = "media"
	RankMediaPlus Rank = "media+"
	RankAdmin     Rank = "admin"
)

// Valid reports whether the rank is one of the known tiers.
func (r Rank) Valid() bool {
	switch r {
	case RankMedia, RankMediaPlus, RankAdmin:
		return true
	}
	return false
}

// ParseRank validates a raw rank string.
func ParseRank(s string) (Rank, error) {
	r := Rank(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q (valid: media, media+, admin)", ErrInvalidRank, s)
	}
	return r, nil
}

// Notifications are one-shot latches preventing duplicate expiration
// notifications. Flags only ever go false -> true, and are reset to all-false
// when the rank end date changes.
type Notifications struct {
	TwoDays bool `json:"twoDays"`
	OneDay  bool `json:"oneDay"`
	Ended   bool `json:"ended"`
}

// Profile is one tracked member.
type Profile struct {
	UserID        string        `json:"userId"`
	Username      string        `json:"username"`
	InGameName    string        `json:"inGameName"`
	Rank          Rank          `json:"rank"`
	RankStartDate time.Time     `json:"rankStartDate"`
	RankEndDate   *time.Time    `json:"rankEndDate"` // nil = permanent
	ChannelLink   string        `json:"channelLink,omitempty"`
	Notifications Notifications `json:"notifications"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// DaysLeft returns the number of days until the rank ends, rounded up.
// Profiles without an end date report 0; check RankEndDate first.
func (p *Profile) DaysLeft(now time.Time) int {
	if p.RankEndDate == nil {
		return 0
	}
	return int(math.Ceil(p.RankEndDate.Sub(now).Hours() / 24))
}

// Active reports whether the rank is currently in effect (permanent, or end
// date still in the future).
func (p *Profile) Active(now time.Time) bool {
	return p.RankEndDate == nil || p.RankEndDate.After(now)
}

// ChannelRegistration is one channel subscribed to the recurring status
// board, with the last known board message for in-place edits.
type ChannelRegistration struct {
	GuildID   string `json:"guildId"`
	ChannelID string `json:"channelId"`
	MessageID string `json:"messageId"`
}

// LogBoard is a log channel rendered as two tracked messages, one per rank
// section.
type LogBoard struct {
	ChannelID          string `json:"channelId"`
	MediaMessageID     string `json:"mediaMessageId"`
	MediaPlusMessageID string `json:"mediaPlusMessageId"`
}

// AnnounceChannel is the channel expiration warnings are broadcast to.
type AnnounceChannel struct {
	ChannelID string `json:"channelId"`
}

// LogChannels holds the three independent log channel slots.
type LogChannels struct {
	PublicLog          LogBoard        `json:"publicLog"`
	MediaAnnouncements AnnounceChannel `json:"mediaAnnouncements"`
	AdminLog           LogBoard        `json:"adminLog"`
}

// BoardSlot names one tracked log message for the upsert primitive.
type BoardSlot int

const (
	SlotPublicMedia BoardSlot = iota
	SlotPublicMediaPlus
	SlotAdminMedia
	SlotAdminMediaPlus
)

// State is the full persisted document. The legacy statusMessages field is
// only ever read: it upgrades to Channels on load and is never written back.
type State struct {
	PeakPlayers int                   `json:"peakPlayers"`
	Channels    []ChannelRegistration `json:"channels"`
	RankRoles   map[Rank]string       `json:"rankRoles"`
	LogChannels LogChannels           `json:"logChannels"`
	Profiles    []Profile             `json:"profiles"`

	LegacyStatusMessages []legacyStatusMessage `json:"statusMessages,omitempty"`
}

type legacyStatusMessage struct {
	ChannelID string `json:"channelId"`
	MessageID string `json:"messageId"`
}
