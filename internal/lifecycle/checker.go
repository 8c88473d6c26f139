package lifecycle

import (
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Gurkirat164/Discord-Minecraft-Link-Bot/internal/storage"
)

// Notifier delivers expiration messages. The bot package implements it over a
// discordgo session; tests use a fake.
type Notifier interface {
	// NotifyMember DMs the member.
	NotifyMember(userID string, embed *discordgo.MessageEmbed) error
	// Announce posts to a guild channel, mentioning the member in content.
	Announce(channelID, content string, embed *discordgo.MessageEmbed) error
	// NotifyOwner DMs the bot owner.
	NotifyOwner(embed *discordgo.MessageEmbed) error
	// RevokeRankRole removes the Discord role mirrored from a rank.
	RevokeRankRole(userID string, rank storage.Rank) error
}

// BoardRefresher re-renders the membership boards after a sweep changes
// profile state.
type BoardRefresher interface {
	RefreshPublic() error
	RefreshAdmin() error
}

// Checker walks all profiles and fires each expiration stage at most once per
// membership period.
type Checker struct {
	store    *storage.Store
	notifier Notifier
	boards   BoardRefresher

	// now is swappable in tests
	now func() time.Time
}

// NewChecker creates an expiration checker.
func NewChecker(store *storage.Store, notifier Notifier, boards BoardRefresher) *Checker {
	return &Checker{store: store, notifier: notifier, boards: boards, now: time.Now}
}

// Sweep examines every bounded membership and fires whichever stage is due:
// a two-day warning, a one-day warning, or the expiration itself. Each stage
// is latched after its first firing, delivered or not, so a stage never
// repeats within one membership period. Expiration also revokes the mirrored
// Discord role and notifies the owner. When anything fired, the latches are
// persisted in one write and the boards are re-rendered.
func (c *Checker) Sweep() error {
	now := c.now()
	updates := make(map[string]storage.Notifications)

	for _, p := range c.store.Profiles() {
		if p.RankEndDate == nil {
			continue
		}

		daysLeft := p.DaysLeft(now)
		n := p.Notifications

		switch {
		case daysLeft <= 0 && !n.Ended:
			c.expire(p)
			n.Ended = true
		case daysLeft == 1 && !n.OneDay:
			c.warn(p, 1)
			n.OneDay = true
		case daysLeft == 2 && !n.TwoDays:
			c.warn(p, 2)
			n.TwoDays = true
		default:
			continue
		}
		updates[p.UserID] = n
	}

	if len(updates) == 0 {
		return nil
	}

	if err := c.store.MarkNotified(updates); err != nil {
		slog.Error("Failed to persist notification state", "error", err)
	}
	if err := c.boards.RefreshPublic(); err != nil {
		slog.Error("Failed to refresh public log", "error", err)
	}
	if err := c.boards.RefreshAdmin(); err != nil {
		slog.Error("Failed to refresh admin log", "error", err)
	}
	return nil
}

func (c *Checker) warn(p storage.Profile, daysLeft int) {
	embed := warningEmbed(p, daysLeft)

	if err := c.notifier.NotifyMember(p.UserID, embed); err != nil {
		slog.Warn("Could not DM expiration warning", "userID", p.UserID, "error", err)
	}

	if channelID := c.store.LogChannels().MediaAnnouncements.ChannelID; channelID != "" {
		if err := c.notifier.Announce(channelID, "<@"+p.UserID+">", embed); err != nil {
			slog.Warn("Could not announce expiration warning", "channelID", channelID, "error", err)
		}
	}

	slog.Info("Sent expiration warning", "userID", p.UserID, "daysLeft", daysLeft)
}

func (c *Checker) expire(p storage.Profile) {
	if err := c.notifier.NotifyMember(p.UserID, expiredEmbed(p)); err != nil {
		slog.Warn("Could not DM expiration notice", "userID", p.UserID, "error", err)
	}
	if err := c.notifier.NotifyOwner(ownerExpiredEmbed(p)); err != nil {
		slog.Warn("Could not notify owner of expiration", "userID", p.UserID, "error", err)
	}
	if err := c.notifier.RevokeRankRole(p.UserID, p.Rank); err != nil {
		slog.Warn("Could not revoke rank role", "userID", p.UserID, "rank", p.Rank, "error", err)
	}

	slog.Info("Rank expired", "userID", p.UserID, "rank", p.Rank)
}
