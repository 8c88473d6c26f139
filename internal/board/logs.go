package board

import (
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Gurkirat164/Discord-Minecraft-Link-Bot/internal/storage"
)

// LogUpdater keeps the public roster boards and the admin expiration boards
// current.
type LogUpdater struct {
	store     *storage.Store
	messenger Messenger

	// now is swappable in tests
	now func() time.Time
}

// NewLogUpdater creates a log board updater.
func NewLogUpdater(store *storage.Store, messenger Messenger) *LogUpdater {
	return &LogUpdater{store: store, messenger: messenger, now: time.Now}
}

// RefreshPublic upserts the two public roster boards, one per rank, listing
// every active member. It is a no-op until a public log channel is configured.
// Upsert failures are isolated per board and logged.
func (u *LogUpdater) RefreshPublic() error {
	lc := u.store.LogChannels()
	if lc.PublicLog.ChannelID == "" {
		return nil
	}

	now := u.now()
	profiles := u.store.Profiles()

	media := filterProfiles(profiles, storage.RankMedia, now, false)
	mediaPlus := filterProfiles(profiles, storage.RankMediaPlus, now, false)

	u.syncBoard(lc.PublicLog.ChannelID, lc.PublicLog.MediaMessageID, storage.SlotPublicMedia,
		memberListEmbed("Media Members", colorMedia, media))
	u.syncBoard(lc.PublicLog.ChannelID, lc.PublicLog.MediaPlusMessageID, storage.SlotPublicMediaPlus,
		memberListEmbed("Media+ Members", colorMediaPlus, mediaPlus))
	return nil
}

// RefreshAdmin upserts the two admin tracking boards, one per rank, listing
// memberships with a bounded end date still in the future. It is a no-op
// until an admin log channel is configured.
func (u *LogUpdater) RefreshAdmin() error {
	lc := u.store.LogChannels()
	if lc.AdminLog.ChannelID == "" {
		return nil
	}

	now := u.now()
	profiles := u.store.Profiles()

	media := filterProfiles(profiles, storage.RankMedia, now, true)
	mediaPlus := filterProfiles(profiles, storage.RankMediaPlus, now, true)

	u.syncBoard(lc.AdminLog.ChannelID, lc.AdminLog.MediaMessageID, storage.SlotAdminMedia,
		expiryListEmbed("Media Rank Tracking", colorMedia, media, now))
	u.syncBoard(lc.AdminLog.ChannelID, lc.AdminLog.MediaPlusMessageID, storage.SlotAdminMediaPlus,
		expiryListEmbed("Media+ Rank Tracking", colorMediaPlus, mediaPlus, now))
	return nil
}

func (u *LogUpdater) syncBoard(channelID, messageID string, slot storage.BoardSlot, embed *discordgo.MessageEmbed) {
	_, err := Sync(u.messenger, channelID, messageID, []*discordgo.MessageEmbed{embed}, func(id string) error {
		return u.store.SetLogMessageID(slot, id)
	})
	if err != nil {
		slog.Error("Failed to update log board", "channelID", channelID, "error", err)
	}
}

// filterProfiles selects profiles of one rank. With boundedOnly it keeps only
// memberships that have an end date still ahead of now; otherwise it keeps
// every active membership, permanent ones included.
func filterProfiles(profiles []storage.Profile, rank storage.Rank, now time.Time, boundedOnly bool) []storage.Profile {
	var out []storage.Profile
	for _, p := range profiles {
		if p.Rank != rank {
			continue
		}
		if boundedOnly {
			if p.RankEndDate != nil && p.RankEndDate.After(now) {
				out = append(out, p)
			}
			continue
		}
		if p.Active(now) {
			out = append(out, p)
		}
	}
	return out
}
