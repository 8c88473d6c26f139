package bot

import (
	"log/slog"

	"github.com/Gurkirat164/Discord-Minecraft-Link-Bot/internal/storage"
)

// assignRankRole gives the member the role mirrored from the rank, if one is
// configured.
func (b *Bot) assignRankRole(guildID, userID string, rank storage.Rank) error {
	roleID, ok := b.store.RankRole(rank)
	if !ok {
		return nil
	}
	return b.session.GuildMemberRoleAdd(guildID, userID, roleID)
}

// removeRankRole takes the rank's mirrored role away from the member.
func (b *Bot) removeRankRole(guildID, userID string, rank storage.Rank) error {
	roleID, ok := b.store.RankRole(rank)
	if !ok {
		return nil
	}
	return b.session.GuildMemberRoleRemove(guildID, userID, roleID)
}

// swapRankRole moves the member from one rank's role to another's after a
// rank change.
func (b *Bot) swapRankRole(guildID, userID string, oldRank, newRank storage.Rank) {
	if oldRank == newRank {
		return
	}
	if err := b.removeRankRole(guildID, userID, oldRank); err != nil {
		slog.Warn("Could not remove old rank role", "userID", userID, "rank", oldRank, "error", err)
	}
	if err := b.assignRankRole(guildID, userID, newRank); err != nil {
		slog.Warn("Could not assign new rank role", "userID", userID, "rank", newRank, "error", err)
	}
}
