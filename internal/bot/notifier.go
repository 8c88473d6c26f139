package bot

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/Gurkirat164/Discord-Minecraft-Link-Bot/internal/storage"
)

// The bot implements lifecycle.Notifier over the live session.

// NotifyMember DMs a member.
func (b *Bot) NotifyMember(userID string, embed *discordgo.MessageEmbed) error {
	channel, err := b.session.UserChannelCreate(userID)
	if err != nil {
		return err
	}
	_, err = b.session.ChannelMessageSendEmbed(channel.ID, embed)
	return err
}

// Announce posts to a guild channel, mentioning the member in content.
func (b *Bot) Announce(channelID, content string, embed *discordgo.MessageEmbed) error {
	_, err := b.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: content,
		Embeds:  []*discordgo.MessageEmbed{embed},
	})
	return err
}

// NotifyOwner DMs the configured bot owner. Without an owner id it is a
// no-op.
func (b *Bot) NotifyOwner(embed *discordgo.MessageEmbed) error {
	if b.config.OwnerID == "" {
		return nil
	}
	return b.NotifyMember(b.config.OwnerID, embed)
}

// RevokeRankRole removes the rank's mirrored role in every guild the bot is
// in. Guilds where the member or role is absent are skipped.
func (b *Bot) RevokeRankRole(userID string, rank storage.Rank) error {
	roleID, ok := b.store.RankRole(rank)
	if !ok {
		return nil
	}

	for _, guild := range b.session.State.Guilds {
		if err := b.session.GuildMemberRoleRemove(guild.ID, userID, roleID); err != nil {
			slog.Debug("Could not remove role in guild", "guildID", guild.ID, "userID", userID, "error", err)
		}
	}
	return nil
}
