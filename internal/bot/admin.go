package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Gurkirat164/Discord-Minecraft-Link-Bot/internal/storage"
)

// handleSet handles the /set command
func (b *Bot) handleSet(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i)
	setType := opts["type"].StringValue()

	var channel *discordgo.Channel
	if opt, ok := opts["channel"]; ok {
		channel = opt.ChannelValue(s)
	}
	var role *discordgo.Role
	if opt, ok := opts["role"]; ok {
		role = opt.RoleValue(s, i.GuildID)
	}

	switch setType {
	case "publiclog":
		if channel == nil {
			respondWithMessage(s, i, "Pick a channel for the public log.")
			return
		}
		if err := b.store.SetPublicLogChannel(channel.ID); err != nil {
			b.respondSetFailed(s, i, err)
			return
		}
		deferResponse(s, i)
		b.refreshLogs()
		b.editResponse(s, i, fmt.Sprintf("Public log boards will be kept in <#%s>.", channel.ID))

	case "mediaannouncements":
		if channel == nil {
			respondWithMessage(s, i, "Pick a channel for media announcements.")
			return
		}
		if err := b.store.SetAnnouncementsChannel(channel.ID); err != nil {
			b.respondSetFailed(s, i, err)
			return
		}
		respondWithMessage(s, i, fmt.Sprintf("Expiration announcements will be posted in <#%s>.", channel.ID))

	case "adminlog":
		if channel == nil {
			respondWithMessage(s, i, "Pick a channel for the admin log.")
			return
		}
		if err := b.store.SetAdminLogChannel(channel.ID); err != nil {
			b.respondSetFailed(s, i, err)
			return
		}
		deferResponse(s, i)
		if err := b.logs.RefreshAdmin(); err != nil {
			slog.Error("Failed to refresh admin log", "error", err)
		}
		b.editResponse(s, i, fmt.Sprintf("Admin log boards will be kept in <#%s>.", channel.ID))

	case "statuschannel":
		if channel == nil {
			respondWithMessage(s, i, "Pick a channel for the status board.")
			return
		}
		deferResponse(s, i)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		added, err := b.status.RegisterChannel(ctx, i.GuildID, channel.ID)
		if err != nil {
			slog.Error("Failed to register status channel", "channelID", channel.ID, "error", err)
			b.editResponse(s, i, "Failed to post the status board. Please try again.")
			return
		}
		if !added {
			b.editResponse(s, i, fmt.Sprintf("<#%s> already shows the status board.", channel.ID))
			return
		}
		b.editResponse(s, i, fmt.Sprintf("Status board posted in <#%s>. It refreshes every %s.", channel.ID, b.config.StatusUpdateInterval))

	case "mediarole", "mediaplusrole":
		if role == nil {
			respondWithMessage(s, i, "Pick a role to mirror the rank to.")
			return
		}
		rank := storage.RankMedia
		if setType == "mediaplusrole" {
			rank = storage.RankMediaPlus
		}
		if err := b.store.SetRankRole(rank, role.ID); err != nil {
			b.respondSetFailed(s, i, err)
			return
		}
		respondWithMessage(s, i, fmt.Sprintf("The **%s** rank now mirrors <@&%s>.", rank, role.ID))

	default:
		respondWithMessage(s, i, fmt.Sprintf("Unknown setting: `%s`.", setType))
	}
}

// handleUnset handles the /unset command
func (b *Bot) handleUnset(s *discordgo.Session, i *discordgo.InteractionCreate) {
	setType := optionMap(i)["type"].StringValue()

	rank := storage.RankMedia
	if setType == "mediaplusrole" {
		rank = storage.RankMediaPlus
	}

	removed, err := b.store.UnsetRankRole(rank)
	if err != nil {
		slog.Error("Failed to unset rank role", "rank", rank, "error", err)
		respondWithMessage(s, i, "Failed to clear the role. Please try again.")
		return
	}
	if !removed {
		respondWithMessage(s, i, fmt.Sprintf("No role is configured for the **%s** rank.", rank))
		return
	}
	respondWithMessage(s, i, fmt.Sprintf("The **%s** rank no longer mirrors a role.", rank))
}

func (b *Bot) respondSetFailed(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	slog.Error("Failed to save setting", "error", err)
	respondWithMessage(s, i, "Failed to save the setting. Please try again.")
}
