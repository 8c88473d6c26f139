package board

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/Gurkirat164/Discord-Minecraft-Link-Bot/internal/mcstatus"
	"github.com/Gurkirat164/Discord-Minecraft-Link-Bot/internal/storage"
)

// StatusUpdater keeps the server status boards current across every
// registered channel.
type StatusUpdater struct {
	store       *storage.Store
	client      *mcstatus.Client
	messenger   Messenger
	servers     []string
	survivalIP  string
	lifestealIP string
}

// NewStatusUpdater creates a status board updater.
func NewStatusUpdater(store *storage.Store, client *mcstatus.Client, messenger Messenger, servers []string, survivalIP, lifestealIP string) *StatusUpdater {
	return &StatusUpdater{
		store:       store,
		client:      client,
		messenger:   messenger,
		servers:     servers,
		survivalIP:  survivalIP,
		lifestealIP: lifestealIP,
	}
}

// BuildEmbeds fetches the current status of every configured server and
// renders the board embeds. A server that cannot be reached is rendered as
// offline rather than dropped. The highest observed player count is folded
// into the persistent peak counter.
func (u *StatusUpdater) BuildEmbeds(ctx context.Context) ([]*discordgo.MessageEmbed, error) {
	if len(u.servers) == 0 {
		return nil, fmt.Errorf("no servers configured")
	}

	subs := subServers{SurvivalIP: u.survivalIP, LifestealIP: u.lifestealIP}
	if u.survivalIP != "" {
		subs.Survival = u.client.Info(ctx, u.survivalIP)
	}
	if u.lifestealIP != "" {
		subs.Lifesteal = u.client.Info(ctx, u.lifestealIP)
	}

	peak := u.store.PeakPlayers()
	maxOnline := 0

	embeds := make([]*discordgo.MessageEmbed, 0, len(u.servers))
	for _, address := range u.servers {
		status, err := u.client.Status(ctx, address)
		if err != nil {
			slog.Warn("Failed to fetch server status", "address", address, "error", err)
			status = nil
		} else if status.Online && status.Players.Online > maxOnline {
			maxOnline = status.Players.Online
		}
		embeds = append(embeds, statusEmbed(address, status, peak, subs))
	}

	if _, err := u.store.RecordPlayerCount(maxOnline); err != nil {
		slog.Error("Failed to persist peak player count", "error", err)
	}

	return embeds, nil
}

// Refresh rebuilds the board embeds and upserts them into every registered
// status channel. A failure in one channel does not stop the others.
func (u *StatusUpdater) Refresh(ctx context.Context) error {
	embeds, err := u.BuildEmbeds(ctx)
	if err != nil {
		return err
	}

	for _, reg := range u.store.StatusChannels() {
		channelID := reg.ChannelID
		_, err := Sync(u.messenger, channelID, reg.MessageID, embeds, func(id string) error {
			return u.store.SetStatusMessageID(channelID, id)
		})
		if err != nil {
			slog.Error("Failed to update status board", "channelID", channelID, "error", err)
		}
	}
	return nil
}

// RegisterChannel posts a fresh status board into a channel and starts
// tracking it. It reports false when the channel is already registered.
func (u *StatusUpdater) RegisterChannel(ctx context.Context, guildID, channelID string) (bool, error) {
	for _, reg := range u.store.StatusChannels() {
		if reg.ChannelID == channelID {
			// already tracked; at most backfills a missing guild id on an
			// entry migrated from the legacy layout
			_, err := u.store.AddStatusChannel(guildID, channelID, reg.MessageID)
			return false, err
		}
	}

	embeds, err := u.BuildEmbeds(ctx)
	if err != nil {
		return false, err
	}

	messageID, err := u.messenger.SendEmbeds(channelID, embeds)
	if err != nil {
		return false, fmt.Errorf("failed to post status board: %w", err)
	}

	if _, err := u.store.AddStatusChannel(guildID, channelID, messageID); err != nil {
		return false, err
	}
	return true, nil
}
