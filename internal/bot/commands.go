package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
)

var rankChoices = []*discordgo.ApplicationCommandOptionChoice{
	{Name: "Media", Value: "media"},
	{Name: "Media+", Value: "media+"},
	{Name: "Admin", Value: "admin"},
}

var setTypeChoices = []*discordgo.ApplicationCommandOptionChoice{
	{Name: "Public Log Channel", Value: "publiclog"},
	{Name: "Media Announcements Channel", Value: "mediaannouncements"},
	{Name: "Admin Log Channel", Value: "adminlog"},
	{Name: "Status Channel", Value: "statuschannel"},
	{Name: "Media Role", Value: "mediarole"},
	{Name: "Media+ Role", Value: "mediaplusrole"},
}

var unsetTypeChoices = []*discordgo.ApplicationCommandOptionChoice{
	{Name: "Media Role", Value: "mediarole"},
	{Name: "Media+ Role", Value: "mediaplusrole"},
}

// Slash command definitions
func (b *Bot) getCommandDefinitions() []*discordgo.ApplicationCommand {
	adminOnly := int64(discordgo.PermissionAdministrator)

	return []*discordgo.ApplicationCommand{
		{
			Name:                     "createprofile",
			Description:              "Create a media rank profile for a member",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The member to create a profile for",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "ingamename",
					Description: "Minecraft in-game name",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "rank",
					Description: "Media rank to assign",
					Required:    true,
					Choices:     rankChoices,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "channellink",
					Description: "Link to the member's channel",
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "enddate",
					Description: "Rank duration in days (min 5) or \"permanent\" (default 5)",
				},
			},
		},
		{
			Name:                     "updateprofile",
			Description:              "Update a member's media rank profile",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The member whose profile to update",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "ingamename",
					Description: "New Minecraft in-game name",
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "rank",
					Description: "New media rank",
					Choices:     rankChoices,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "channellink",
					Description: "New channel link, or \"remove\" to clear it",
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "setdays",
					Description: "Set the rank to this many days from today (min 5) or \"permanent\"; resets the start date",
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "extenddays",
					Description: "Set the rank to end this many days from today (min 5)",
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "adddays",
					Description: "Add days to the current end date, or \"permanent\"",
				},
			},
		},
		{
			Name:                     "deleteprofile",
			Description:              "Delete a member's media rank profile",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The member whose profile to delete",
					Required:    true,
				},
			},
		},
		{
			Name:        "viewprofile",
			Description: "View a media rank profile",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The member to look up (defaults to you)",
				},
			},
		},
		{
			Name:        "listprofiles",
			Description: "List all media rank profiles",
		},
		{
			Name:                     "set",
			Description:              "Configure a bot channel or role",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "type",
					Description: "What to configure",
					Required:    true,
					Choices:     setTypeChoices,
				},
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "The channel (for channel types)",
					ChannelTypes: []discordgo.ChannelType{
						discordgo.ChannelTypeGuildText,
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "The role (for role types)",
				},
			},
		},
		{
			Name:                     "unset",
			Description:              "Clear a configured bot role",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "type",
					Description: "What to clear",
					Required:    true,
					Choices:     unsetTypeChoices,
				},
			},
		},
		{
			Name:        "mcstatus",
			Description: "Show the current Minecraft server status",
		},
		{
			Name:                     "update",
			Description:              "Force-refresh the status and log boards",
			DefaultMemberPermissions: &adminOnly,
		},
		{
			Name:        "ping",
			Description: "Check that the bot is alive",
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	slog.Info("Registering slash commands")

	commandDefinitions := b.getCommandDefinitions()
	registeredCommands := make([]*discordgo.ApplicationCommand, 0, len(commandDefinitions))

	for _, cmd := range commandDefinitions {
		registered, err := b.session.ApplicationCommandCreate(
			b.session.State.User.ID,
			"", // Empty string = global command
			cmd,
		)
		if err != nil {
			return fmt.Errorf("failed to register command %s: %w", cmd.Name, err)
		}
		registeredCommands = append(registeredCommands, registered)
		slog.Debug("Registered command", "name", cmd.Name)
	}

	b.commands = registeredCommands
	slog.Info("Slash commands registered", "count", len(registeredCommands))
	return nil
}

// handleMcStatus handles the /mcstatus command
func (b *Bot) handleMcStatus(s *discordgo.Session, i *discordgo.InteractionCreate) {
	deferResponse(s, i)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	embeds, err := b.status.BuildEmbeds(ctx)
	if err != nil {
		b.editResponse(s, i, "No Minecraft servers are configured.")
		return
	}

	s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &embeds,
	})
}

// handleUpdate handles the /update command
func (b *Bot) handleUpdate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	deferResponse(s, i)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var failed []string
	if err := b.status.Refresh(ctx); err != nil {
		slog.Error("Status refresh failed", "error", err)
		failed = append(failed, "status boards")
	}
	if err := b.logs.RefreshPublic(); err != nil {
		failed = append(failed, "public log")
	}
	if err := b.logs.RefreshAdmin(); err != nil {
		failed = append(failed, "admin log")
	}

	if len(failed) > 0 {
		b.editResponse(s, i, fmt.Sprintf("Refreshed with failures: %v. Check the logs.", failed))
		return
	}
	b.editResponse(s, i, "Refreshed the status boards, public log and admin log.")
}

// handlePing handles the /ping command
func (b *Bot) handlePing(s *discordgo.Session, i *discordgo.InteractionCreate) {
	respondWithMessage(s, i, fmt.Sprintf("Pong! Heartbeat: %dms", s.HeartbeatLatency().Milliseconds()))
}

// Helper functions

func optionMap(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	options := i.ApplicationCommandData().Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

func respondWithMessage(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
}

func deferResponse(s *discordgo.Session, i *discordgo.InteractionCreate) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

func (b *Bot) editResponse(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	})
}
