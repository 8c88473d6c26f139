package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/Gurkirat164/Discord-Minecraft-Link-Bot/internal/board"
	"github.com/Gurkirat164/Discord-Minecraft-Link-Bot/internal/config"
	"github.com/Gurkirat164/Discord-Minecraft-Link-Bot/internal/lifecycle"
	"github.com/Gurkirat164/Discord-Minecraft-Link-Bot/internal/mcstatus"
	"github.com/Gurkirat164/Discord-Minecraft-Link-Bot/internal/storage"
	"github.com/Gurkirat164/Discord-Minecraft-Link-Bot/internal/task"
)

// Bot represents the Discord bot instance
type Bot struct {
	config  *config.Config
	session *discordgo.Session
	store   *storage.Store
	status  *board.StatusUpdater
	logs    *board.LogUpdater
	checker *lifecycle.Checker

	runners  []*task.Runner
	commands []*discordgo.ApplicationCommand
}

// New creates a new Bot instance
func New(cfg *config.Config) (*Bot, error) {
	// Create Discord session
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	// Set intents
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	// Initialize storage
	store, err := storage.Open(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	b := &Bot{
		config:  cfg,
		session: session,
		store:   store,
	}

	messenger := board.SessionMessenger{Session: session}
	b.status = board.NewStatusUpdater(store, mcstatus.NewClient(), messenger, cfg.Servers, cfg.SurvivalIP, cfg.LifestealIP)
	b.logs = board.NewLogUpdater(store, messenger)
	b.checker = lifecycle.NewChecker(store, b, b.logs)

	// Register command handlers
	b.registerHandlers()

	return b, nil
}

// Start opens the Discord connection and starts background tasks
func (b *Bot) Start(ctx context.Context) error {
	// Open Discord connection
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	slog.Info("Connected to Discord", "user", b.session.State.User.Username)

	// Register slash commands
	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	// Legacy deployments configured a single status channel via env
	b.registerLegacyStatusChannel(ctx)

	// Start the periodic tasks
	b.runners = []*task.Runner{
		task.New("status-refresh", b.config.StatusUpdateInterval, func(ctx context.Context) {
			if err := b.status.Refresh(ctx); err != nil {
				slog.Error("Status refresh failed", "error", err)
			}
		}),
		task.New("admin-log-refresh", b.config.AdminLogInterval, func(context.Context) {
			if err := b.logs.RefreshAdmin(); err != nil {
				slog.Error("Admin log refresh failed", "error", err)
			}
		}),
		task.New("expiration-sweep", b.config.ExpirationCheckInterval, func(context.Context) {
			if err := b.checker.Sweep(); err != nil {
				slog.Error("Expiration sweep failed", "error", err)
			}
		}),
	}
	for _, r := range b.runners {
		go r.Start(ctx)
	}

	return nil
}

// Stop gracefully shuts down the bot
func (b *Bot) Stop() error {
	for _, r := range b.runners {
		r.Stop()
	}

	if b.session != nil {
		return b.session.Close()
	}
	return nil
}

// registerLegacyStatusChannel picks up the STATUS_CHANNEL_ID env var used by
// older deployments and registers it as a status board if it isn't already.
func (b *Bot) registerLegacyStatusChannel(ctx context.Context) {
	channelID := b.config.LegacyStatusChannelID
	if channelID == "" {
		return
	}

	channel, err := b.session.Channel(channelID)
	if err != nil {
		slog.Warn("Legacy status channel not reachable", "channelID", channelID, "error", err)
		return
	}

	added, err := b.status.RegisterChannel(ctx, channel.GuildID, channelID)
	if err != nil {
		slog.Error("Failed to register legacy status channel", "channelID", channelID, "error", err)
		return
	}
	if added {
		slog.Info("Registered legacy status channel", "channelID", channelID)
	}
}

// registerHandlers sets up Discord event handlers
func (b *Bot) registerHandlers() {
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("Bot is ready", "guilds", len(r.Guilds))
	})
}

// handleInteraction processes slash command interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	slog.Debug("Received command", "command", data.Name, "guild", i.GuildID)

	switch data.Name {
	case "createprofile":
		b.handleCreateProfile(s, i)
	case "updateprofile":
		b.handleUpdateProfile(s, i)
	case "deleteprofile":
		b.handleDeleteProfile(s, i)
	case "viewprofile":
		b.handleViewProfile(s, i)
	case "listprofiles":
		b.handleListProfiles(s, i)
	case "set":
		b.handleSet(s, i)
	case "unset":
		b.handleUnset(s, i)
	case "mcstatus":
		b.handleMcStatus(s, i)
	case "update":
		b.handleUpdate(s, i)
	case "ping":
		b.handlePing(s, i)
	default:
		slog.Warn("Unknown command", "command", data.Name)
	}
}
