package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Gurkirat164/Discord-Minecraft-Link-Bot/internal/storage"
)

// minRankDays is the shortest bounded rank an admin can grant.
const minRankDays = 5

const defaultRankDays = "5"

// parseEndDate interprets a duration option value: a day count or the word
// "permanent". A nil result means permanent.
func parseEndDate(value string, now time.Time) (*time.Time, error) {
	if strings.EqualFold(strings.TrimSpace(value), "permanent") {
		return nil, nil
	}
	days, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("duration must be a number of days or \"permanent\"")
	}
	if days < minRankDays {
		return nil, fmt.Errorf("rank duration must be at least %d days", minRankDays)
	}
	end := now.Add(time.Duration(days) * 24 * time.Hour)
	return &end, nil
}

// durationOptions carries the three ways /updateprofile can change an end
// date.
type durationOptions struct {
	SetDays    string
	ExtendDays int
	AddDays    string
}

// resolveEndDate turns the duration options into a new end date. setdays wins
// over extenddays, which wins over adddays. setdays also restarts the
// membership period. adddays counts from the current end date, or from now
// when the rank is permanent or already past its end.
func resolveEndDate(current *time.Time, opts durationOptions, now time.Time) (end *time.Time, changed bool, resetStart bool, err error) {
	switch {
	case opts.SetDays != "":
		end, err = parseEndDate(opts.SetDays, now)
		return end, err == nil, true, err

	case opts.ExtendDays != 0:
		if opts.ExtendDays < minRankDays {
			return nil, false, false, fmt.Errorf("rank duration must be at least %d days", minRankDays)
		}
		e := now.Add(time.Duration(opts.ExtendDays) * 24 * time.Hour)
		return &e, true, false, nil

	case opts.AddDays != "":
		if strings.EqualFold(strings.TrimSpace(opts.AddDays), "permanent") {
			return nil, true, false, nil
		}
		days, convErr := strconv.Atoi(strings.TrimSpace(opts.AddDays))
		if convErr != nil {
			return nil, false, false, fmt.Errorf("adddays must be a number of days or \"permanent\"")
		}
		if days < minRankDays {
			return nil, false, false, fmt.Errorf("adddays must be at least %d days or \"permanent\"", minRankDays)
		}
		base := now
		if current != nil && current.After(now) {
			base = *current
		}
		e := base.Add(time.Duration(days) * 24 * time.Hour)
		return &e, true, false, nil
	}
	return nil, false, false, nil
}

// handleCreateProfile handles the /createprofile command
func (b *Bot) handleCreateProfile(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i)
	user := opts["user"].UserValue(s)
	inGameName := opts["ingamename"].StringValue()

	rank, err := storage.ParseRank(opts["rank"].StringValue())
	if err != nil {
		respondWithMessage(s, i, fmt.Sprintf("Unknown rank: `%s`.", opts["rank"].StringValue()))
		return
	}

	channelLink := ""
	if opt, ok := opts["channellink"]; ok {
		channelLink = opt.StringValue()
	}

	duration := defaultRankDays
	if opt, ok := opts["enddate"]; ok {
		duration = opt.StringValue()
	}
	endDate, err := parseEndDate(duration, time.Now())
	if err != nil {
		respondWithMessage(s, i, err.Error())
		return
	}

	// Respond immediately to avoid timeout
	deferResponse(s, i)

	profile, err := b.store.CreateProfile(user.ID, user.Username, inGameName, rank, endDate, channelLink)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateProfile) {
			b.editResponse(s, i, fmt.Sprintf("<@%s> already has a profile. Use `/updateprofile` instead.", user.ID))
			return
		}
		slog.Error("Failed to create profile", "userID", user.ID, "error", err)
		b.editResponse(s, i, "Failed to create the profile. Please try again.")
		return
	}

	if err := b.assignRankRole(i.GuildID, user.ID, rank); err != nil {
		slog.Warn("Could not assign rank role", "userID", user.ID, "rank", rank, "error", err)
	}

	if err := b.NotifyMember(user.ID, profileEmbed(profile, "Your media rank profile was created")); err != nil {
		slog.Warn("Could not DM profile confirmation", "userID", user.ID, "error", err)
	}

	b.refreshLogs()
	b.editResponse(s, i, fmt.Sprintf("Created a **%s** profile for <@%s> (`%s`).", profile.Rank, user.ID, profile.InGameName))
}

// handleUpdateProfile handles the /updateprofile command
func (b *Bot) handleUpdateProfile(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i)
	user := opts["user"].UserValue(s)

	existing, ok := b.store.GetProfile(user.ID)
	if !ok {
		respondWithMessage(s, i, fmt.Sprintf("<@%s> has no profile. Use `/createprofile` first.", user.ID))
		return
	}

	// Usernames drift, so every update refreshes the stored one
	upd := storage.ProfileUpdate{Username: user.Username}

	if opt, ok := opts["ingamename"]; ok {
		upd.InGameName = opt.StringValue()
	}
	if opt, ok := opts["rank"]; ok {
		rank, err := storage.ParseRank(opt.StringValue())
		if err != nil {
			respondWithMessage(s, i, fmt.Sprintf("Unknown rank: `%s`.", opt.StringValue()))
			return
		}
		upd.Rank = rank
	}
	if opt, ok := opts["channellink"]; ok {
		upd.SetChannelLink = true
		if !strings.EqualFold(opt.StringValue(), "remove") {
			upd.ChannelLink = opt.StringValue()
		}
	}

	var durations durationOptions
	if opt, ok := opts["setdays"]; ok {
		durations.SetDays = opt.StringValue()
	}
	if opt, ok := opts["extenddays"]; ok {
		durations.ExtendDays = int(opt.IntValue())
	}
	if opt, ok := opts["adddays"]; ok {
		durations.AddDays = opt.StringValue()
	}

	now := time.Now()
	endDate, changed, resetStart, err := resolveEndDate(existing.RankEndDate, durations, now)
	if err != nil {
		respondWithMessage(s, i, err.Error())
		return
	}
	if changed {
		upd.SetEndDate = true
		upd.EndDate = endDate
		if resetStart {
			upd.StartDate = &now
		}
	}

	deferResponse(s, i)

	updated, err := b.store.UpdateProfile(user.ID, upd)
	if err != nil {
		slog.Error("Failed to update profile", "userID", user.ID, "error", err)
		b.editResponse(s, i, "Failed to update the profile. Please try again.")
		return
	}

	if upd.Rank != "" && upd.Rank != existing.Rank {
		b.swapRankRole(i.GuildID, user.ID, existing.Rank, updated.Rank)
	}

	if err := b.NotifyMember(user.ID, profileEmbed(updated, "Your media rank profile was updated")); err != nil {
		slog.Warn("Could not DM profile update", "userID", user.ID, "error", err)
	}

	b.refreshLogs()
	b.editResponse(s, i, fmt.Sprintf("Updated the profile for <@%s>.", user.ID))
}

// handleDeleteProfile handles the /deleteprofile command
func (b *Bot) handleDeleteProfile(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i)
	user := opts["user"].UserValue(s)

	deferResponse(s, i)

	removed, err := b.store.DeleteProfile(user.ID)
	if err != nil {
		if errors.Is(err, storage.ErrProfileNotFound) {
			b.editResponse(s, i, fmt.Sprintf("<@%s> has no profile.", user.ID))
			return
		}
		slog.Error("Failed to delete profile", "userID", user.ID, "error", err)
		b.editResponse(s, i, "Failed to delete the profile. Please try again.")
		return
	}

	if err := b.removeRankRole(i.GuildID, user.ID, removed.Rank); err != nil {
		slog.Warn("Could not remove rank role", "userID", user.ID, "rank", removed.Rank, "error", err)
	}

	b.refreshLogs()
	b.editResponse(s, i, fmt.Sprintf("Deleted the **%s** profile of <@%s>.", removed.Rank, user.ID))
}

// handleViewProfile handles the /viewprofile command
func (b *Bot) handleViewProfile(s *discordgo.Session, i *discordgo.InteractionCreate) {
	target := interactionUser(i)
	if opt, ok := optionMap(i)["user"]; ok {
		target = opt.UserValue(s)
	}
	if target == nil {
		respondWithMessage(s, i, "Could not work out whose profile to show.")
		return
	}

	profile, ok := b.store.GetProfile(target.ID)
	if !ok {
		respondWithMessage(s, i, fmt.Sprintf("<@%s> has no media rank profile.", target.ID))
		return
	}

	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{profileEmbed(profile, "Media Rank Profile")},
		},
	})
}

// handleListProfiles handles the /listprofiles command
func (b *Bot) handleListProfiles(s *discordgo.Session, i *discordgo.InteractionCreate) {
	profiles := b.store.Profiles()
	if len(profiles) == 0 {
		respondWithMessage(s, i, "No media rank profiles yet. Use `/createprofile` to add one.")
		return
	}

	byRank := make(map[storage.Rank][]storage.Profile)
	for _, p := range profiles {
		byRank[p.Rank] = append(byRank[p.Rank], p)
	}

	now := time.Now()
	var sb strings.Builder
	sb.WriteString("**Media Rank Profiles:**\n\n")
	for _, rank := range []storage.Rank{storage.RankMedia, storage.RankMediaPlus, storage.RankAdmin} {
		members := byRank[rank]
		if len(members) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("**%s:**\n", rank))
		for idx, p := range members {
			sb.WriteString(fmt.Sprintf("  %d. %s (`%s`) - %s\n", idx+1, p.Username, p.InGameName, describeEnd(p, now)))
		}
		sb.WriteString("\n")
	}

	respondWithMessage(s, i, sb.String())
}

// refreshLogs re-renders both membership boards after a profile change.
func (b *Bot) refreshLogs() {
	if err := b.logs.RefreshPublic(); err != nil {
		slog.Error("Failed to refresh public log", "error", err)
	}
	if err := b.logs.RefreshAdmin(); err != nil {
		slog.Error("Failed to refresh admin log", "error", err)
	}
}

// interactionUser returns the invoking user for guild and DM interactions.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

func describeEnd(p storage.Profile, now time.Time) string {
	if p.RankEndDate == nil {
		return "permanent"
	}
	daysLeft := p.DaysLeft(now)
	if daysLeft <= 0 {
		return "expired"
	}
	return fmt.Sprintf("%d day(s) left", daysLeft)
}
