package board

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Gurkirat164/Discord-Minecraft-Link-Bot/internal/mcstatus"
	"github.com/Gurkirat164/Discord-Minecraft-Link-Bot/internal/storage"
)

const (
	colorOnline    = 0x00FF00
	colorOffline   = 0xFF0000
	colorMedia     = 0x0099FF
	colorMediaPlus = 0x00FF00
)

// subServers carries the optional survival/lifesteal lines shown under the
// main player count.
type subServers struct {
	SurvivalIP  string
	LifestealIP string
	Survival    mcstatus.Info
	Lifesteal   mcstatus.Info
}

func subServerLine(name string, info mcstatus.Info) string {
	if !info.Online {
		return fmt.Sprintf("%s: Offline", name)
	}
	return fmt.Sprintf("%s: %d online", name, info.Players)
}

// statusEmbed renders one server's status board entry.
func statusEmbed(address string, status *mcstatus.Status, peak int, subs subServers) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "Minecraft Server Status",
		Timestamp: time.Now().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Last updated",
		},
	}

	if status == nil || !status.Online {
		embed.Color = colorOffline
		embed.Description = fmt.Sprintf("**%s** is currently offline.", address)
		return embed
	}

	embed.Color = colorOnline
	embed.Description = fmt.Sprintf("**%s** is online!", address)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Players", Value: fmt.Sprintf("%d / %d", status.Players.Online, status.Players.Max), Inline: true},
		{Name: "Peak Players", Value: fmt.Sprintf("%d", peak), Inline: true},
	}
	if status.Version.NameClean != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Version", Value: status.Version.NameClean, Inline: true,
		})
	}

	var lines string
	if subs.SurvivalIP != "" {
		lines += subServerLine("Survival", subs.Survival) + "\n"
	}
	if subs.LifestealIP != "" {
		lines += subServerLine("Lifesteal", subs.Lifesteal) + "\n"
	}
	if lines != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Game Modes", Value: lines,
		})
	}

	return embed
}

// memberListEmbed renders the public roster for one rank.
func memberListEmbed(title string, color int, profiles []storage.Profile) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: title,
		Color: color,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%d member(s)", len(profiles)),
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if len(profiles) == 0 {
		embed.Description = "No members yet."
		return embed
	}

	var body string
	for _, p := range profiles {
		body += fmt.Sprintf("• **%s** - `%s`\n", p.Username, p.InGameName)
	}
	embed.Description = body
	return embed
}

// expiryListEmbed renders the admin tracking list for one rank, showing how
// many days each bounded membership has left.
func expiryListEmbed(title string, color int, profiles []storage.Profile, now time.Time) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: title,
		Color: color,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%d tracked", len(profiles)),
		},
		Timestamp: now.Format(time.RFC3339),
	}

	if len(profiles) == 0 {
		embed.Description = "No expiring memberships."
		return embed
	}

	var body string
	for _, p := range profiles {
		body += fmt.Sprintf("• <@%s> (`%s`) - expires in **%d day(s)**\n", p.UserID, p.InGameName, p.DaysLeft(now))
	}
	embed.Description = body
	return embed
}
