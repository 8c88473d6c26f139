package lifecycle

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Gurkirat164/Discord-Minecraft-Link-Bot/internal/storage"
)

const (
	colorTwoDays = 0xFFCC00
	colorOneDay  = 0xFF9900
	colorExpired = 0xFF0000

	dateLayout = "January 2, 2006"
)

func warningEmbed(p storage.Profile, daysLeft int) *discordgo.MessageEmbed {
	color := colorTwoDays
	if daysLeft == 1 {
		color = colorOneDay
	}
	return &discordgo.MessageEmbed{
		Title: "Rank Expiring Soon",
		Color: color,
		Description: fmt.Sprintf("Your **%s** rank expires in **%d day(s)**. Contact an admin to renew it.",
			p.Rank, daysLeft),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "In-Game Name", Value: p.InGameName, Inline: true},
			{Name: "Expires On", Value: p.RankEndDate.Format(dateLayout), Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func expiredEmbed(p storage.Profile) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Rank Expired",
		Color: colorExpired,
		Description: fmt.Sprintf("Your **%s** rank has expired and the role has been removed. Contact an admin to renew it.",
			p.Rank),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "In-Game Name", Value: p.InGameName, Inline: true},
			{Name: "Expired On", Value: p.RankEndDate.Format(dateLayout), Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func ownerExpiredEmbed(p storage.Profile) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Member", Value: fmt.Sprintf("%s (<@%s>)", p.Username, p.UserID), Inline: true},
		{Name: "In-Game Name", Value: p.InGameName, Inline: true},
		{Name: "Rank", Value: string(p.Rank), Inline: true},
		{Name: "Started", Value: p.RankStartDate.Format(dateLayout), Inline: true},
		{Name: "Expired On", Value: p.RankEndDate.Format(dateLayout), Inline: true},
	}
	if p.ChannelLink != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Channel", Value: p.ChannelLink})
	}

	return &discordgo.MessageEmbed{
		Title:     "Member Rank Expired",
		Color:     colorExpired,
		Fields:    fields,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}
