package bot

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Gurkirat164/Discord-Minecraft-Link-Bot/internal/storage"
)

const dateLayout = "January 2, 2006"

func rankColor(rank storage.Rank) int {
	if rank == storage.RankMediaPlus {
		return 0x00FF00
	}
	return 0x0099FF
}

// profileEmbed renders a full profile, used for DM confirmations and
// /viewprofile.
func profileEmbed(p storage.Profile, title string) *discordgo.MessageEmbed {
	endValue := "Permanent"
	if p.RankEndDate != nil {
		endValue = p.RankEndDate.Format(dateLayout)
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Member", Value: fmt.Sprintf("<@%s>", p.UserID), Inline: true},
		{Name: "In-Game Name", Value: p.InGameName, Inline: true},
		{Name: "Rank", Value: string(p.Rank), Inline: true},
		{Name: "Start Date", Value: p.RankStartDate.Format(dateLayout), Inline: true},
		{Name: "End Date", Value: endValue, Inline: true},
	}
	if p.RankEndDate != nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Days Left", Value: fmt.Sprintf("%d", p.DaysLeft(time.Now())), Inline: true,
		})
	}
	if p.ChannelLink != "" {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Channel", Value: p.ChannelLink,
		})
	}

	return &discordgo.MessageEmbed{
		Title:     title,
		Color:     rankColor(p.Rank),
		Fields:    fields,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}
