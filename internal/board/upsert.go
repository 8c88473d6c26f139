package board

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// Messenger is the subset of Discord message operations boards need. It is
// satisfied by SessionMessenger and by fakes in tests.
type Messenger interface {
	// SendEmbeds posts a new message and returns its id.
	SendEmbeds(channelID string, embeds []*discordgo.MessageEmbed) (string, error)
	// EditEmbeds overwrites an existing message in place.
	EditEmbeds(channelID, messageID string, embeds []*discordgo.MessageEmbed) error
}

// SessionMessenger adapts a discordgo session to the Messenger interface.
type SessionMessenger struct {
	Session *discordgo.Session
}

func (m SessionMessenger) SendEmbeds(channelID string, embeds []*discordgo.MessageEmbed) (string, error) {
	msg, err := m.Session.ChannelMessageSendEmbeds(channelID, embeds)
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

func (m SessionMessenger) EditEmbeds(channelID, messageID string, embeds []*discordgo.MessageEmbed) error {
	_, err := m.Session.ChannelMessageEditEmbeds(channelID, messageID, embeds)
	return err
}

// Sync keeps one board message up to date in place. With no stored message id
// it sends a new message; otherwise it edits the stored message, falling back
// to a fresh send when the message has been deleted out from under us. The
// previous reference is discarded, not retried. Whenever the reference
// changes, save persists it before Sync returns; a persist failure is logged
// and the new reference is still returned, since the in-memory state remains
// the operative truth.
func Sync(m Messenger, channelID, messageID string, embeds []*discordgo.MessageEmbed, save func(string) error) (string, error) {
	if messageID != "" {
		if err := m.EditEmbeds(channelID, messageID, embeds); err == nil {
			return messageID, nil
		}
		slog.Debug("Board message missing, sending a new one", "channelID", channelID, "messageID", messageID)
	}

	newID, err := m.SendEmbeds(channelID, embeds)
	if err != nil {
		return "", err
	}

	if save != nil {
		if err := save(newID); err != nil {
			slog.Error("Failed to persist board message reference", "channelID", channelID, "error", err)
		}
	}
	return newID, nil
}
