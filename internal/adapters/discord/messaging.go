package discord

import (
	"errors"

	"github.com/bwmarrin/discordgo"
)

// messenger is the slice of *discordgo.Session the announcer needs.
type messenger interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
}

// SendEmbed posts a standalone embed.
func SendEmbed(m messenger, channelID string, emb *discordgo.MessageEmbed) (*discordgo.Message, error) {
	return m.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{emb},
	})
}

// EditEmbed replaces the embeds of an existing message.
func EditEmbed(m messenger, channelID, messageID string, emb *discordgo.MessageEmbed) error {
	embeds := []*discordgo.MessageEmbed{emb}
	_, err := m.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel: channelID,
		ID:      messageID,
		Embeds:  &embeds,
	})
	return err
}

// isUnknownMessage reports a 10008: the message was deleted under us.
func isUnknownMessage(err error) bool {
	var re *discordgo.RESTError
	return errors.As(err, &re) && re.Message != nil && re.Message.Code == discordgo.ErrCodeUnknownMessage
}
