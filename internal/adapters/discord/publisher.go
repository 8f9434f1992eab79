package discord

import (
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// statusCard keeps one status message per channel and edits it in place.
type statusCard struct {
	m         messenger
	channelID string
	botID     string
	log       *zap.Logger

	mu    sync.Mutex
	msgID string
}

// Heurística mínima para detectar "nuestro" mensaje de estado existente.
func looksLikeStatusCard(m *discordgo.Message) bool {
	if len(m.Embeds) == 0 {
		return false
	}
	return strings.Contains(strings.ToLower(m.Embeds[0].Title), "pug")
}

// findExisting looks through recent history for a card left by a previous run.
func (c *statusCard) findExisting() (string, bool) {
	msgs, err := c.m.ChannelMessages(c.channelID, 50, "", "", "")
	if err != nil {
		c.log.Debug("history lookup failed", zap.Error(err))
		return "", false
	}
	for _, m := range msgs {
		if m == nil || len(m.Embeds) == 0 {
			continue
		}
		if c.botID != "" && (m.Author == nil || m.Author.ID != c.botID) {
			continue
		}
		if looksLikeStatusCard(m) {
			return m.ID, true
		}
	}
	return "", false
}

// publish edits the remembered card, rehydrates it from history, or creates
// a new one, in that order. A deleted card is forgotten and recreated.
func (c *statusCard) publish(emb *discordgo.MessageEmbed) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.msgID == "" {
		if id, ok := c.findExisting(); ok {
			c.log.Debug("status card rehydrated", zap.String("message_id", id))
			c.msgID = id
		}
	}
	if c.msgID != "" {
		err := EditEmbed(c.m, c.channelID, c.msgID, emb)
		if err == nil || !isUnknownMessage(err) {
			return err
		}
		c.log.Info("status card deleted, recreating", zap.String("message_id", c.msgID))
		c.msgID = ""
	}

	msg, err := SendEmbed(c.m, c.channelID, emb)
	if err != nil {
		return err
	}
	if msg != nil {
		c.log.Debug("status card created", zap.String("message_id", msg.ID))
		c.msgID = msg.ID
	}
	return nil
}
