// Package discord mirrors the PUG session into a Discord channel: a status
// card edited in place plus one embed per drawn and decided game.
package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/jose-valero/pug-picker-bot/internal/domain/events"
	"github.com/jose-valero/pug-picker-bot/internal/ui"
)

const defaultBuffer = 64

// Announcer consumes session events on its own goroutine. Events arriving
// while the buffer is full are dropped.
type Announcer struct {
	m         messenger
	channelID string
	card      *statusCard
	log       *zap.Logger
	now       func() time.Time

	events chan any
}

// NewAnnouncer posts to channelID through m. botID, when known, restricts
// status card rehydration to the bot's own messages.
func NewAnnouncer(m messenger, channelID, botID string, log *zap.Logger) *Announcer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Announcer{
		m:         m,
		channelID: channelID,
		card:      &statusCard{m: m, channelID: channelID, botID: botID, log: log},
		log:       log,
		now:       time.Now,
		events:    make(chan any, defaultBuffer),
	}
}

// Attach subscribes to the bus and returns the unsubscribe func.
func (a *Announcer) Attach(bus *events.Bus) func() {
	cancels := []func(){
		events.Subscribe(bus, func(ev events.QueueChanged) { a.enqueue(ev) }),
		events.Subscribe(bus, func(ev events.TeamsAssembled) { a.enqueue(ev) }),
		events.Subscribe(bus, func(ev events.GameDecided) { a.enqueue(ev) }),
	}
	return func() {
		for _, c := range cancels {
			c()
		}
	}
}

func (a *Announcer) enqueue(ev any) {
	select {
	case a.events <- ev:
	default:
		a.log.Warn("announcer buffer full, dropping event", zap.String("event", eventName(ev)))
	}
}

// Run delivers queued events until ctx is done.
func (a *Announcer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-a.events:
			if err := a.deliver(ev); err != nil {
				a.log.Warn("announce failed", zap.String("event", eventName(ev)), zap.Error(err))
			}
		}
	}
}

func (a *Announcer) deliver(ev any) error {
	var emb *discordgo.MessageEmbed
	switch e := ev.(type) {
	case events.QueueChanged:
		return a.card.publish(ui.StatusEmbed(e.Snapshot, e.Quotas))
	case events.TeamsAssembled:
		emb = ui.TeamsEmbed(e.Game)
	case events.GameDecided:
		emb = ui.ResultEmbed(e.Game, e.Logged, a.now())
	default:
		return nil
	}
	_, err := SendEmbed(a.m, a.channelID, emb)
	return err
}

func eventName(ev any) string {
	switch ev.(type) {
	case events.QueueChanged:
		return "queue_changed"
	case events.TeamsAssembled:
		return "teams_assembled"
	case events.GameDecided:
		return "game_decided"
	}
	return "unknown"
}
