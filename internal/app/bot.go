package app

import (
	"context"

	"go.uber.org/zap"
)

// LineSource delivers raw chat lines until ctx is done.
type LineSource interface {
	Run(ctx context.Context, handle func(line string)) error
}

// Bot feeds chat lines to the interpreter one at a time, in arrival order.
type Bot struct {
	src    LineSource
	interp *Interpreter
	log    *zap.Logger
}

func NewBot(src LineSource, interp *Interpreter, log *zap.Logger) *Bot {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bot{src: src, interp: interp, log: log}
}

// Run blocks until the source stops.
func (b *Bot) Run(ctx context.Context) error {
	return b.src.Run(ctx, func(line string) {
		for _, out := range b.interp.Handle(ctx, line) {
			b.emit(out)
		}
	})
}

func (b *Bot) emit(out Output) {
	if out.Kind == OutputError {
		b.log.Warn(out.Text, zap.String("kind", string(out.Kind)))
		return
	}
	b.log.Info(out.Text, zap.String("kind", string(out.Kind)))
}
