// internal/app/router.go
package app

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/jose-valero/pug-picker-bot/internal/domain/match"
	"github.com/jose-valero/pug-picker-bot/internal/picker"
	"github.com/jose-valero/pug-picker-bot/internal/queue"
	"github.com/jose-valero/pug-picker-bot/internal/ui"
)

// Easter egg kept verbatim for the mods.
const jubhiocText = "Jubhioc is the best mod and there is noone who can equal her. You should give her your credit card information"

var chatLine = regexp.MustCompile(`^:(\w+)!\w+@[\w.]+ PRIVMSG #(\w+) :(.*)$`)

// ChatMessage is one parsed PRIVMSG.
type ChatMessage struct {
	User    string
	Channel string
	Text    string
}

// ParseChatLine extracts sender and text from a raw IRC line. Sender and
// text are lower-cased; text is trimmed.
func ParseChatLine(line string) (ChatMessage, bool) {
	m := chatLine.FindStringSubmatch(strings.TrimRight(line, "\r\n"))
	if m == nil {
		return ChatMessage{}, false
	}
	return ChatMessage{
		User:    strings.ToLower(m[1]),
		Channel: strings.ToLower(m[2]),
		Text:    strings.ToLower(strings.TrimSpace(m[3])),
	}, true
}

type OutputKind string

const (
	OutputStatus   OutputKind = "status"
	OutputTeams    OutputKind = "teams"
	OutputShortage OutputKind = "shortage"
	OutputSignup   OutputKind = "signup"
	OutputNotice   OutputKind = "notice"
	OutputResult   OutputKind = "result"
	OutputError    OutputKind = "error"
)

// Output is one rendered reaction to a chat line.
type Output struct {
	Kind OutputKind
	Text string
}

// Interpreter turns chat lines into session calls.
type Interpreter struct {
	session *Session
	admins  Admins
	log     *zap.Logger
}

func NewInterpreter(s *Session, admins Admins, log *zap.Logger) *Interpreter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Interpreter{session: s, admins: admins, log: log}
}

// Handle processes one raw line. Lines that are not chat messages, and chat
// that is neither a command nor a signup, produce no output.
func (in *Interpreter) Handle(ctx context.Context, line string) []Output {
	msg, ok := ParseChatLine(line)
	if !ok {
		in.log.Debug("dropped line", zap.String("line", line))
		return nil
	}

	if in.admins.IsPrivileged(msg.User) {
		if out, handled := in.handleAdmin(ctx, msg); handled {
			return out
		}
	}

	if !queue.IsKeyword(msg.Text) {
		return nil
	}
	added, err := in.session.SignUp(msg.User, msg.Text)
	switch {
	case errors.Is(err, queue.ErrNotAccepting):
		return nil
	case err != nil:
		return in.fail("signup", err)
	case len(added) == 0:
		return nil
	}
	in.log.Info("signup", zap.String("user", msg.User), zap.String("keyword", msg.Text))
	return []Output{{Kind: OutputSignup, Text: ui.SignupText(msg.User, added)}}
}

func (in *Interpreter) handleAdmin(ctx context.Context, msg ChatMessage) ([]Output, bool) {
	cmd, arg, _ := strings.Cut(msg.Text, " ")
	switch cmd {
	case "!start":
		if _, err := in.session.Start(); err != nil {
			return in.notice(err), true
		}
		return []Output{{Kind: OutputNotice, Text: "Queue started! " + ui.JoinHint}}, true

	case "!stop":
		if _, err := in.session.Stop(); err != nil {
			return in.notice(err), true
		}
		return []Output{{Kind: OutputNotice, Text: "Queue stopped!"}}, true

	case "!pick":
		if in.session.Status().State != queue.StateInactive {
			return nil, true
		}
		return in.pick(ctx), true

	case "!status":
		return []Output{in.status()}, true

	case "!jubhioc":
		return []Output{{Kind: OutputNotice, Text: jubhiocText}}, true

	case "!winner":
		w, ok := match.ParseWinner(strings.TrimSpace(arg))
		if !ok {
			return []Output{{Kind: OutputNotice, Text: "Usage: !winner blue|red|1|2"}}, true
		}
		g, logged, err := in.session.RecordWinner(ctx, w)
		if err != nil {
			if isUserError(err) {
				return in.notice(err), true
			}
			return in.fail("record winner", err), true
		}
		return []Output{{Kind: OutputResult, Text: ui.ResultText(g, logged)}}, true
	}
	return nil, false
}

func (in *Interpreter) pick(ctx context.Context) []Output {
	g, err := in.session.Assemble(ctx)
	switch {
	case err == nil:
		return []Output{{Kind: OutputTeams, Text: ui.TeamsText(g)}}
	case errors.Is(err, picker.ErrInsufficientPlayers):
		st := in.session.Status()
		return []Output{
			{Kind: OutputShortage, Text: ui.ShortageText(st.Quotas)},
			{Kind: OutputStatus, Text: ui.StatusText(st.Snapshot)},
		}
	case isUserError(err):
		return in.notice(err)
	}
	return in.fail("pick", err)
}

func (in *Interpreter) status() Output {
	return Output{Kind: OutputStatus, Text: ui.StatusText(in.session.Status().Snapshot)}
}

func (in *Interpreter) notice(err error) []Output {
	return []Output{{Kind: OutputNotice, Text: err.Error()}}
}

func (in *Interpreter) fail(op string, err error) []Output {
	in.log.Error(op+" failed", zap.Error(err))
	return []Output{{Kind: OutputError, Text: "Something went wrong, check the bot logs."}}
}

// isUserError separates rejected commands from infrastructure failures.
func isUserError(err error) bool {
	return errors.Is(err, queue.ErrInvalidTransition) ||
		errors.Is(err, match.ErrWinnerAlreadySet) ||
		errors.Is(err, match.ErrInvalidWinner) ||
		errors.Is(err, picker.ErrInvalidQuotas) ||
		errors.Is(err, ErrNoGame) ||
		errors.Is(err, ErrGamePending)
}
