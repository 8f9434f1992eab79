package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jose-valero/pug-picker-bot/internal/domain/events"
	"github.com/jose-valero/pug-picker-bot/internal/domain/match"
	"github.com/jose-valero/pug-picker-bot/internal/picker"
	"github.com/jose-valero/pug-picker-bot/internal/queue"
	"github.com/jose-valero/pug-picker-bot/internal/storage"
)

// TeamPicker draws two teams from the signup pools.
type TeamPicker interface {
	Assemble(ctx context.Context, pools picker.Pools, quotas match.Quotas) (picker.Result, error)
}

// SessionDeps wires a Session. Bus, Log, Now and Rand are optional.
type SessionDeps struct {
	Picker   TeamPicker
	Recorder storage.GameRecorder
	Bus      *events.Bus
	Quotas   match.Quotas
	Log      *zap.Logger
	Now      func() time.Time
	Rand     *rand.Rand
}

// Session owns the signup queue, the quotas and the pending game. Every
// entry point takes the same lock, so chat and HTTP callers never interleave.
type Session struct {
	picker   TeamPicker
	recorder storage.GameRecorder
	bus      *events.Bus
	log      *zap.Logger
	now      func() time.Time
	rng      *rand.Rand

	mu     sync.Mutex
	q      *queue.Queue
	quotas match.Quotas
	game   *match.Game
}

func NewSession(d SessionDeps) *Session {
	s := &Session{
		picker:   d.Picker,
		recorder: d.Recorder,
		bus:      d.Bus,
		log:      d.Log,
		now:      d.Now,
		rng:      d.Rand,
		q:        queue.New(),
		quotas:   d.Quotas,
	}
	if s.bus == nil {
		s.bus = events.NewBus(nil)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if s.quotas == (match.Quotas{}) {
		s.quotas = match.CanonicalQuotas
	}
	return s
}

// Status is a read-only view of the session.
type Status struct {
	State     queue.State             `json:"state"`
	Quotas    match.Quotas            `json:"quotas"`
	Members   map[match.Role][]string `json:"members"`
	Counts    map[match.Role]int      `json:"counts"`
	Canonical bool                    `json:"canonical"`
	Unique    int                     `json:"unique"`
	Enough    bool                    `json:"enough"`
	Game      *match.Game             `json:"game,omitempty"`
	Snapshot  queue.Snapshot          `json:"-"`
}

func (s *Session) statusLocked() Status {
	snap := s.q.Snapshot()
	counts := make(map[match.Role]int, len(match.Roles))
	for _, r := range match.Roles {
		counts[r] = snap.Count(r)
	}
	unique := len(snap.Unique())
	st := Status{
		State:     snap.State,
		Quotas:    s.quotas,
		Members:   snap.Members,
		Counts:    counts,
		Canonical: s.quotas.Canonical(),
		Unique:    unique,
		Enough:    unique >= s.quotas.PerTeam()*2,
		Snapshot:  snap,
	}
	if s.game != nil {
		g := *s.game
		st.Game = &g
	}
	return st
}

func (s *Session) changedLocked() events.QueueChanged {
	return events.QueueChanged{Snapshot: s.q.Snapshot(), Quotas: s.quotas}
}

// Status returns a copy of the current state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *Session) transition(name string, fn func() error) (queue.State, error) {
	s.mu.Lock()
	from := s.q.State()
	if err := fn(); err != nil {
		s.mu.Unlock()
		return from, err
	}
	to := s.q.State()
	changed := s.changedLocked()
	s.mu.Unlock()

	s.log.Info("queue transition",
		zap.String("transition", name),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	events.Publish(s.bus, changed)
	return to, nil
}

// Start opens a fresh queue. Starting while a game is pending abandons it
// without a result.
func (s *Session) Start() (queue.State, error) {
	return s.transition(string(queue.TransitionStart), s.startLocked)
}

func (s *Session) startLocked() error {
	if err := s.q.Start(); err != nil {
		return err
	}
	if s.game != nil {
		s.log.Warn("pending game abandoned", zap.String("game_id", s.game.ID))
		s.game = nil
	}
	return nil
}

// Stop closes signups, keeping them for the next draw.
func (s *Session) Stop() (queue.State, error) {
	return s.transition(string(queue.TransitionStop), s.q.Stop)
}

// Resume reopens a stopped queue without clearing it.
func (s *Session) Resume() (queue.State, error) {
	return s.transition(string(queue.TransitionResume), s.q.Resume)
}

// Toggle stops an active queue and starts a fresh one otherwise.
func (s *Session) Toggle() (queue.State, error) {
	return s.transition("toggle", func() error {
		if s.q.State() == queue.StateActive {
			return s.q.Stop()
		}
		return s.startLocked()
	})
}

// SignUp adds player under keyword. It returns the roles newly joined.
func (s *Session) SignUp(player, keyword string) ([]match.Role, error) {
	s.mu.Lock()
	added, err := s.q.SignUp(player, keyword)
	if err != nil || len(added) == 0 {
		s.mu.Unlock()
		return added, err
	}
	changed := s.changedLocked()
	s.mu.Unlock()

	events.Publish(s.bus, changed)
	return added, nil
}

// Assemble draws teams from the current signups and moves the queue ingame.
// Once started it runs to completion even if ctx is cancelled.
func (s *Session) Assemble(ctx context.Context) (match.Game, error) {
	ctx = context.WithoutCancel(ctx)
	s.mu.Lock()
	if err := s.q.Check(queue.TransitionBeginGame); err != nil {
		s.mu.Unlock()
		return match.Game{}, err
	}

	res, err := s.picker.Assemble(ctx, picker.Pools(s.q.ByRole()), s.quotas)
	if err != nil {
		s.mu.Unlock()
		return match.Game{}, err
	}

	g := match.Game{
		ID:        uuid.NewString(),
		Quotas:    s.quotas,
		Team1:     res.Team1,
		Team2:     res.Team2,
		Captain1:  res.Captain1,
		Captain2:  res.Captain2,
		CreatedAt: s.now(),
	}
	if err := s.q.BeginGame(); err != nil {
		s.mu.Unlock()
		return match.Game{}, err
	}
	s.game = &g
	changed := s.changedLocked()
	s.mu.Unlock()

	s.log.Info("teams assembled",
		zap.String("game_id", g.ID),
		zap.Strings("team1", g.Team1.Players()),
		zap.Strings("team2", g.Team2.Players()),
		zap.Bool("canonical", g.Canonical()),
	)
	events.Publish(s.bus, events.TeamsAssembled{Game: g})
	events.Publish(s.bus, changed)
	return g, nil
}

// RecordWinner decides the pending game. Canonical games are written to the
// game log first; if that fails the game stays pending and undecided.
// Caller cancellation does not interrupt the write.
func (s *Session) RecordWinner(ctx context.Context, w match.Winner) (match.Game, bool, error) {
	ctx = context.WithoutCancel(ctx)
	s.mu.Lock()
	if err := s.q.Check(queue.TransitionEndGame); err != nil {
		s.mu.Unlock()
		return match.Game{}, false, err
	}
	if s.game == nil {
		s.mu.Unlock()
		return match.Game{}, false, ErrNoGame
	}

	g := *s.game
	if err := g.Decide(w); err != nil {
		s.mu.Unlock()
		return match.Game{}, false, err
	}

	logged := false
	if g.Canonical() {
		if err := s.recorder.Log(ctx, storage.RecordFromGame(g, s.now())); err != nil {
			s.mu.Unlock()
			return match.Game{}, false, fmt.Errorf("record game %s: %w", g.ID, err)
		}
		logged = true
	}

	if err := s.q.EndGame(); err != nil {
		s.mu.Unlock()
		return match.Game{}, false, err
	}
	s.game = nil
	changed := s.changedLocked()
	s.mu.Unlock()

	s.log.Info("game decided",
		zap.String("game_id", g.ID),
		zap.String("winner", string(g.Winner)),
		zap.Bool("logged", logged),
	)
	events.Publish(s.bus, events.GameDecided{Game: g, Logged: logged})
	events.Publish(s.bus, changed)
	return g, logged, nil
}

// SetQuotas changes the per-team role counts for the next draw.
func (s *Session) SetQuotas(q match.Quotas) error {
	if err := q.Validate(); err != nil {
		return fmt.Errorf("%w: %v", picker.ErrInvalidQuotas, err)
	}
	s.mu.Lock()
	if s.q.State() == queue.StateInGame {
		s.mu.Unlock()
		return ErrGamePending
	}
	s.quotas = q
	changed := s.changedLocked()
	s.mu.Unlock()

	s.log.Info("quotas changed", zap.Stringer("quotas", q), zap.Bool("canonical", q.Canonical()))
	events.Publish(s.bus, changed)
	return nil
}

// Populate signs up n synthetic players with random keywords. It is a
// development aid and needs an active queue like any other signup.
func (s *Session) Populate(n int) (int, error) {
	s.mu.Lock()
	if s.q.State() != queue.StateActive {
		s.mu.Unlock()
		return 0, queue.ErrNotAccepting
	}
	joined := 0
	for i := 1; i <= n; i++ {
		kw := queue.Keywords[s.rng.IntN(len(queue.Keywords))]
		added, err := s.q.SignUp(fmt.Sprintf("testplayer%02d", i), kw)
		if err != nil {
			s.mu.Unlock()
			return joined, err
		}
		if len(added) > 0 {
			joined++
		}
	}
	changed := s.changedLocked()
	s.mu.Unlock()

	s.log.Debug("queue populated", zap.Int("requested", n), zap.Int("joined", joined))
	events.Publish(s.bus, changed)
	return joined, nil
}
