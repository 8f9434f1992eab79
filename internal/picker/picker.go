// Package picker assembles two role-balanced teams from the signup pools,
// weighting each draw by how long players have been waiting.
package picker

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/jose-valero/pug-picker-bot/internal/domain/match"
	"github.com/jose-valero/pug-picker-bot/internal/storage"
)

type perr string

func (e perr) Error() string { return string(e) }

const (
	ErrInsufficientPlayers = perr("not enough unique players in each role")
	ErrInvalidQuotas       = perr("invalid quotas")
)

// Pools are the signed up players per role.
type Pools map[match.Role][]string

// Result is a successful assembly.
type Result struct {
	Team1    match.Team
	Team2    match.Team
	Captain1 string
	Captain2 string
}

// Players returns everyone placed on either team.
func (r Result) Players() []string {
	return append(r.Team1.Players(), r.Team2.Players()...)
}

// Assembler draws teams and keeps the priority counters up to date.
type Assembler struct {
	store storage.PriorityStore
	rng   *rand.Rand
	now   func() time.Time
	log   *zap.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithRand sets the random source. Tests pass a seeded one.
func WithRand(rng *rand.Rand) Option { return func(a *Assembler) { a.rng = rng } }

// WithClock sets the time source used for staleness and resets.
func WithClock(now func() time.Time) Option { return func(a *Assembler) { a.now = now } }

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option { return func(a *Assembler) { a.log = log } }

// New returns an Assembler backed by store.
func New(store storage.PriorityStore, opts ...Option) *Assembler {
	a := &Assembler{
		store: store,
		now:   time.Now,
		log:   zap.NewNop(),
	}
	for _, o := range opts {
		o(a)
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewChaCha8(newSeed()))
	}
	return a
}

func newSeed() [32]byte {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		binary.LittleEndian.PutUint64(seed[:], uint64(time.Now().UnixNano()))
	}
	return seed
}

// Assemble draws quota×2 players per role and splits them into two teams.
//
// Every queued player's counter is incremented before drawing, whether or not
// the attempt succeeds. Only placed players are reset afterwards.
func (a *Assembler) Assemble(ctx context.Context, pools Pools, quotas match.Quotas) (Result, error) {
	if err := quotas.Validate(); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidQuotas, err)
	}

	queued := union(pools)
	if err := a.store.IncrementAll(ctx, queued); err != nil {
		return Result{}, fmt.Errorf("increment queue counts: %w", err)
	}

	now := a.now()
	scores := make(map[string]float64, len(queued))
	for _, p := range queued {
		pr, err := a.store.Get(ctx, p)
		if err != nil {
			return Result{}, fmt.Errorf("load priority: %w", err)
		}
		scores[p] = Score(pr, now)
	}

	taken := make(map[string]struct{})
	drawn := make(map[match.Role][]string, len(match.Roles))
	for _, role := range match.Roles {
		needed := quotas.Of(role) * 2
		pool := available(pools[role], taken)
		if len(pool) < needed {
			a.log.Info("not enough players",
				zap.String("role", string(role)),
				zap.Int("needed", needed),
				zap.Int("available", len(pool)),
			)
			return Result{}, fmt.Errorf("%w: need %d %s, have %d", ErrInsufficientPlayers, needed, role, len(pool))
		}

		weights := make([]float64, len(pool))
		for i, p := range pool {
			weights[i] = scores[p]
		}
		picks := drawWeighted(a.rng, pool, shiftPositive(weights), needed)
		for _, p := range picks {
			taken[p] = struct{}{}
		}
		drawn[role] = picks
	}

	var res Result
	for _, role := range match.Roles {
		picks := drawn[role]
		q := quotas.Of(role)
		res.Team1.SetRole(role, picks[:q:q])
		res.Team2.SetRole(role, picks[q:])
	}
	res.Captain1 = a.captain(res.Team1)
	res.Captain2 = a.captain(res.Team2)

	if err := a.store.Reset(ctx, res.Players(), now); err != nil {
		return Result{}, fmt.Errorf("reset placed players: %w", err)
	}
	return res, nil
}

func (a *Assembler) captain(t match.Team) string {
	players := t.Players()
	return players[a.rng.IntN(len(players))]
}

// union returns every queued player once, in role precedence order.
func union(pools Pools) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, role := range match.Roles {
		for _, p := range pools[role] {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

func available(pool []string, taken map[string]struct{}) []string {
	out := make([]string, 0, len(pool))
	seen := make(map[string]struct{}, len(pool))
	for _, p := range pool {
		if _, ok := taken[p]; ok {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
