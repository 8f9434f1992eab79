package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/jose-valero/pug-picker-bot/internal/app"
)

type Options struct {
	// Connected reports the chat link state for /healthz. Optional.
	Connected func() bool
	// DebugTools mounts /debug routes.
	DebugTools bool
	Log        *zap.Logger
}

func SetupRoutes(s *app.Session, opts Options) http.Handler {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", Healthz(opts.Connected))
	r.Get("/status", GetStatus(s))

	r.Route("/queue", func(r chi.Router) {
		r.Post("/toggle", Transition(s.Toggle, opts.Log))
		r.Post("/start", Transition(s.Start, opts.Log))
		r.Post("/stop", Transition(s.Stop, opts.Log))
		r.Post("/resume", Transition(s.Resume, opts.Log))
	})
	r.Post("/teams", CreateTeams(s, opts.Log))
	r.Post("/games/winner", RecordWinner(s, opts.Log))
	r.Put("/quotas", PutQuotas(s, opts.Log))

	if opts.DebugTools {
		r.Post("/debug/populate", Populate(s, opts.Log))
	}
	return r
}
